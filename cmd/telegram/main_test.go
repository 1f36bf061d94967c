package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_MissingTokenExitsBeforeConfigValidation(t *testing.T) {
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "DATABASE_URL", "REDIS_URL"} {
		t.Setenv(k, "")
	}

	t.Run("no config file", func(t *testing.T) {
		var out bytes.Buffer
		code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "config.yaml")}, &out)
		require.Equal(t, 1, code)
		require.Equal(t, "❌ TELEGRAM_BOT_TOKEN not set in .env\nGet it from @BotFather on Telegram\n", out.String())
	})

	t.Run("config file without token", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("ai:\n  provider: echo\n"), 0o600))
		var out bytes.Buffer
		require.Equal(t, 1, run(context.Background(), []string{"-config", path}, &out))
		require.Contains(t, out.String(), "TELEGRAM_BOT_TOKEN not set")
	})
}

func TestRun_BadFlag(t *testing.T) {
	var out bytes.Buffer
	require.Equal(t, 2, run(context.Background(), []string{"-nope"}, &out))
}
