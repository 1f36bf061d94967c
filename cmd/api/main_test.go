package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"personal-reply-bot/internal/infra/api"
)

func setBaseEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("REDIS_URL", "localhost:6379")
	for _, k := range []string{"TELEGRAM_BOT_TOKEN", "OPENAI_API_KEY", "GEMINI_API_KEY", "DISCORD_WEBHOOK_URL", "ADMIN_SECRET"} {
		t.Setenv(k, "")
	}
	return filepath.Join(t.TempDir(), "config.yaml")
}

func TestRun_PrintAdminToken(t *testing.T) {
	path := setBaseEnv(t)
	t.Setenv("ADMIN_SECRET", "s3cret")

	var out bytes.Buffer
	require.Equal(t, 0, run(context.Background(), []string{"-config", path, "-print-admin-token"}, &out))

	tok := strings.TrimSpace(out.String())
	req := httptest.NewRequest("POST", "/train", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	_, err := api.NewAuthManager("s3cret", time.Hour).ParseFromRequest(req)
	require.NoError(t, err)
}

func TestRun_PrintAdminTokenWithoutSecret(t *testing.T) {
	path := setBaseEnv(t)
	var out bytes.Buffer
	require.Equal(t, 1, run(context.Background(), []string{"-config", path, "-print-admin-token"}, &out))
	require.Empty(t, out.String())
}

func TestRun_InvalidConfig(t *testing.T) {
	path := setBaseEnv(t)
	t.Setenv("DATABASE_URL", "")
	var out bytes.Buffer
	require.Equal(t, 1, run(context.Background(), []string{"-config", path}, &out))
}
