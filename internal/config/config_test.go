package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TELEGRAM_BOT_TOKEN", "DATABASE_URL", "REDIS_URL", "OPENAI_API_KEY",
		"GEMINI_API_KEY", "DISCORD_WEBHOOK_URL", "ADMIN_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_MissingFileUsesEnvAndDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("REDIS_URL", "localhost:6379")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), true)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8000", cfg.Addr())
	require.Equal(t, "echo", cfg.AI.Provider)
	require.Equal(t, "echo", cfg.AI.DefaultModel)
	require.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	require.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	require.True(t, cfg.Runtime.Dev)
}

func TestLoadConfig_YAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  port: 9090
  request_timeout: 5s
database:
  url: postgres://file/db
redis:
  url: redis:6379
  ttl: 2h
ai:
  provider: openai
  openai_key: sk-file
personas:
  default: pirate
  available:
    - name: pirate
      description: talks like a pirate
      prompt: Arr.
`)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	require.Equal(t, 2*time.Hour, cfg.Redis.TTL)
	require.Equal(t, "sk-env", cfg.AI.OpenAIKey)
	require.Equal(t, "gpt-4o-mini", cfg.AI.DefaultModel)
	require.Len(t, cfg.Personas.Available, 1)
	require.Equal(t, "pirate", cfg.Personas.Default)
}

func TestLoadConfig_Validation(t *testing.T) {
	clearEnv(t)

	t.Run("missing redis url", func(t *testing.T) {
		path := writeConfig(t, "database:\n  url: postgres://x\n")
		_, err := LoadConfig(path, false)
		require.Error(t, err)
	})

	t.Run("gemini without key", func(t *testing.T) {
		path := writeConfig(t, "database:\n  url: postgres://x\nredis:\n  url: r:6379\nai:\n  provider: gemini\n")
		_, err := LoadConfig(path, false)
		require.Error(t, err)
	})

	t.Run("unknown provider", func(t *testing.T) {
		path := writeConfig(t, "database:\n  url: postgres://x\nredis:\n  url: r:6379\nai:\n  provider: llama\n")
		_, err := LoadConfig(path, false)
		require.Error(t, err)
	})
}

func TestTelegramToken_EnvWins(t *testing.T) {
	clearEnv(t)
	cfg := &Config{Bot: BotConfig{Token: "from-file"}}
	require.Equal(t, "from-file", cfg.TelegramToken())

	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	require.Equal(t, "from-env", cfg.TelegramToken())
}

func TestPeekTelegramToken_IgnoresInvalidRest(t *testing.T) {
	clearEnv(t)
	require.Empty(t, PeekTelegramToken(filepath.Join(t.TempDir(), "nope.yaml")))

	// no database or redis configured: full validation would fail
	path := writeConfig(t, "bot:\n  token: \" from-file \"\nserver:\n  port: 99999\n")
	_, err := LoadConfig(path, false)
	require.Error(t, err)
	require.Equal(t, "from-file", PeekTelegramToken(path))

	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	require.Equal(t, "from-env", PeekTelegramToken(path))
}

func TestPeekTelegramToken_MalformedFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "bot: [unclosed")
	require.Empty(t, PeekTelegramToken(path))
}
