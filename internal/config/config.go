// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port" validate:"min=1,max=65535"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	AdminSecret    string        `yaml:"admin_secret"` // enables the bearer guard on /train, /personality, /correct
}

type BotConfig struct {
	Token              string `yaml:"token"`
	WebhookSecret      string `yaml:"webhook_secret"`
	PollTimeout        int    `yaml:"poll_timeout" validate:"min=0"` // seconds
	RateLimitPerMinute int    `yaml:"rate_limit_per_minute" validate:"min=0"`
}

type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url" validate:"omitempty,url"`
	PublicKey  string `yaml:"public_key" validate:"omitempty,hexadecimal,len=64"`
}

type LogConfig struct {
	Level    string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Format   string `yaml:"format" validate:"oneof=json console"`
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url" validate:"required"`
	MaxConns int32  `yaml:"max_conns"`
}

type RedisConfig struct {
	URL      string        `yaml:"url" validate:"required"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // conversation expiry
}

type AIConfig struct {
	Provider         string `yaml:"provider" validate:"oneof=openai gemini echo"`
	OpenAIKey        string `yaml:"openai_key" validate:"required_if=Provider openai"`
	OpenAIBaseURL    string `yaml:"openai_base_url"`
	GeminiKey        string `yaml:"gemini_key" validate:"required_if=Provider gemini"`
	GeminiURL        string `yaml:"gemini_url"`
	DefaultModel     string `yaml:"default_model"`
	ConcurrentLimit  int    `yaml:"concurrent_limit"` // max concurrent AI calls
	MaxContextTokens int    `yaml:"max_context_tokens"`
	MaxOutputTokens  int    `yaml:"max_output_tokens"`
	HistoryTurns     int    `yaml:"history_turns"`
	ExamplesPerReply int    `yaml:"examples_per_reply"`
}

type PersonalityConfig struct {
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description"`
	Prompt      string `yaml:"prompt" validate:"required"`
}

type PersonasConfig struct {
	Default   string              `yaml:"default"`
	Available []PersonalityConfig `yaml:"available" validate:"dive"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Bot      BotConfig      `yaml:"bot"`
	Discord  DiscordConfig  `yaml:"discord"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Personas PersonasConfig `yaml:"personas"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the YAML file at path (a missing file yields defaults),
// applies environment overrides and defaults, then validates the result.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// env + defaults only
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// TelegramToken returns TELEGRAM_BOT_TOKEN, falling back to bot.token.
func (c *Config) TelegramToken() string {
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")); v != "" {
		return v
	}
	return strings.TrimSpace(c.Bot.Token)
}

// PeekTelegramToken resolves the bot token without validating the rest of the
// config: TELEGRAM_BOT_TOKEN first, then bot.token from the file at path.
// An unreadable or malformed file counts as no token.
func PeekTelegramToken(path string) string {
	if v := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")); v != "" {
		return v
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	var partial struct {
		Bot struct {
			Token string `yaml:"token"`
		} `yaml:"bot"`
	}
	if err := yaml.Unmarshal(b, &partial); err != nil {
		return ""
	}
	return strings.TrimSpace(partial.Bot.Token)
}

// Addr is the listen address of the HTTP API.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func applyEnv(cfg *Config) {
	override := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	override(&cfg.Bot.Token, "TELEGRAM_BOT_TOKEN")
	override(&cfg.Database.URL, "DATABASE_URL")
	override(&cfg.Redis.URL, "REDIS_URL")
	override(&cfg.AI.OpenAIKey, "OPENAI_API_KEY")
	override(&cfg.AI.GeminiKey, "GEMINI_API_KEY")
	override(&cfg.Discord.WebhookURL, "DISCORD_WEBHOOK_URL")
	override(&cfg.Server.AdminSecret, "ADMIN_SECRET")
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Bot.PollTimeout == 0 {
		cfg.Bot.PollTimeout = 60
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}

	if cfg.AI.Provider == "" {
		switch {
		case cfg.AI.OpenAIKey != "":
			cfg.AI.Provider = "openai"
		case cfg.AI.GeminiKey != "":
			cfg.AI.Provider = "gemini"
		default:
			cfg.AI.Provider = "echo"
		}
	}
	cfg.AI.Provider = strings.ToLower(cfg.AI.Provider)
	if cfg.AI.DefaultModel == "" {
		switch cfg.AI.Provider {
		case "gemini":
			cfg.AI.DefaultModel = "gemini-2.0-flash"
		case "echo":
			cfg.AI.DefaultModel = "echo"
		default:
			cfg.AI.DefaultModel = "gpt-4o-mini"
		}
	}
	if cfg.AI.ConcurrentLimit <= 0 {
		cfg.AI.ConcurrentLimit = 16
	}
	if cfg.AI.MaxContextTokens <= 0 {
		cfg.AI.MaxContextTokens = 6000
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 512
	}
	if cfg.AI.HistoryTurns <= 0 {
		cfg.AI.HistoryTurns = 20
	}
	if cfg.AI.ExamplesPerReply <= 0 {
		cfg.AI.ExamplesPerReply = 8
	}
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return 24 * time.Hour
	}
	return d
}
