// Package bootstrap builds the shared reply bot from config. Both binaries
// (HTTP API and Telegram poller) start from here.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"personal-reply-bot/internal/config"
	"personal-reply-bot/internal/domain/model"
	"personal-reply-bot/internal/domain/ports/adapter"
	aiAdapters "personal-reply-bot/internal/infra/adapters/ai"
	pg "personal-reply-bot/internal/infra/db/postgres"
	"personal-reply-bot/internal/infra/metrics"
	red "personal-reply-bot/internal/infra/redis"
	"personal-reply-bot/internal/usecase"
)

const poolStatsInterval = 15 * time.Second

// App holds the long-lived pieces a binary needs after startup.
type App struct {
	Bot   adapter.ReplyBot
	Redis red.RedisClient
	AI    adapter.AIServiceAdapter

	pool   *pgxpool.Pool
	cancel context.CancelFunc
}

// Close stops background work and releases connections.
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// Build connects to Postgres and Redis, picks the AI provider and assembles the reply bot.
func Build(ctx context.Context, cfg *config.Config, binary string, logger *zerolog.Logger) (*App, error) {
	metrics.MustRegister()
	metrics.SetBuildInfo(Version, binary)

	app := &App{}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	app.pool = pool
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		return nil, fmt.Errorf("postgres schema: %w", err)
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	app.Redis = redisClient

	// ---- AI adapter ----
	ai, err := NewAI(ctx, &cfg.AI)
	if err != nil {
		return nil, err
	}
	app.AI = ai
	logger.Info().Str("provider", ai.Name()).Str("model", cfg.AI.DefaultModel).Msg("ai adapter ready")

	// ---- Repositories ----
	training := pg.NewTrainingRepoCacheDecorator(pg.NewTrainingRepo(pool), redisClient)
	deps := usecase.ReplyDeps{
		Conversations: red.NewConversationStore(redisClient, cfg.Redis.TTL),
		Memory:        red.NewMemoryStore(redisClient),
		Personality:   red.NewPersonalityStore(redisClient),
		Counters:      red.NewCounterStore(redisClient),
		Training:      training,
		Corrections:   pg.NewCorrectionRepo(pool),
		TxManager:     pg.NewTxManager(pool),
		AI:            ai,
	}

	bot, err := usecase.NewReplyUseCase(deps, ReplyOptions(cfg), logger)
	if err != nil {
		return nil, err
	}
	app.Bot = bot

	bgCtx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	go reportPoolStats(bgCtx, pool)

	ok = true
	return app, nil
}

// NewAI returns the configured provider, instrumented and capped at the configured concurrency.
func NewAI(ctx context.Context, cfg *config.AIConfig) (adapter.AIServiceAdapter, error) {
	var (
		ai  adapter.AIServiceAdapter
		err error
	)
	switch cfg.Provider {
	case "openai":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.DefaultModel, cfg.MaxOutputTokens)
	case "gemini":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.GeminiKey, cfg.GeminiURL, cfg.DefaultModel, cfg.MaxOutputTokens)
	case "echo":
		ai = aiAdapters.NewEchoAdapter()
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("%s adapter: %w", cfg.Provider, err)
	}
	return aiAdapters.NewLimitedAI(aiAdapters.NewInstrumentedAI(ai), cfg.ConcurrentLimit), nil
}

// ReplyOptions maps config onto the reply use case options.
func ReplyOptions(cfg *config.Config) usecase.ReplyOptions {
	opts := usecase.ReplyOptions{
		Model:              cfg.AI.DefaultModel,
		HistoryTurns:       cfg.AI.HistoryTurns,
		ExamplesPerReply:   cfg.AI.ExamplesPerReply,
		MaxContextTokens:   cfg.AI.MaxContextTokens,
		DefaultPersonality: cfg.Personas.Default,
	}
	for _, p := range cfg.Personas.Available {
		opts.Personalities = append(opts.Personalities, model.Personality{
			Name:        p.Name,
			Description: p.Description,
			Prompt:      p.Prompt,
		})
	}
	return opts
}

func reportPoolStats(ctx context.Context, pool *pgxpool.Pool) {
	t := time.NewTicker(poolStatsInterval)
	defer t.Stop()
	for {
		st := pool.Stat()
		metrics.SetDBPoolStats(st.MaxConns(), st.TotalConns(), st.IdleConns(), st.AcquiredConns())
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
