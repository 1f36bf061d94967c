package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"personal-reply-bot/internal/bootstrap"
	"personal-reply-bot/internal/config"
	"personal-reply-bot/internal/infra/adapters/telegram"
	"personal-reply-bot/internal/infra/adapters/webhook"
	"personal-reply-bot/internal/infra/api"
	"personal-reply-bot/internal/infra/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run returns the process exit code so deferred cleanup always happens.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	// ---- CLI flags ----
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	cfgPath := fs.String("config", "config.yaml", "path to YAML config file")
	devMode := fs.Bool("dev", false, "enable developer mode (console logs)")
	printToken := fs.Bool("print-admin-token", false, "print an admin bearer token and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}

	var auth *api.AuthManager
	if cfg.Server.AdminSecret != "" {
		auth = api.NewAuthManager(cfg.Server.AdminSecret, 0)
	}
	if *printToken {
		if auth == nil {
			log.Printf("server.admin_secret (or ADMIN_SECRET) is not set")
			return 1
		}
		tok, err := auth.Mint()
		if err != nil {
			log.Printf("mint token: %v", err)
			return 1
		}
		fmt.Fprintln(stdout, tok)
		return 0
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if err := serve(ctx, cfg, auth, stdout, logger); err != nil {
		logger.Error().Err(err).Msg("api stopped")
		return 1
	}
	return 0
}

func serve(ctx context.Context, cfg *config.Config, auth *api.AuthManager, stdout io.Writer, logger *zerolog.Logger) error {
	app, err := bootstrap.Build(ctx, cfg, "api", logger)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer app.Close()

	// ---- Outbound senders ----
	var tg webhook.TelegramAPI
	if tok := cfg.TelegramToken(); tok != "" {
		botAPI, err := telegram.NewBotAPI(tok)
		if err != nil {
			return fmt.Errorf("telegram api: %w", err)
		}
		tg = botAPI
	}
	var dc webhook.DiscordAPI
	if cfg.Discord.WebhookURL != "" {
		session, err := webhook.NewDiscordSession()
		if err != nil {
			return fmt.Errorf("discord session: %w", err)
		}
		dc = session
	}
	sender, err := webhook.NewSender(tg, dc, cfg.Discord.WebhookURL)
	if err != nil {
		return fmt.Errorf("webhook sender: %w", err)
	}

	// ---- HTTP ----
	discordKey, err := api.ParseDiscordPublicKey(cfg.Discord.PublicKey)
	if err != nil {
		return err
	}
	srv, err := api.NewServer(app.Bot, sender, api.Options{
		RequestTimeout:   cfg.Server.RequestTimeout,
		TelegramSecret:   cfg.Bot.WebhookSecret,
		DiscordPublicKey: discordKey,
		Auth:             auth,
	}, logger)
	if err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprintf(stdout, "🚀 Starting %s\n", api.BotName)
	fmt.Fprintf(stdout, "📡 API listening on http://%s\n", cfg.Addr())

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Bool("admin_auth", auth != nil).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// ---- Graceful shutdown ----
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown requested")
	case serveErr = <-errc:
	}
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
	return serveErr
}
