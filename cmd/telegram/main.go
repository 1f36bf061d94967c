package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"personal-reply-bot/internal/bootstrap"
	"personal-reply-bot/internal/config"
	"personal-reply-bot/internal/infra/adapters/telegram"
	"personal-reply-bot/internal/infra/logging"
	red "personal-reply-bot/internal/infra/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

// run returns the process exit code so deferred cleanup always happens.
func run(ctx context.Context, args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("telegram", flag.ContinueOnError)
	cfgPath := fs.String("config", "config.yaml", "path to YAML config file")
	devMode := fs.Bool("dev", false, "enable developer mode (console logs)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// the token is checked before the rest of the config is validated
	token := config.PeekTelegramToken(*cfgPath)
	if token == "" {
		fmt.Fprintln(stdout, "❌ TELEGRAM_BOT_TOKEN not set in .env")
		fmt.Fprintln(stdout, "Get it from @BotFather on Telegram")
		return 1
	}

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Printf("config: %v", err)
		return 1
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	app, err := bootstrap.Build(ctx, cfg, "telegram", logger)
	if err != nil {
		logger.Error().Err(err).Msg("startup failed")
		return 1
	}
	defer app.Close()

	botAPI, err := telegram.NewBotAPI(token)
	if err != nil {
		logger.Error().Err(err).Msg("telegram api")
		return 1
	}
	poller, err := telegram.NewPoller(botAPI, app.Bot, red.NewRateLimiter(app.Redis), &cfg.Bot, logger)
	if err != nil {
		logger.Error().Err(err).Msg("telegram poller")
		return 1
	}

	fmt.Fprintln(stdout, "🤖 Telegram bot starting...")
	if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("telegram polling stopped")
		return 1
	}
	logger.Info().Msg("telegram bot stopped")
	return 0
}
