package api

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"personal-reply-bot/internal/domain/ports/adapter"
	"personal-reply-bot/internal/infra/metrics"
)

const BotName = "Personal Reply Bot v2.0"

type Options struct {
	RequestTimeout time.Duration
	// TelegramSecret, when set, must match X-Telegram-Bot-Api-Secret-Token.
	TelegramSecret string
	// DiscordPublicKey, when set, enables ed25519 verification of Discord deliveries.
	DiscordPublicKey ed25519.PublicKey
	// Auth guards /train, /personality and /correct when non-nil.
	Auth *AuthManager
}

// Server is the HTTP surface over a single ReplyBot instance.
type Server struct {
	bot      adapter.ReplyBot
	sender   adapter.WebhookSender
	opts     Options
	validate *validator.Validate
	log      *zerolog.Logger
}

func NewServer(bot adapter.ReplyBot, sender adapter.WebhookSender, opts Options, logger *zerolog.Logger) (*Server, error) {
	if bot == nil {
		return nil, errors.New("reply bot is nil")
	}
	if sender == nil {
		return nil, errors.New("webhook sender is nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Server{bot: bot, sender: sender, opts: opts, validate: newValidator(), log: logger}, nil
}

// ParseDiscordPublicKey decodes the hex key shown in the Discord developer portal.
func ParseDiscordPublicKey(s string) (ed25519.PublicKey, error) {
	if s == "" {
		return nil, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("discord public key: %w", err)
	}
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("discord public key: want %d bytes, got %d", ed25519.PublicKeySize, len(b))
	}
	return ed25519.PublicKey(b), nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		TraceID(),
		RequestLog(s.log),
		Recover(s.log),
		Timeout(s.opts.RequestTimeout),
		Metrics(),
	)

	r.Get("/", s.handleRoot)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Post("/chat", s.handleChat)
	r.Get("/stats", s.handleStats)
	r.Post("/memory", s.handleMemory)
	r.Post("/clear", s.handleClear)
	r.Get("/personalities", s.handlePersonalities)

	r.Group(func(r chi.Router) {
		if s.opts.Auth != nil {
			r.Use(s.opts.Auth.RequireAdmin)
		}
		r.Post("/train", s.handleTrain)
		r.Post("/personality", s.handlePersonality)
		r.Post("/correct", s.handleCorrect)
	})

	r.Post("/telegram/webhook", s.handleTelegramWebhook)
	r.Post("/discord/webhook", s.handleDiscordWebhook)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return r
}
