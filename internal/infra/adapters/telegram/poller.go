package telegram

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"personal-reply-bot/internal/config"
	"personal-reply-bot/internal/domain/ports/adapter"
	"personal-reply-bot/internal/infra/logging"
	"personal-reply-bot/internal/infra/metrics"
	red "personal-reply-bot/internal/infra/redis"
)

const (
	Greeting = "Hey! I'm your personal reply bot 🤖\n" +
		"I'll reply to your messages in YOUR style!\n\n" +
		"Just chat with me and I'll learn from you."

	rateLimitedText = "Rate limit exceeded. Please try again later."
)

// BotAPI is the slice of *tgbotapi.BotAPI the poller needs.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Limiter is satisfied by redis.RateLimiter.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Poller long-polls the Bot API and answers every message through the ReplyBot.
// Updates are handled one at a time in arrival order.
type Poller struct {
	api     BotAPI
	bot     adapter.ReplyBot
	limiter Limiter
	cfg     *config.BotConfig
	log     *zerolog.Logger
}

func NewPoller(api BotAPI, bot adapter.ReplyBot, limiter Limiter, cfg *config.BotConfig, logger *zerolog.Logger) (*Poller, error) {
	if api == nil {
		return nil, errors.New("telegram api is nil")
	}
	if bot == nil {
		return nil, errors.New("reply bot is nil")
	}
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Poller{api: api, bot: bot, limiter: limiter, cfg: cfg, log: logger}, nil
}

// NewBotAPI authenticates against Telegram with token.
func NewBotAPI(token string) (*tgbotapi.BotAPI, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	return tgbotapi.NewBotAPI(token)
}

// Run blocks until ctx is cancelled or the update channel closes.
func (p *Poller) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = p.cfg.PollTimeout
	updates := p.api.GetUpdatesChan(u)
	defer p.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			if err := p.handleUpdate(ctx, up); err != nil {
				p.onError(ctx, up, err)
			}
		}
	}
}

// onError logs and counts; the loop keeps going.
func (p *Poller) onError(ctx context.Context, up tgbotapi.Update, err error) {
	metrics.IncBotReply("polling", false)
	ev := logging.With(ctx, p.log).Error().Err(err).Int("update_id", up.UpdateID)
	if up.Message != nil && up.Message.Chat != nil {
		ev = ev.Int64("chat_id", up.Message.Chat.ID)
	}
	ev.Msg("telegram update failed")
}

func (p *Poller) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	command := "message"
	if msg.IsCommand() {
		command = "/" + msg.Command()
	}
	metrics.IncTelegramCommand(command)

	userID := strconv.FormatInt(msg.Chat.ID, 10)
	if msg.From != nil {
		userID = strconv.FormatInt(msg.From.ID, 10)
	}
	ctx = logging.WithChatID(logging.WithUserID(logging.WithPlatform(ctx, "telegram"), userID), msg.Chat.ID)

	if p.limiter != nil && p.cfg.RateLimitPerMinute > 0 && msg.From != nil {
		allowed, err := p.limiter.Allow(ctx, red.UserCommandKey(msg.From.ID, command), p.cfg.RateLimitPerMinute, time.Minute)
		if err != nil {
			logging.With(ctx, p.log).Warn().Err(err).Msg("rate limit check failed")
		} else if !allowed {
			metrics.IncRateLimitTriggered()
			return p.reply(msg, rateLimitedText)
		}
	}

	if command == "/start" {
		return p.reply(msg, Greeting)
	}

	if strings.TrimSpace(msg.Text) == "" {
		logging.With(ctx, p.log).Debug().Msg("ignoring message without text")
		return nil
	}

	res, err := p.bot.GetReply(ctx, msg.Text, userID)
	if err != nil {
		return err
	}
	metrics.IncBotReply("polling", true)
	return p.reply(msg, res.Reply)
}

// reply answers in the originating chat, quoting the incoming message.
func (p *Poller) reply(to *tgbotapi.Message, text string) error {
	out := tgbotapi.NewMessage(to.Chat.ID, text)
	out.ReplyToMessageID = to.MessageID
	_, err := p.api.Send(out)
	return err
}
