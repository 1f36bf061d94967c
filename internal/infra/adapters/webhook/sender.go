package webhook

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"personal-reply-bot/internal/domain"
	"personal-reply-bot/internal/domain/ports/adapter"
	"personal-reply-bot/internal/infra/metrics"
)

const (
	telegramMaxLen = 4096
	discordMaxLen  = 2000
)

var _ adapter.WebhookSender = (*Sender)(nil)

// TelegramAPI is satisfied by *tgbotapi.BotAPI.
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// DiscordAPI is satisfied by *discordgo.Session.
type DiscordAPI interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Sender pushes bot replies to Telegram chats and a Discord channel webhook.
// Either side may be nil; sending there returns domain.ErrChannelNotConfigured.
type Sender struct {
	tg TelegramAPI

	dc           DiscordAPI
	webhookID    string
	webhookToken string
}

// NewSender parses discordWebhookURL (https://discord.com/api/webhooks/{id}/{token}) when dc is set.
func NewSender(tg TelegramAPI, dc DiscordAPI, discordWebhookURL string) (*Sender, error) {
	s := &Sender{tg: tg}
	if dc != nil && discordWebhookURL != "" {
		id, token, err := ParseDiscordWebhookURL(discordWebhookURL)
		if err != nil {
			return nil, err
		}
		s.dc, s.webhookID, s.webhookToken = dc, id, token
	}
	return s, nil
}

// NewDiscordSession returns a session suitable for webhook calls only.
func NewDiscordSession() (*discordgo.Session, error) {
	return discordgo.New("")
}

func (s *Sender) SendTelegram(ctx context.Context, text string, chatID int64) error {
	if s.tg == nil {
		return fmt.Errorf("telegram: %w", domain.ErrChannelNotConfigured)
	}
	for _, part := range chunk(text, telegramMaxLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, err := s.tg.Send(tgbotapi.NewMessage(chatID, part))
		metrics.IncOutboundSend("telegram", err == nil)
		if err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	return nil
}

func (s *Sender) SendDiscord(ctx context.Context, text string) error {
	if s.dc == nil {
		return fmt.Errorf("discord: %w", domain.ErrChannelNotConfigured)
	}
	for _, part := range chunk(text, discordMaxLen) {
		_, err := s.dc.WebhookExecute(s.webhookID, s.webhookToken, false,
			&discordgo.WebhookParams{Content: part},
			discordgo.WithContext(ctx))
		metrics.IncOutboundSend("discord", err == nil)
		if err != nil {
			return fmt.Errorf("discord send: %w", err)
		}
	}
	return nil
}

func ParseDiscordWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("discord webhook url: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("discord webhook url: expected .../webhooks/{id}/{token}: %w", domain.ErrInvalidArgument)
}

// chunk splits s into pieces of at most size runes. Empty input yields one empty piece.
func chunk(s string, size int) []string {
	r := []rune(s)
	if len(r) <= size {
		return []string{s}
	}
	out := make([]string, 0, len(r)/size+1)
	for len(r) > size {
		out = append(out, string(r[:size]))
		r = r[size:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}
