package api

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"personal-reply-bot/internal/infra/logging"
	"personal-reply-bot/internal/infra/metrics"
)

// ReplyPrefix marks every reply pushed back through a webhook.
const ReplyPrefix = "🤖 "

// discordFallbackUser is the user id used when a Discord payload carries no author id.
const discordFallbackUser = "discord"

type ack struct {
	OK bool `json:"ok"`
}

// handleTelegramWebhook answers a pushed Telegram update. Anything other than
// a text message is acknowledged and ignored.
func (s *Server) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if s.opts.TelegramSecret != "" {
		got := r.Header.Get("X-Telegram-Bot-Api-Secret-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.opts.TelegramSecret)) != 1 {
			metrics.IncWebhookUpdate("telegram", "unauthorized")
			writeDetail(w, http.StatusUnauthorized, "unauthorized")
			return
		}
	}

	body, err := readBody(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "could not read request body")
		return
	}
	var up tgbotapi.Update
	if err := decodeJSON(body, &up); err != nil {
		metrics.IncWebhookUpdate("telegram", "bad_payload")
		writeDetail(w, http.StatusBadRequest, errBadJSON.Error())
		return
	}

	msg := up.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		metrics.IncWebhookUpdate("telegram", "ignored")
		writeJSON(w, http.StatusOK, ack{OK: true})
		return
	}

	chatID := msg.Chat.ID
	userID := strconv.FormatInt(chatID, 10)
	ctx := logging.WithPlatform(logging.WithChatID(logging.WithUserID(r.Context(), userID), chatID), "telegram")
	s.relay(ctx, "telegram", msg.Text, userID, func(ctx context.Context, reply string) error {
		return s.sender.SendTelegram(ctx, ReplyPrefix+reply, chatID)
	})
	writeJSON(w, http.StatusOK, ack{OK: true})
}

// discordPayload keeps every field raw so that an unexpected shape in one of
// them never fails the request.
type discordPayload struct {
	Type    json.RawMessage `json:"type"`
	Content json.RawMessage `json:"content"`
	Author  json.RawMessage `json:"author"`
}

// isPing matches any JSON number equal to 1 (1, 1.0, 1e0). Other values,
// strings included, are treated as ordinary payloads.
func (p *discordPayload) isPing() bool {
	var n float64
	if len(p.Type) == 0 || json.Unmarshal(p.Type, &n) != nil {
		return false
	}
	return n == float64(discordgo.InteractionPing)
}

// content reports the message text. A JSON string is used as is, any other
// non-null value as its literal JSON text.
func (p *discordPayload) content() (string, bool) {
	return rawText(p.Content)
}

// userID takes author.id as a JSON string or number, else the fallback.
func (p *discordPayload) userID() string {
	var author struct {
		ID json.RawMessage `json:"id"`
	}
	if len(p.Author) == 0 || json.Unmarshal(p.Author, &author) != nil {
		return discordFallbackUser
	}
	if id, ok := rawText(author.ID); ok && id != "" {
		return id
	}
	return discordFallbackUser
}

func rawText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

// handleDiscordWebhook answers Discord pings and relays message content to the
// configured Discord channel webhook.
func (s *Server) handleDiscordWebhook(w http.ResponseWriter, r *http.Request) {
	if len(s.opts.DiscordPublicKey) > 0 && !discordgo.VerifyInteraction(r, s.opts.DiscordPublicKey) {
		metrics.IncWebhookUpdate("discord", "unauthorized")
		writeDetail(w, http.StatusUnauthorized, "invalid request signature")
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "could not read request body")
		return
	}
	var p discordPayload
	if err := decodeJSON(body, &p); err != nil {
		metrics.IncWebhookUpdate("discord", "bad_payload")
		writeDetail(w, http.StatusBadRequest, errBadJSON.Error())
		return
	}

	if p.isPing() {
		metrics.IncWebhookUpdate("discord", "ping")
		writeJSON(w, http.StatusOK, discordgo.InteractionResponse{Type: discordgo.InteractionResponsePong})
		return
	}
	text, ok := p.content()
	if !ok {
		metrics.IncWebhookUpdate("discord", "ignored")
		writeJSON(w, http.StatusOK, ack{OK: true})
		return
	}

	userID := p.userID()
	ctx := logging.WithPlatform(logging.WithUserID(r.Context(), userID), "discord")
	s.relay(ctx, "discord", text, userID, func(ctx context.Context, reply string) error {
		return s.sender.SendDiscord(ctx, ReplyPrefix+reply)
	})
	writeJSON(w, http.StatusOK, ack{OK: true})
}

// relay asks the bot for a reply and hands it to send. Failures are logged and
// counted but never surface to the platform, which would otherwise redeliver.
func (s *Server) relay(ctx context.Context, platform, text, userID string, send func(context.Context, string) error) {
	l := logging.With(ctx, s.log)

	res, err := s.bot.GetReply(ctx, text, userID)
	metrics.IncBotReply(platform, err == nil)
	if err != nil {
		metrics.IncWebhookUpdate(platform, "reply_failed")
		l.Error().Err(err).Msg("webhook reply failed")
		return
	}
	if err := send(ctx, res.Reply); err != nil {
		metrics.IncWebhookUpdate(platform, "send_failed")
		l.Error().Err(err).Msg("webhook send failed")
		return
	}
	metrics.IncWebhookUpdate(platform, "replied")
}
