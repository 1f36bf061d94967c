package webhook

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"personal-reply-bot/internal/domain"
)

type fakeTelegram struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeTelegram) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

type webhookCall struct {
	id, token, content string
}

type fakeDiscord struct {
	calls []webhookCall
	err   error
}

func (f *fakeDiscord) WebhookExecute(id, token string, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, webhookCall{id: id, token: token, content: data.Content})
	return nil, nil
}

const hookURL = "https://discord.com/api/webhooks/123456/tok-en_x"

func TestSendTelegram(t *testing.T) {
	tg := &fakeTelegram{}
	s, err := NewSender(tg, nil, "")
	require.NoError(t, err)

	require.NoError(t, s.SendTelegram(context.Background(), "🤖 hi", 42))
	require.Len(t, tg.sent, 1)
	require.EqualValues(t, 42, tg.sent[0].ChatID)
	require.Equal(t, "🤖 hi", tg.sent[0].Text)

	tg.err = errors.New("blocked")
	require.Error(t, s.SendTelegram(context.Background(), "x", 42))
}

func TestSendDiscord_ChunksLongText(t *testing.T) {
	dc := &fakeDiscord{}
	s, err := NewSender(nil, dc, hookURL)
	require.NoError(t, err)

	long := strings.Repeat("é", discordMaxLen+5)
	require.NoError(t, s.SendDiscord(context.Background(), long))
	require.Len(t, dc.calls, 2)
	require.Equal(t, "123456", dc.calls[0].id)
	require.Equal(t, "tok-en_x", dc.calls[0].token)
	require.Len(t, []rune(dc.calls[0].content), discordMaxLen)
	require.Len(t, []rune(dc.calls[1].content), 5)
}

func TestSender_UnconfiguredChannels(t *testing.T) {
	s, err := NewSender(nil, nil, "")
	require.NoError(t, err)
	require.ErrorIs(t, s.SendTelegram(context.Background(), "x", 1), domain.ErrChannelNotConfigured)
	require.ErrorIs(t, s.SendDiscord(context.Background(), "x"), domain.ErrChannelNotConfigured)
}

func TestParseDiscordWebhookURL(t *testing.T) {
	id, token, err := ParseDiscordWebhookURL(hookURL)
	require.NoError(t, err)
	require.Equal(t, "123456", id)
	require.Equal(t, "tok-en_x", token)

	_, _, err = ParseDiscordWebhookURL("https://discord.com/api/channels/1")
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = NewSender(nil, &fakeDiscord{}, "https://example.com/nope")
	require.Error(t, err)
}

func TestChunk(t *testing.T) {
	require.Equal(t, []string{""}, chunk("", 10))
	require.Equal(t, []string{"abc"}, chunk("abc", 3))
	require.Equal(t, []string{"ab", "cd", "e"}, chunk("abcde", 2))
}
