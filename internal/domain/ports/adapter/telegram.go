// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

// WebhookSender delivers bot replies back to chat platforms.
type WebhookSender interface {
	SendTelegram(ctx context.Context, text string, chatID int64) error
	SendDiscord(ctx context.Context, text string) error
}
