package adapter

import (
	"context"

	"personal-reply-bot/internal/domain/model"
)

// ReplyBot is the collaborator every transport (HTTP, webhooks, polling) talks to.
// One instance is built at startup and shared by all handlers.
type ReplyBot interface {
	GetReply(ctx context.Context, message, userID string) (*model.ReplyResult, error)
	Train(ctx context.Context, input, reply, language string) error
	// SetPersonality reports false (and no error) for names it does not know.
	SetPersonality(ctx context.Context, name string) (bool, error)
	Correct(ctx context.Context, query, original, corrected, userID string) (string, error)
	GetStats(ctx context.Context) (*model.Stats, error)
	AddMemory(ctx context.Context, userID, fact string) error
	ClearConversation(ctx context.Context, userID string) error
	ListPersonalities(ctx context.Context) (*model.PersonalityList, error)
}
