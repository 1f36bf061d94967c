package repository

import (
	"context"

	"personal-reply-bot/internal/domain/model"
)

// ConversationRepository keeps the running turns per user.
type ConversationRepository interface {
	Append(ctx context.Context, userID string, turns ...model.Turn) error
	Recent(ctx context.Context, userID string, n int) ([]model.Turn, error)
	Clear(ctx context.Context, userID string) error
}

// MemoryRepository keeps long-term facts per user.
type MemoryRepository interface {
	Add(ctx context.Context, fact *model.MemoryFact) error
	List(ctx context.Context, userID string) ([]model.MemoryFact, error)
}

// PersonalityStore persists the currently selected personality.
type PersonalityStore interface {
	Current(ctx context.Context) (string, error)
	SetCurrent(ctx context.Context, name string) error
}

// CounterStore holds bot-wide counters.
type CounterStore interface {
	Incr(ctx context.Context, name string) (int64, error)
	Get(ctx context.Context, name string) (int64, error)
}
