package repository

import (
	"context"

	"personal-reply-bot/internal/domain/model"
)

type TrainingRepository interface {
	Save(ctx context.Context, tx Tx, ex *model.TrainingExample) error
	// ListRecent returns the newest examples for a language, newest first.
	ListRecent(ctx context.Context, tx Tx, language string, limit int) ([]*model.TrainingExample, error)
	Count(ctx context.Context, tx Tx) (int64, error)
}

type CorrectionRepository interface {
	Save(ctx context.Context, tx Tx, c *model.Correction) error
	Count(ctx context.Context, tx Tx) (int64, error)
}
