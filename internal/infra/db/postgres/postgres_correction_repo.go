package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"personal-reply-bot/internal/domain/model"
	"personal-reply-bot/internal/domain/ports/repository"
)

var _ repository.CorrectionRepository = (*correctionRepo)(nil)

type correctionRepo struct {
	pool *pgxpool.Pool
}

func NewCorrectionRepo(pool *pgxpool.Pool) repository.CorrectionRepository {
	return &correctionRepo{pool: pool}
}

func (r *correctionRepo) Save(ctx context.Context, tx repository.Tx, c *model.Correction) error {
	const q = `
INSERT INTO corrections (id, user_id, query, original, corrected, created_at)
VALUES ($1, $2, $3, $4, $5, $6);`
	if _, err := execSQL(ctx, r.pool, tx, q, c.ID, c.UserID, c.Query, c.Original, c.Corrected, c.CreatedAt); err != nil {
		return fmt.Errorf("save correction: %w", err)
	}
	return nil
}

func (r *correctionRepo) Count(ctx context.Context, tx repository.Tx) (int64, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM corrections;`)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count corrections: %w", err)
	}
	return n, nil
}
