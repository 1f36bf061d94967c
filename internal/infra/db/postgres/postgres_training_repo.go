package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"personal-reply-bot/internal/domain/model"
	"personal-reply-bot/internal/domain/ports/repository"
)

var _ repository.TrainingRepository = (*trainingRepo)(nil)

type trainingRepo struct {
	pool *pgxpool.Pool
}

func NewTrainingRepo(pool *pgxpool.Pool) repository.TrainingRepository {
	return &trainingRepo{pool: pool}
}

func (r *trainingRepo) Save(ctx context.Context, tx repository.Tx, ex *model.TrainingExample) error {
	const q = `
INSERT INTO training_examples (id, input_text, reply, language, source, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE SET
  input_text = EXCLUDED.input_text,
  reply = EXCLUDED.reply,
  language = EXCLUDED.language;`
	if _, err := execSQL(ctx, r.pool, tx, q, ex.ID, ex.Input, ex.Reply, ex.Language, ex.Source, ex.CreatedAt); err != nil {
		return fmt.Errorf("save training example: %w", err)
	}
	return nil
}

func (r *trainingRepo) ListRecent(ctx context.Context, tx repository.Tx, language string, limit int) ([]*model.TrainingExample, error) {
	if limit <= 0 {
		return nil, nil
	}
	const q = `
SELECT id, input_text, reply, language, source, created_at
FROM training_examples
WHERE ($1 = '' OR language = $1)
ORDER BY created_at DESC
LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, language, limit)
	if err != nil {
		return nil, fmt.Errorf("list training examples: %w", err)
	}
	defer rows.Close()

	var out []*model.TrainingExample
	for rows.Next() {
		var ex model.TrainingExample
		if err := rows.Scan(&ex.ID, &ex.Input, &ex.Reply, &ex.Language, &ex.Source, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan training example: %w", err)
		}
		out = append(out, &ex)
	}
	return out, rows.Err()
}

func (r *trainingRepo) Count(ctx context.Context, tx repository.Tx) (int64, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM training_examples;`)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count training examples: %w", err)
	}
	return n, nil
}
