package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS training_examples (
    id          TEXT PRIMARY KEY,
    input_text  TEXT NOT NULL,
    reply       TEXT NOT NULL,
    language    TEXT NOT NULL DEFAULT 'en',
    source      TEXT NOT NULL DEFAULT 'api',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_training_examples_lang_created
    ON training_examples (language, created_at DESC);

CREATE TABLE IF NOT EXISTS corrections (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    query       TEXT NOT NULL,
    original    TEXT NOT NULL,
    corrected   TEXT NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// EnsureSchema creates the tables the reply bot needs when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
