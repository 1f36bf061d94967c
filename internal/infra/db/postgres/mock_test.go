//go:build !integration

package postgres

import (
	"context"
	"time"

	"personal-reply-bot/internal/domain/model"
	"personal-reply-bot/internal/domain/ports/repository"
	red "personal-reply-bot/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerTrainingRepo mocks the database repository that the training decorator wraps.
type mockInnerTrainingRepo struct {
	SaveFunc       func(ctx context.Context, tx repository.Tx, ex *model.TrainingExample) error
	ListRecentFunc func(ctx context.Context, tx repository.Tx, language string, limit int) ([]*model.TrainingExample, error)
	CountFunc      func(ctx context.Context, tx repository.Tx) (int64, error)
}

func (m *mockInnerTrainingRepo) Save(ctx context.Context, tx repository.Tx, ex *model.TrainingExample) error {
	return m.SaveFunc(ctx, tx, ex)
}
func (m *mockInnerTrainingRepo) ListRecent(ctx context.Context, tx repository.Tx, language string, limit int) ([]*model.TrainingExample, error) {
	return m.ListRecentFunc(ctx, tx, language, limit)
}
func (m *mockInnerTrainingRepo) Count(ctx context.Context, tx repository.Tx) (int64, error) {
	return m.CountFunc(ctx, tx)
}

// mockRedisClient mocks our Redis client wrapper. List and set commands are
// not used by the decorator and panic through the nil embedded interface.
type mockRedisClient struct {
	red.RedisClient

	GetFunc  func(ctx context.Context, key string) (string, error)
	SetFunc  func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	IncrFunc func(ctx context.Context, key string) (int64, error)
}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
