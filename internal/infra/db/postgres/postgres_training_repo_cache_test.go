//go:build !integration

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"personal-reply-bot/internal/domain/model"
	"personal-reply-bot/internal/domain/ports/repository"
)

func TestTrainingRepoCacheDecorator(t *testing.T) {
	ctx := context.Background()
	examples := []*model.TrainingExample{{ID: "01H", Input: "hi", Reply: "yo", Language: "en"}}
	listJSON, _ := json.Marshal(examples)

	t.Run("ListRecent should return from cache on hit", func(t *testing.T) {
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				if key == trainingGenKey {
					return "3", nil
				}
				if key != "training:recent:3:en:5" {
					t.Fatalf("unexpected key %q", key)
				}
				return string(listJSON), nil
			},
		}
		innerCalled := false
		inner := &mockInnerTrainingRepo{
			ListRecentFunc: func(ctx context.Context, tx repository.Tx, language string, limit int) ([]*model.TrainingExample, error) {
				innerCalled = true
				return nil, nil
			},
		}

		got, err := NewTrainingRepoCacheDecorator(inner, mockRedis).ListRecent(ctx, nil, "en", 5)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if innerCalled {
			t.Error("inner repository should not be called on a cache hit")
		}
		if len(got) != 1 || got[0].Reply != "yo" {
			t.Errorf("unexpected cached list: %+v", got)
		}
	})

	t.Run("ListRecent should fill cache on miss", func(t *testing.T) {
		var setKey string
		var setTTL time.Duration
		mockRedis := &mockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) { return "", redis.Nil },
			SetFunc: func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
				setKey, setTTL = key, expiration
				return nil
			},
		}
		inner := &mockInnerTrainingRepo{
			ListRecentFunc: func(ctx context.Context, tx repository.Tx, language string, limit int) ([]*model.TrainingExample, error) {
				return examples, nil
			},
		}

		got, err := NewTrainingRepoCacheDecorator(inner, mockRedis).ListRecent(ctx, nil, "", 8)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("expected inner result, got %+v", got)
		}
		if !strings.HasPrefix(setKey, "training:recent:0::8") || setTTL <= 0 {
			t.Errorf("cache not filled correctly: key=%q ttl=%v", setKey, setTTL)
		}
	})

	t.Run("Save should bump generation only on success", func(t *testing.T) {
		incrs := 0
		mockRedis := &mockRedisClient{
			IncrFunc: func(ctx context.Context, key string) (int64, error) {
				if key != trainingGenKey {
					t.Fatalf("unexpected key %q", key)
				}
				incrs++
				return int64(incrs), nil
			},
		}
		fail := true
		inner := &mockInnerTrainingRepo{
			SaveFunc: func(ctx context.Context, tx repository.Tx, ex *model.TrainingExample) error {
				if fail {
					return errors.New("db down")
				}
				return nil
			},
		}
		d := NewTrainingRepoCacheDecorator(inner, mockRedis)

		if err := d.Save(ctx, nil, examples[0]); err == nil {
			t.Fatal("expected error from inner save")
		}
		fail = false
		if err := d.Save(ctx, nil, examples[0]); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if incrs != 1 {
			t.Errorf("expected 1 generation bump, got %d", incrs)
		}
	})

	t.Run("ListRecent inside a transaction bypasses cache", func(t *testing.T) {
		innerCalled := false
		inner := &mockInnerTrainingRepo{
			ListRecentFunc: func(ctx context.Context, tx repository.Tx, language string, limit int) ([]*model.TrainingExample, error) {
				innerCalled = true
				return nil, nil
			},
		}
		_, err := NewTrainingRepoCacheDecorator(inner, &mockRedisClient{}).ListRecent(ctx, struct{}{}, "en", 1)
		if err != nil || !innerCalled {
			t.Fatalf("expected direct inner call, err=%v called=%v", err, innerCalled)
		}
	})
}
