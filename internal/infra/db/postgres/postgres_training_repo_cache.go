package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"personal-reply-bot/internal/domain/model"
	"personal-reply-bot/internal/domain/ports/repository"
	"personal-reply-bot/internal/infra/metrics"
	red "personal-reply-bot/internal/infra/redis"
)

const trainingGenKey = "training:gen"

var _ repository.TrainingRepository = (*trainingRepoCacheDecorator)(nil)

// trainingRepoCacheDecorator caches ListRecent, which runs on every reply.
// Saves bump a generation counter so stale lists are never read again; they expire by TTL.
type trainingRepoCacheDecorator struct {
	inner repository.TrainingRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewTrainingRepoCacheDecorator(inner repository.TrainingRepository, cache red.RedisClient) repository.TrainingRepository {
	return &trainingRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   10 * time.Minute,
	}
}

func (d *trainingRepoCacheDecorator) generation(ctx context.Context) string {
	v, err := d.cache.Get(ctx, trainingGenKey)
	if err != nil {
		return "0"
	}
	if _, err := strconv.ParseInt(v, 10, 64); err != nil {
		return "0"
	}
	return v
}

func (d *trainingRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, ex *model.TrainingExample) error {
	if err := d.inner.Save(ctx, tx, ex); err != nil {
		return err
	}
	_, _ = d.cache.Incr(ctx, trainingGenKey)
	return nil
}

func (d *trainingRepoCacheDecorator) ListRecent(ctx context.Context, tx repository.Tx, language string, limit int) ([]*model.TrainingExample, error) {
	// inside a transaction the caller wants its own writes
	if tx != nil {
		return d.inner.ListRecent(ctx, tx, language, limit)
	}

	key := fmt.Sprintf("training:recent:%s:%s:%d", d.generation(ctx), language, limit)
	val, err := d.cache.Get(ctx, key)
	switch {
	case err == nil:
		var list []*model.TrainingExample
		if json.Unmarshal([]byte(val), &list) == nil {
			metrics.IncCacheRequest("training_recent", "hit")
			return list, nil
		}
		metrics.IncCacheRequest("training_recent", "corrupt")
	case errors.Is(err, red.ErrNil):
		metrics.IncCacheRequest("training_recent", "miss")
	default:
		// redis trouble: serve from postgres
		metrics.IncCacheRequest("training_recent", "error")
	}

	list, err := d.inner.ListRecent(ctx, tx, language, limit)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(list); err == nil {
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return list, nil
}

func (d *trainingRepoCacheDecorator) Count(ctx context.Context, tx repository.Tx) (int64, error) {
	return d.inner.Count(ctx, tx)
}
