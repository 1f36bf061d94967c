package redis

import (
	"context"
	"strconv"

	"personal-reply-bot/internal/domain/ports/repository"
)

var _ repository.CounterStore = (*CounterStore)(nil)

// CounterStore keeps bot-wide counters under stats:<name>.
type CounterStore struct {
	client RedisClient
}

func NewCounterStore(client RedisClient) *CounterStore {
	return &CounterStore{client: client}
}

func (s *CounterStore) Incr(ctx context.Context, name string) (int64, error) {
	return s.client.Incr(ctx, "stats:"+name)
}

func (s *CounterStore) Get(ctx context.Context, name string) (int64, error) {
	v, err := s.client.Get(ctx, "stats:"+name)
	if isNil(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}
