package redis

import (
	"context"

	"personal-reply-bot/internal/domain/ports/repository"
)

const personalityKey = "bot:personality"

var _ repository.PersonalityStore = (*PersonalityStore)(nil)

type PersonalityStore struct {
	client RedisClient
}

func NewPersonalityStore(client RedisClient) *PersonalityStore {
	return &PersonalityStore{client: client}
}

// Current returns "" when nothing has been selected yet.
func (s *PersonalityStore) Current(ctx context.Context) (string, error) {
	v, err := s.client.Get(ctx, personalityKey)
	if isNil(err) {
		return "", nil
	}
	return v, err
}

func (s *PersonalityStore) SetCurrent(ctx context.Context, name string) error {
	return s.client.Set(ctx, personalityKey, name, 0)
}
