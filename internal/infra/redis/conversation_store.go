package redis

import (
	"context"
	"encoding/json"
	"time"

	"personal-reply-bot/internal/domain/model"
	"personal-reply-bot/internal/domain/ports/repository"
)

// maxStoredTurns caps conv:<user> regardless of how many turns a prompt uses.
const maxStoredTurns = 200

var _ repository.ConversationRepository = (*ConversationStore)(nil)

// ConversationStore keeps each user's turns as a JSON list under conv:<user>.
type ConversationStore struct {
	client RedisClient
	ttl    time.Duration
}

func NewConversationStore(client RedisClient, ttl time.Duration) *ConversationStore {
	return &ConversationStore{client: client, ttl: ttl}
}

func (s *ConversationStore) key(userID string) string { return "conv:" + userID }

func (s *ConversationStore) Append(ctx context.Context, userID string, turns ...model.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		data, err := json.Marshal(t)
		if err != nil {
			return err
		}
		values = append(values, string(data))
	}
	key := s.key(userID)
	if err := s.client.RPush(ctx, key, values...); err != nil {
		return err
	}
	if err := s.client.LTrim(ctx, key, -maxStoredTurns, -1); err != nil {
		return err
	}
	if s.ttl > 0 {
		return s.client.Expire(ctx, key, s.ttl)
	}
	return nil
}

func (s *ConversationStore) Recent(ctx context.Context, userID string, n int) ([]model.Turn, error) {
	start := int64(0)
	if n > 0 {
		start = int64(-n)
	}
	raw, err := s.client.LRange(ctx, s.key(userID), start, -1)
	if err != nil {
		if isNil(err) {
			return nil, nil
		}
		return nil, err
	}
	turns := make([]model.Turn, 0, len(raw))
	for _, r := range raw {
		var t model.Turn
		if err := json.Unmarshal([]byte(r), &t); err != nil {
			continue // skip entries written by an older format
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *ConversationStore) Clear(ctx context.Context, userID string) error {
	return s.client.Del(ctx, s.key(userID))
}
