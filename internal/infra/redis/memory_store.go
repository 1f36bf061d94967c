package redis

import (
	"context"
	"encoding/json"
	"sort"

	"personal-reply-bot/internal/domain/model"
	"personal-reply-bot/internal/domain/ports/repository"
)

var _ repository.MemoryRepository = (*MemoryStore)(nil)

// MemoryStore keeps long-term facts in a hash under mem:<user>, one field per
// fact text. Facts never expire.
type MemoryStore struct {
	client RedisClient
}

func NewMemoryStore(client RedisClient) *MemoryStore {
	return &MemoryStore{client: client}
}

func (s *MemoryStore) key(userID string) string { return "mem:" + userID }

// Add stores the fact unless the same text is already remembered; the first
// write keeps its CreatedAt.
func (s *MemoryStore) Add(ctx context.Context, fact *model.MemoryFact) error {
	data, err := json.Marshal(fact)
	if err != nil {
		return err
	}
	_, err = s.client.HSetNX(ctx, s.key(fact.UserID), fact.Fact, string(data))
	return err
}

// List returns facts oldest first.
func (s *MemoryStore) List(ctx context.Context, userID string) ([]model.MemoryFact, error) {
	raw, err := s.client.HGetAll(ctx, s.key(userID))
	if err != nil {
		if isNil(err) {
			return nil, nil
		}
		return nil, err
	}
	facts := make([]model.MemoryFact, 0, len(raw))
	for _, r := range raw {
		var f model.MemoryFact
		if err := json.Unmarshal([]byte(r), &f); err != nil {
			continue
		}
		facts = append(facts, f)
	}
	sort.SliceStable(facts, func(i, j int) bool {
		if facts[i].CreatedAt.Equal(facts[j].CreatedAt) {
			return facts[i].Fact < facts[j].Fact
		}
		return facts[i].CreatedAt.Before(facts[j].CreatedAt)
	})
	return facts, nil
}
