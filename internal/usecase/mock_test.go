//go:build !integration

package usecase_test

import (
	"context"
	"strings"
	"sync"

	"github.com/jackc/pgx/v4"

	"personal-reply-bot/internal/domain/model"
	"personal-reply-bot/internal/domain/ports/adapter"
	"personal-reply-bot/internal/domain/ports/repository"
)

// =============================
// Repositories
// =============================

type MockConversationRepo struct {
	mu    sync.Mutex
	turns map[string][]model.Turn
}

func NewMockConversationRepo() *MockConversationRepo {
	return &MockConversationRepo{turns: map[string][]model.Turn{}}
}

func (m *MockConversationRepo) Append(_ context.Context, userID string, turns ...model.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turns[userID] = append(m.turns[userID], turns...)
	return nil
}

func (m *MockConversationRepo) Recent(_ context.Context, userID string, n int) ([]model.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Turn(nil), model.Recent(m.turns[userID], n)...), nil
}

func (m *MockConversationRepo) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.turns, userID)
	return nil
}

type MockMemoryRepo struct {
	mu    sync.Mutex
	facts map[string][]model.MemoryFact
}

func NewMockMemoryRepo() *MockMemoryRepo { return &MockMemoryRepo{facts: map[string][]model.MemoryFact{}} }

func (m *MockMemoryRepo) Add(_ context.Context, f *model.MemoryFact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.facts[f.UserID] = append(m.facts[f.UserID], *f)
	return nil
}

func (m *MockMemoryRepo) List(_ context.Context, userID string) ([]model.MemoryFact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.MemoryFact(nil), m.facts[userID]...), nil
}

type MockPersonalityStore struct {
	mu      sync.Mutex
	current string
	err     error
}

func (m *MockPersonalityStore) Current(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.err
}

func (m *MockPersonalityStore) SetCurrent(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = name
	return m.err
}

type MockCounterStore struct {
	mu sync.Mutex
	n  map[string]int64
}

func NewMockCounterStore() *MockCounterStore { return &MockCounterStore{n: map[string]int64{}} }

func (m *MockCounterStore) Incr(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n[name]++
	return m.n[name], nil
}

func (m *MockCounterStore) Get(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n[name], nil
}

type MockTrainingRepo struct {
	mu       sync.Mutex
	examples []*model.TrainingExample
	SaveErr  error
}

func (m *MockTrainingRepo) Save(_ context.Context, _ repository.Tx, ex *model.TrainingExample) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.examples = append(m.examples, ex)
	return nil
}

// ListRecent returns newest first, like the Postgres repo.
func (m *MockTrainingRepo) ListRecent(_ context.Context, _ repository.Tx, language string, limit int) ([]*model.TrainingExample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.TrainingExample
	for i := len(m.examples) - 1; i >= 0 && len(out) < limit; i-- {
		if language == "" || m.examples[i].Language == language {
			out = append(out, m.examples[i])
		}
	}
	return out, nil
}

func (m *MockTrainingRepo) Count(context.Context, repository.Tx) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.examples)), nil
}

type MockCorrectionRepo struct {
	mu    sync.Mutex
	saved []*model.Correction
}

func (m *MockCorrectionRepo) Save(_ context.Context, _ repository.Tx, c *model.Correction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, c)
	return nil
}

func (m *MockCorrectionRepo) Count(context.Context, repository.Tx) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.saved)), nil
}

// MockTxManager runs fn directly; Calls counts transactions.
type MockTxManager struct {
	Calls int
}

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.Calls++
	return fn(ctx, nil)
}

// =============================
// Adapters
// =============================

// MockAI records the prompt of every call and answers with Reply.
// Token counts are the number of words across all messages.
type MockAI struct {
	mu       sync.Mutex
	Reply    string
	ChatErr  error
	CountErr error
	Prompts  [][]adapter.Message

	CountCalls int
}

var _ adapter.AIServiceAdapter = (*MockAI)(nil)

func (m *MockAI) Name() string { return "mock" }

func (m *MockAI) ListModels(context.Context) ([]string, error) { return []string{"mock-1"}, nil }

func (m *MockAI) CountTokens(_ context.Context, _ string, msgs []adapter.Message) (int, error) {
	m.mu.Lock()
	m.CountCalls++
	m.mu.Unlock()
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	n := 0
	for _, msg := range msgs {
		n += len(strings.Fields(msg.Content))
	}
	return n, nil
}

func (m *MockAI) Chat(_ context.Context, _ string, msgs []adapter.Message) (string, adapter.Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, msgs)
	if m.ChatErr != nil {
		return "", adapter.Usage{}, m.ChatErr
	}
	return m.Reply, adapter.Usage{TotalTokens: 10}, nil
}

func (m *MockAI) LastPrompt() []adapter.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Prompts) == 0 {
		return nil
	}
	return m.Prompts[len(m.Prompts)-1]
}
