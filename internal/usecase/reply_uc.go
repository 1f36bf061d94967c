// File: internal/usecase/reply_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"personal-reply-bot/internal/domain"
	"personal-reply-bot/internal/domain/model"
	"personal-reply-bot/internal/domain/ports/adapter"
	"personal-reply-bot/internal/domain/ports/repository"
	"personal-reply-bot/internal/infra/logging"
)

const (
	DefaultUserID   = "default"
	CorrectionReply = "Got it! I'll reply like that next time."

	counterMessages = "messages"

	maxCountCalls = 3
)

// Compile-time check
var _ adapter.ReplyBot = (*replyUC)(nil)

type ReplyOptions struct {
	Model              string
	HistoryTurns       int
	ExamplesPerReply   int
	MaxContextTokens   int
	DefaultPersonality string
	Personalities      []model.Personality
}

type ReplyDeps struct {
	Conversations repository.ConversationRepository
	Memory        repository.MemoryRepository
	Personality   repository.PersonalityStore
	Counters      repository.CounterStore
	Training      repository.TrainingRepository
	Corrections   repository.CorrectionRepository
	TxManager     repository.TransactionManager
	AI            adapter.AIServiceAdapter
}

type replyUC struct {
	ReplyDeps
	opts   ReplyOptions
	byName map[string]model.Personality
	order  []string
	log    *zerolog.Logger
}

func NewReplyUseCase(deps ReplyDeps, opts ReplyOptions, logger *zerolog.Logger) (*replyUC, error) {
	if deps.AI == nil || deps.Conversations == nil || deps.Memory == nil || deps.Personality == nil ||
		deps.Counters == nil || deps.Training == nil || deps.Corrections == nil || deps.TxManager == nil {
		return nil, errors.New("reply usecase: missing dependency")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if len(opts.Personalities) == 0 {
		opts.Personalities = BuiltinPersonalities()
	}

	u := &replyUC{ReplyDeps: deps, opts: opts, byName: map[string]model.Personality{}, log: logger}
	for _, p := range opts.Personalities {
		name := model.NormalizeName(p.Name)
		if name == "" {
			continue
		}
		if _, dup := u.byName[name]; !dup {
			u.order = append(u.order, name)
		}
		p.Name = name
		u.byName[name] = p
	}
	if len(u.order) == 0 {
		return nil, fmt.Errorf("%w: no usable personalities", domain.ErrInvalidArgument)
	}

	def := model.NormalizeName(opts.DefaultPersonality)
	if _, ok := u.byName[def]; !ok {
		if _, ok := u.byName[DefaultPersonality]; ok {
			def = DefaultPersonality
		} else {
			def = u.order[0]
		}
	}
	u.opts.DefaultPersonality = def
	return u, nil
}

func (u *replyUC) GetReply(ctx context.Context, message, userID string) (*model.ReplyResult, error) {
	defer logging.TraceDuration(u.log, "ReplyUC.GetReply")()
	start := time.Now()

	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: empty message", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(userID) == "" {
		userID = DefaultUserID
	}

	persona, err := u.current(ctx)
	if err != nil {
		return nil, err
	}
	facts, err := u.Memory.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load memory: %w", err)
	}
	history, err := u.Conversations.Recent(ctx, userID, u.opts.HistoryTurns)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	examples, err := u.Training.ListRecent(ctx, repository.NoTX, "", u.opts.ExamplesPerReply)
	if err != nil {
		return nil, fmt.Errorf("load examples: %w", err)
	}

	system := buildSystemPrompt(persona, facts, examples)
	history = u.fitContext(ctx, system, history, message)
	msgs := toMessages(system, history, message)

	reply, usage, err := u.AI.Chat(ctx, u.opts.Model, msgs)
	if err != nil {
		return nil, fmt.Errorf("generate reply: %w", err)
	}
	reply = strings.TrimSpace(reply)

	if err := u.Conversations.Append(ctx, userID,
		model.NewTurn(model.RoleUser, message),
		model.NewTurn(model.RoleAssistant, reply),
	); err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Str("user_id", userID).Msg("failed to store conversation turns")
	}
	if _, err := u.Counters.Incr(ctx, counterMessages); err != nil {
		logging.With(ctx, u.log).Warn().Err(err).Msg("failed to bump message counter")
	}

	logging.With(ctx, u.log).Debug().
		Str("personality", persona.Name).
		Int("history", len(history)).
		Int("tokens", usage.TotalTokens).
		Msg("reply generated")

	return &model.ReplyResult{
		Reply: reply,
		Stats: model.ReplyStats{
			Personality:  persona.Name,
			Model:        u.opts.Model,
			HistoryTurns: len(history),
			MemoryFacts:  len(facts),
			ExamplesUsed: len(examples),
			LatencyMs:    time.Since(start).Milliseconds(),
		},
	}, nil
}

func (u *replyUC) Train(ctx context.Context, input, reply, language string) error {
	defer logging.TraceDuration(u.log, "ReplyUC.Train")()
	ex, err := model.NewTrainingExample(input, reply, language, model.SourceAPI)
	if err != nil {
		return err
	}
	return u.Training.Save(ctx, repository.NoTX, ex)
}

// SetPersonality reports false for unknown names; that is not an error.
func (u *replyUC) SetPersonality(ctx context.Context, name string) (bool, error) {
	name = model.NormalizeName(name)
	if _, ok := u.byName[name]; !ok {
		return false, nil
	}
	if err := u.Personality.SetCurrent(ctx, name); err != nil {
		return false, err
	}
	logging.With(ctx, u.log).Info().Str("personality", name).Msg("personality changed")
	return true, nil
}

// Correct stores the correction and learns query -> corrected as an example, atomically.
func (u *replyUC) Correct(ctx context.Context, query, original, corrected, userID string) (string, error) {
	defer logging.TraceDuration(u.log, "ReplyUC.Correct")()
	if strings.TrimSpace(userID) == "" {
		userID = DefaultUserID
	}
	c, err := model.NewCorrection(userID, query, original, corrected)
	if err != nil {
		return "", err
	}
	ex, err := c.AsExample(model.DefaultLanguage)
	if err != nil {
		return "", err
	}

	err = u.TxManager.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.Corrections.Save(ctx, tx, c); err != nil {
			return err
		}
		return u.Training.Save(ctx, tx, ex)
	})
	if err != nil {
		return "", err
	}
	return CorrectionReply, nil
}

func (u *replyUC) GetStats(ctx context.Context) (*model.Stats, error) {
	persona, err := u.current(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := u.Counters.Get(ctx, counterMessages)
	if err != nil {
		return nil, err
	}
	examples, err := u.Training.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	corrections, err := u.Corrections.Count(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	return &model.Stats{
		Personality:      persona.Name,
		Provider:         u.AI.Name(),
		Model:            u.opts.Model,
		MessagesHandled:  messages,
		TrainingExamples: examples,
		Corrections:      corrections,
		Personalities:    len(u.order),
	}, nil
}

func (u *replyUC) AddMemory(ctx context.Context, userID, fact string) error {
	f, err := model.NewMemoryFact(userID, fact)
	if err != nil {
		return err
	}
	return u.Memory.Add(ctx, f)
}

func (u *replyUC) ClearConversation(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		userID = DefaultUserID
	}
	return u.Conversations.Clear(ctx, userID)
}

func (u *replyUC) ListPersonalities(ctx context.Context) (*model.PersonalityList, error) {
	persona, err := u.current(ctx)
	if err != nil {
		return nil, err
	}
	out := &model.PersonalityList{Current: persona.Name, Available: make([]model.Personality, 0, len(u.order))}
	for _, name := range u.order {
		out.Available = append(out.Available, u.byName[name])
	}
	return out, nil
}

// current resolves the stored personality, falling back to the default when
// nothing is stored or the stored name is no longer configured.
func (u *replyUC) current(ctx context.Context) (model.Personality, error) {
	name, err := u.Personality.Current(ctx)
	if err != nil {
		return model.Personality{}, fmt.Errorf("load personality: %w", err)
	}
	if p, ok := u.byName[model.NormalizeName(name)]; ok {
		return p, nil
	}
	return u.byName[u.opts.DefaultPersonality], nil
}

// fitContext drops the oldest turns until the prompt fits MaxContextTokens.
// Providers may count remotely, so CountTokens runs at most maxCountCalls times;
// between calls turns are dropped by an estimate scaled from the last count.
// Counting failures are logged and the history is used as is.
func (u *replyUC) fitContext(ctx context.Context, system string, history []model.Turn, message string) []model.Turn {
	budget := u.opts.MaxContextTokens
	if budget <= 0 {
		return history
	}
	for calls := 0; calls < maxCountCalls && len(history) > 0; calls++ {
		msgs := toMessages(system, history, message)
		n, err := u.AI.CountTokens(ctx, u.opts.Model, msgs)
		if err != nil {
			logging.With(ctx, u.log).Warn().Err(err).Msg("token count failed; skipping context trim")
			return history
		}
		if n <= budget {
			return history
		}
		perRune := float64(n) / float64(max(1, promptRunes(msgs)))
		for excess := n - budget; excess > 0 && len(history) > 0; history = history[1:] {
			excess -= max(1, int(math.Ceil(float64(utf8.RuneCountInString(history[0].Content))*perRune)))
		}
	}
	return history
}

func promptRunes(msgs []adapter.Message) int {
	n := 0
	for _, m := range msgs {
		n += utf8.RuneCountInString(m.Content)
	}
	return n
}

func buildSystemPrompt(p model.Personality, facts []model.MemoryFact, examples []*model.TrainingExample) string {
	var b strings.Builder
	b.WriteString(p.Prompt)

	if len(facts) > 0 {
		b.WriteString("\n\nThings you know about the person you are talking to:")
		for _, f := range facts {
			b.WriteString("\n- ")
			b.WriteString(f.Fact)
		}
	}

	if len(examples) > 0 {
		b.WriteString("\n\nExamples of how the owner replies:")
		// oldest first reads more naturally
		for i := len(examples) - 1; i >= 0; i-- {
			ex := examples[i]
			b.WriteString("\n\nMessage: ")
			b.WriteString(ex.Input)
			b.WriteString("\nReply: ")
			b.WriteString(ex.Reply)
		}
	}
	return b.String()
}

func toMessages(system string, history []model.Turn, message string) []adapter.Message {
	out := make([]adapter.Message, 0, len(history)+2)
	out = append(out, adapter.Message{Role: model.RoleSystem, Content: system})
	for _, t := range history {
		role := model.RoleUser
		if t.Role == model.RoleAssistant {
			role = model.RoleAssistant
		}
		out = append(out, adapter.Message{Role: role, Content: t.Content})
	}
	return append(out, adapter.Message{Role: model.RoleUser, Content: message})
}
