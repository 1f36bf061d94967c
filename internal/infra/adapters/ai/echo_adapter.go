package ai

import (
	"context"
	"strings"

	"personal-reply-bot/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*EchoAdapter)(nil)

// EchoAdapter answers with the last user message. It lets the bot run
// locally without provider keys and backs tests.
type EchoAdapter struct{}

func NewEchoAdapter() *EchoAdapter { return &EchoAdapter{} }

func (a *EchoAdapter) Name() string { return "echo" }

func (a *EchoAdapter) ListModels(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []string{"echo"}, nil
}

// CountTokens approximates tokens with whitespace-separated words.
func (a *EchoAdapter) CountTokens(_ context.Context, _ string, messages []adapter.Message) (int, error) {
	n := 0
	for _, m := range messages {
		n += len(strings.Fields(m.Content))
	}
	return n, nil
}

func (a *EchoAdapter) Chat(ctx context.Context, _ string, messages []adapter.Message) (string, adapter.Usage, error) {
	if err := ctx.Err(); err != nil {
		return "", adapter.Usage{}, err
	}
	reply := ""
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.ToLower(messages[i].Role) == "user" {
			reply = messages[i].Content
			break
		}
	}
	in, _ := a.CountTokens(ctx, "", messages)
	out := len(strings.Fields(reply))
	return reply, adapter.Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out}, nil
}
