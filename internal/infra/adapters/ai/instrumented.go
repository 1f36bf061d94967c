package ai

import (
	"context"
	"time"

	"personal-reply-bot/internal/domain/ports/adapter"
	"personal-reply-bot/internal/infra/metrics"
)

var _ adapter.AIServiceAdapter = (*instrumentedAI)(nil)

type instrumentedAI struct {
	adapter.AIServiceAdapter
}

// NewInstrumentedAI records latency and token usage of every Chat call.
func NewInstrumentedAI(inner adapter.AIServiceAdapter) adapter.AIServiceAdapter {
	return &instrumentedAI{AIServiceAdapter: inner}
}

func (i *instrumentedAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	start := time.Now()
	reply, usage, err := i.AIServiceAdapter.Chat(ctx, model, messages)
	metrics.ObserveChatUsage(i.Name(), model, usage.TotalTokens, time.Since(start).Milliseconds(), err == nil)
	return reply, usage, err
}
