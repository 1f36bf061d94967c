package model

// ReplyStats describes how a single reply was produced.
type ReplyStats struct {
	Personality  string `json:"personality"`
	Model        string `json:"model"`
	HistoryTurns int    `json:"history_turns"`
	MemoryFacts  int    `json:"memory_facts"`
	ExamplesUsed int    `json:"examples_used"`
	LatencyMs    int64  `json:"latency_ms"`
}

type ReplyResult struct {
	Reply string     `json:"reply"`
	Stats ReplyStats `json:"stats"`
}

// Stats are the bot-wide counters reported by GET /stats.
type Stats struct {
	Personality      string `json:"personality"`
	Provider         string `json:"provider"`
	Model            string `json:"model"`
	MessagesHandled  int64  `json:"messages_handled"`
	TrainingExamples int64  `json:"training_examples"`
	Corrections      int64  `json:"corrections"`
	Personalities    int    `json:"personalities"`
}
