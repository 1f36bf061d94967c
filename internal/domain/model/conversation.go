package model

import (
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Turn is one message of a user's running conversation with the bot.
type Turn struct {
	Role    string    `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

func NewTurn(role, content string) Turn {
	return Turn{Role: role, Content: content, At: time.Now()}
}

// Recent returns the last n turns; n <= 0 returns all.
func Recent(turns []Turn, n int) []Turn {
	if n <= 0 || len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// MemoryFact is a long-term fact remembered about a user.
type MemoryFact struct {
	UserID    string    `json:"user_id"`
	Fact      string    `json:"fact"`
	CreatedAt time.Time `json:"created_at"`
}

func NewMemoryFact(userID, fact string) (*MemoryFact, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(fact) == "" {
		return nil, errInvalid("user id and fact are required")
	}
	return &MemoryFact{UserID: userID, Fact: fact, CreatedAt: time.Now()}, nil
}
