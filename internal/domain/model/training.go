package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"personal-reply-bot/internal/domain"
)

const (
	SourceAPI        = "api"
	SourceCorrection = "correction"

	DefaultLanguage = "en"
)

// TrainingExample pairs an incoming message with the reply the owner would have sent.
type TrainingExample struct {
	ID        string    `json:"id"`
	Input     string    `json:"input_text"`
	Reply     string    `json:"reply"`
	Language  string    `json:"language"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

func NewTrainingExample(input, reply, language, source string) (*TrainingExample, error) {
	if strings.TrimSpace(input) == "" || strings.TrimSpace(reply) == "" {
		return nil, errInvalid("input and reply are required")
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = DefaultLanguage
	}
	if source == "" {
		source = SourceAPI
	}
	return &TrainingExample{
		ID:        ulid.Make().String(),
		Input:     input,
		Reply:     reply,
		Language:  language,
		Source:    source,
		CreatedAt: time.Now(),
	}, nil
}

// Correction records that the bot answered Query with Original and should have said Corrected.
type Correction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Query     string    `json:"query"`
	Original  string    `json:"original"`
	Corrected string    `json:"corrected"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCorrection(userID, query, original, corrected string) (*Correction, error) {
	if strings.TrimSpace(query) == "" || strings.TrimSpace(corrected) == "" {
		return nil, errInvalid("query and corrected reply are required")
	}
	return &Correction{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Query:     query,
		Original:  original,
		Corrected: corrected,
		CreatedAt: time.Now(),
	}, nil
}

// AsExample turns the correction into a training example for future replies.
func (c *Correction) AsExample(language string) (*TrainingExample, error) {
	return NewTrainingExample(c.Query, c.Corrected, language, SourceCorrection)
}

func errInvalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidArgument, msg)
}
