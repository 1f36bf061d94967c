//go:build !integration

package model

import (
	"errors"
	"testing"

	"personal-reply-bot/internal/domain"
)

func TestNewTrainingExample(t *testing.T) {
	t.Run("should default language and source", func(t *testing.T) {
		ex, err := NewTrainingExample("hi", "yo", "", "")
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if ex.ID == "" {
			t.Error("expected example ID to be non-empty")
		}
		if ex.Language != DefaultLanguage {
			t.Errorf("expected language %q, got %q", DefaultLanguage, ex.Language)
		}
		if ex.Source != SourceAPI {
			t.Errorf("expected source %q, got %q", SourceAPI, ex.Source)
		}
	})

	t.Run("should normalize language", func(t *testing.T) {
		ex, err := NewTrainingExample("hola", "que tal", " ES ", SourceAPI)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if ex.Language != "es" {
			t.Errorf("expected language 'es', got %q", ex.Language)
		}
	})

	t.Run("should fail with empty reply", func(t *testing.T) {
		ex, err := NewTrainingExample("hi", "  ", "en", SourceAPI)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if ex != nil {
			t.Error("expected nil example on error")
		}
	})
}

func TestCorrectionAsExample(t *testing.T) {
	c, err := NewCorrection("u1", "how are you?", "Fine.", "doing great, you?")
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	ex, err := c.AsExample("en")
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if ex.Input != c.Query || ex.Reply != c.Corrected {
		t.Errorf("example does not mirror correction: %+v", ex)
	}
	if ex.Source != SourceCorrection {
		t.Errorf("expected source %q, got %q", SourceCorrection, ex.Source)
	}
}

func TestNewMemoryFact(t *testing.T) {
	if _, err := NewMemoryFact("", "likes tea"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for empty user, got %v", err)
	}
	f, err := NewMemoryFact("u1", "likes tea")
	if err != nil {
		t.Fatalf("expected no error, but got: %v", err)
	}
	if f.Fact != "likes tea" {
		t.Errorf("fact not kept verbatim: %q", f.Fact)
	}
}

func TestRecent(t *testing.T) {
	turns := []Turn{NewTurn(RoleUser, "a"), NewTurn(RoleAssistant, "b"), NewTurn(RoleUser, "c")}
	if got := Recent(turns, 2); len(got) != 2 || got[0].Content != "b" {
		t.Errorf("unexpected recent turns: %+v", got)
	}
	if got := Recent(turns, 0); len(got) != 3 {
		t.Errorf("n=0 should return all turns, got %d", len(got))
	}
}
