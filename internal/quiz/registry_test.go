package quiz

import (
	"errors"
	"testing"

	"github.com/lumenlms/lumen-backend/internal/model"
)

func TestRegistrySingleAttemptPerAccount(t *testing.T) {
	r := NewRegistry()
	def := threeQuestionQuiz()

	first, err := r.Start("u1", "welcome", "overview", def)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if first.QuizID != def.ID {
		t.Fatalf("unexpected quiz id %q", first.QuizID)
	}

	if _, err := r.Start("u1", "welcome", "objectives", def); !errors.Is(err, ErrAttemptActive) {
		t.Fatalf("second start must fail, got %v", err)
	}

	// A different account is unaffected.
	if _, err := r.Start("u2", "welcome", "overview", def); err != nil {
		t.Fatalf("other account start failed: %v", err)
	}
}

func TestRegistrySweepsEndedAttempt(t *testing.T) {
	r := NewRegistry()
	def := threeQuestionQuiz()

	first, err := r.Start("u1", "welcome", "overview", def)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := first.Attempt.Submit(); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// The ended attempt no longer blocks a new one.
	second, err := r.Start("u1", "welcome", "objectives", def)
	if err != nil {
		t.Fatalf("restart after end failed: %v", err)
	}
	if second == first {
		t.Fatal("expected a fresh attempt")
	}
}

func TestRegistryGetAndRemove(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Get("u1"); ok {
		t.Fatal("empty registry must not return an attempt")
	}

	if _, err := r.Start("u1", "welcome", "overview", threeQuestionQuiz()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, ok := r.Get("u1"); !ok {
		t.Fatal("expected active attempt")
	}

	r.Remove("u1")
	if _, ok := r.Get("u1"); ok {
		t.Fatal("removed attempt must be gone")
	}
}

func TestRegistrySnapshot(t *testing.T) {
	r := NewRegistry()
	def := threeQuestionQuiz()
	for _, acct := range []string{"u1", "u2", "u3"} {
		if _, err := r.Start(acct, "welcome", "overview", def); err != nil {
			t.Fatalf("start %s failed: %v", acct, err)
		}
	}

	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(snap))
	}
}

func TestRegistryRejectsEmptyQuiz(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Start("u1", "welcome", "overview", model.QuizDefinition{ID: "empty"}); !errors.Is(err, ErrInvalidQuiz) {
		t.Fatalf("expected ErrInvalidQuiz, got %v", err)
	}
	if _, ok := r.Get("u1"); ok {
		t.Fatal("failed start must leave no attempt behind")
	}
}
