// Package quiz implements the timed assessment attempt: a pure in-memory
// state machine that scores itself on submit or timeout. Attempts are never
// persisted — only the QuizResult they produce is.
package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lumenlms/lumen-backend/internal/model"
)

const (
	// TimeLimitSeconds is the fixed time budget of one attempt.
	TimeLimitSeconds = 300

	// GatingThresholdPercent is the minimum percentage that marks a gated
	// section complete. Distinct from the analytics reporting threshold;
	// the two values diverge on purpose.
	GatingThresholdPercent = 80
)

// Attempt phase. NotStarted is the entry state, Closed is terminal.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseInProgress Phase = "in_progress"
	PhaseSubmitted  Phase = "submitted"
	PhaseTimedOut   Phase = "timed_out"
	PhaseClosed     Phase = "closed"
)

var (
	// ErrInvalidQuiz rejects definitions with no questions at Start, before
	// any scoring division can happen.
	ErrInvalidQuiz = errors.New("quiz definition has no questions")
	// ErrInvalidInput flags an out-of-range question or option index.
	ErrInvalidInput = errors.New("index out of range")
	// ErrNotInProgress is returned by operations that require a running
	// attempt. Start on a non-fresh attempt reports it too: restarting is an
	// error, not a no-op.
	ErrNotInProgress = errors.New("attempt is not in progress")
)

// Attempt is one run of a quiz. All methods are safe for the worker tick and
// the request path to call concurrently.
type Attempt struct {
	mu        sync.Mutex
	def       model.QuizDefinition
	phase     Phase
	current   int
	answers   map[int]int
	remaining int
}

// NewAttempt wraps def in a fresh, not-yet-started attempt.
func NewAttempt(def model.QuizDefinition) *Attempt {
	return &Attempt{
		def:     def,
		phase:   PhaseNotStarted,
		answers: make(map[int]int),
	}
}

// Start moves NotStarted → InProgress, arming the countdown. It fails with
// ErrInvalidQuiz on an empty definition and ErrNotInProgress when the attempt
// already ran.
func (a *Attempt) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.phase != PhaseNotStarted {
		return ErrNotInProgress
	}
	if len(a.def.Questions) == 0 {
		return ErrInvalidQuiz
	}
	a.phase = PhaseInProgress
	a.current = 0
	a.remaining = TimeLimitSeconds
	return nil
}

// SelectAnswer records (or overwrites) the chosen option for a question.
// It does not move the cursor.
func (a *Attempt) SelectAnswer(questionIndex, optionIndex int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if questionIndex < 0 || questionIndex >= len(a.def.Questions) {
		return ErrInvalidInput
	}
	if optionIndex < 0 || optionIndex >= len(a.def.Questions[questionIndex].Options) {
		return ErrInvalidInput
	}
	a.answers[questionIndex] = optionIndex
	return nil
}

// Advance moves the cursor forward one question, clamped at the last index.
func (a *Attempt) Advance() error {
	return a.move(1)
}

// Retreat moves the cursor back one question, clamped at zero.
func (a *Attempt) Retreat() error {
	return a.move(-1)
}

func (a *Attempt) move(delta int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	next := a.current + delta
	if next < 0 {
		next = 0
	}
	if last := len(a.def.Questions) - 1; next > last {
		next = last
	}
	a.current = next
	return nil
}

// Tick burns one second of the budget. When the budget reaches zero it forces
// a submit with whatever answers exist and returns the result; gaps score as
// wrong through the same path a manual submit uses.
func (a *Attempt) Tick() (*model.QuizResult, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.phase != PhaseInProgress {
		return nil, false
	}
	a.remaining--
	if a.remaining > 0 {
		return nil, false
	}
	a.remaining = 0
	a.phase = PhaseTimedOut
	return a.scoreLocked(), true
}

// Submit scores the attempt and ends it. Valid only while InProgress.
func (a *Attempt) Submit() (*model.QuizResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.phase != PhaseInProgress {
		return nil, ErrNotInProgress
	}
	a.phase = PhaseSubmitted
	return a.scoreLocked(), nil
}

// Cancel abandons the attempt: Closed, no result. Idempotent.
func (a *Attempt) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.phase = PhaseClosed
}

// scoreLocked builds the result descriptor. The caller supplies account and
// section identity before persisting. Unanswered questions never equal a
// correct index, so they count as wrong.
func (a *Attempt) scoreLocked() *model.QuizResult {
	correct := 0
	for i, q := range a.def.Questions {
		if chosen, ok := a.answers[i]; ok && chosen == q.CorrectIndex {
			correct++
		}
	}
	total := len(a.def.Questions)
	pct := roundPercent(correct, total)

	answers := make(map[int]int, len(a.answers))
	for k, v := range a.answers {
		answers[k] = v
	}

	return &model.QuizResult{
		ID:             uuid.New().String(),
		QuizID:         a.def.ID,
		Score:          correct,
		TotalQuestions: total,
		Percentage:     pct,
		Passed:         pct >= GatingThresholdPercent,
		Answers:        answers,
		CompletedAt:    time.Now().UTC(),
	}
}

// State is a point-in-time snapshot for handlers and the countdown stream.
type State struct {
	Phase            Phase `json:"phase"`
	CurrentIndex     int   `json:"current_index"`
	RemainingSeconds int   `json:"remaining_seconds"`
	Answered         int   `json:"answered"`
	TotalQuestions   int   `json:"total_questions"`
}

// State returns a snapshot of the attempt.
func (a *Attempt) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	return State{
		Phase:            a.phase,
		CurrentIndex:     a.current,
		RemainingSeconds: a.remaining,
		Answered:         len(a.answers),
		TotalQuestions:   len(a.def.Questions),
	}
}

// AllAnswered reports whether every question has an answer. The UI blocks
// manual submit until it holds; the scoring path does not depend on it.
func (a *Attempt) AllAnswered() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.answers) == len(a.def.Questions)
}

func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return (part*100 + whole/2) / whole
}
