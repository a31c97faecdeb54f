package quiz

import (
	"errors"
	"sync"
	"time"

	"github.com/lumenlms/lumen-backend/internal/model"
)

var (
	// ErrAttemptActive rejects starting a second attempt while one is running.
	ErrAttemptActive = errors.New("an attempt is already in progress")
	// ErrNoAttempt is returned when no active attempt exists for the account.
	ErrNoAttempt = errors.New("no active attempt")
)

// ActiveAttempt binds a running attempt to the identity and section the
// caller supplied at start. The registry is the only holder of attempts.
type ActiveAttempt struct {
	Attempt   *Attempt
	AccountID string
	LessonID  string
	SectionID string
	QuizID    string
	StartedAt time.Time
}

// Registry tracks at most one in-progress attempt per account. The ticking
// worker and request handlers share it.
type Registry struct {
	mu      sync.Mutex
	current map[string]*ActiveAttempt
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{current: make(map[string]*ActiveAttempt)}
}

// Start creates and starts an attempt for the account. A still-running prior
// attempt fails the call; callers must submit or cancel it first. A prior
// attempt that already ended is swept out of the way.
func (r *Registry) Start(accountID, lessonID, sectionID string, def model.QuizDefinition) (*ActiveAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.current[accountID]; ok {
		if existing.Attempt.State().Phase == PhaseInProgress {
			return nil, ErrAttemptActive
		}
		delete(r.current, accountID)
	}

	active := &ActiveAttempt{
		Attempt:   NewAttempt(def),
		AccountID: accountID,
		LessonID:  lessonID,
		SectionID: sectionID,
		QuizID:    def.ID,
		StartedAt: time.Now().UTC(),
	}
	if err := active.Attempt.Start(); err != nil {
		return nil, err
	}
	r.current[accountID] = active
	return active, nil
}

// Get returns the account's active attempt.
func (r *Registry) Get(accountID string) (*ActiveAttempt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.current[accountID]
	return a, ok
}

// Remove drops the account's attempt from the registry.
func (r *Registry) Remove(accountID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.current, accountID)
}

// Snapshot returns the current attempts. The worker iterates the copy so it
// never ticks while holding the registry lock.
func (r *Registry) Snapshot() []*ActiveAttempt {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*ActiveAttempt, 0, len(r.current))
	for _, a := range r.current {
		out = append(out, a)
	}
	return out
}
