package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lumenlms/lumen-backend/internal/content"
	"github.com/lumenlms/lumen-backend/internal/model"
	"github.com/lumenlms/lumen-backend/internal/quiz"
)

// AttemptService runs timed quiz attempts: it resolves the gating quiz from
// the catalog, drives the per-account attempt registry and hands finished
// results to the progress tracker. Abandoned attempts leave no trace — only
// submit and timeout persist a result.
type AttemptService struct {
	registry *quiz.Registry
	catalog  *content.Catalog
	progress *ProgressService
	log      zerolog.Logger
}

// NewAttemptService creates an AttemptService.
func NewAttemptService(registry *quiz.Registry, catalog *content.Catalog, progress *ProgressService, log zerolog.Logger) *AttemptService {
	return &AttemptService{
		registry: registry,
		catalog:  catalog,
		progress: progress,
		log:      log.With().Str("component", "attempt_service").Logger(),
	}
}

// Start begins an attempt at the quiz gating the given section.
func (s *AttemptService) Start(accountID, lessonID, sectionID string) (quiz.State, error) {
	def, ok := s.catalog.QuizForSection(lessonID, sectionID)
	if !ok {
		return quiz.State{}, ErrUnknownContent
	}
	active, err := s.registry.Start(accountID, lessonID, sectionID, def)
	if err != nil {
		return quiz.State{}, err
	}
	s.log.Info().Str("account_id", accountID).Str("quiz_id", def.ID).Msg("Attempt started")
	return active.Attempt.State(), nil
}

// SelectAnswer records an answer on the account's active attempt.
func (s *AttemptService) SelectAnswer(accountID string, questionIndex, optionIndex int) (quiz.State, error) {
	active, ok := s.registry.Get(accountID)
	if !ok {
		return quiz.State{}, quiz.ErrNoAttempt
	}
	if err := active.Attempt.SelectAnswer(questionIndex, optionIndex); err != nil {
		return quiz.State{}, err
	}
	return active.Attempt.State(), nil
}

// Navigate moves the attempt cursor. forward=false retreats.
func (s *AttemptService) Navigate(accountID string, forward bool) (quiz.State, error) {
	active, ok := s.registry.Get(accountID)
	if !ok {
		return quiz.State{}, quiz.ErrNoAttempt
	}
	var err error
	if forward {
		err = active.Attempt.Advance()
	} else {
		err = active.Attempt.Retreat()
	}
	if err != nil {
		return quiz.State{}, err
	}
	return active.Attempt.State(), nil
}

// Submit scores the active attempt, persists the result and records the
// section outcome.
func (s *AttemptService) Submit(ctx context.Context, accountID string) (*model.QuizResult, error) {
	active, ok := s.registry.Get(accountID)
	if !ok {
		return nil, quiz.ErrNoAttempt
	}
	result, err := active.Attempt.Submit()
	if err != nil {
		return nil, err
	}
	s.registry.Remove(accountID)

	if err := s.progress.RecordSectionOutcome(ctx, accountID, active.LessonID, active.SectionID, result); err != nil {
		return nil, err
	}
	s.log.Info().
		Str("account_id", accountID).
		Str("quiz_id", active.QuizID).
		Int("percentage", result.Percentage).
		Bool("passed", result.Passed).
		Msg("Attempt submitted")
	return result, nil
}

// Cancel abandons the active attempt without persisting anything. Idempotent:
// cancelling with no active attempt succeeds.
func (s *AttemptService) Cancel(accountID string) {
	if active, ok := s.registry.Get(accountID); ok {
		active.Attempt.Cancel()
		s.registry.Remove(accountID)
	}
}

// State returns the active attempt's snapshot.
func (s *AttemptService) State(accountID string) (quiz.State, error) {
	active, ok := s.registry.Get(accountID)
	if !ok {
		return quiz.State{}, quiz.ErrNoAttempt
	}
	return active.Attempt.State(), nil
}
