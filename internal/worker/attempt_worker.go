package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lumenlms/lumen-backend/internal/quiz"
	"github.com/lumenlms/lumen-backend/internal/service"
)

// TickInterval is the countdown resolution: one decrement per elapsed second.
const TickInterval = 1 * time.Second

// AttemptWorker owns attempt time. Once per second it ticks every in-progress
// attempt; an attempt whose budget hits zero is force-submitted with whatever
// answers it has, through the same scoring path a manual submit uses, and its
// result is handed to the progress tracker.
type AttemptWorker struct {
	registry *quiz.Registry
	progress *service.ProgressService
	log      zerolog.Logger
}

// NewAttemptWorker creates an AttemptWorker.
func NewAttemptWorker(registry *quiz.Registry, progress *service.ProgressService, log zerolog.Logger) *AttemptWorker {
	return &AttemptWorker{
		registry: registry,
		progress: progress,
		log:      log.With().Str("component", "attempt_worker").Logger(),
	}
}

// Start runs the tick loop until ctx is cancelled.
func (w *AttemptWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AttemptWorker started")

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("AttemptWorker stopped")
			return
		case <-ticker.C:
			w.tickAll(ctx)
		}
	}
}

func (w *AttemptWorker) tickAll(ctx context.Context) {
	for _, active := range w.registry.Snapshot() {
		result, timedOut := active.Attempt.Tick()
		if !timedOut {
			continue
		}
		w.registry.Remove(active.AccountID)

		if err := w.progress.RecordSectionOutcome(ctx, active.AccountID, active.LessonID, active.SectionID, result); err != nil {
			w.log.Error().Err(err).
				Str("account_id", active.AccountID).
				Str("quiz_id", active.QuizID).
				Msg("Timed-out attempt could not be recorded")
			continue
		}
		w.log.Info().
			Str("account_id", active.AccountID).
			Str("quiz_id", active.QuizID).
			Int("percentage", result.Percentage).
			Bool("passed", result.Passed).
			Msg("Attempt timed out, auto-submitted")
	}
}
