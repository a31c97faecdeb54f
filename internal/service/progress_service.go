package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lumenlms/lumen-backend/internal/config"
	"github.com/lumenlms/lumen-backend/internal/content"
	"github.com/lumenlms/lumen-backend/internal/model"
	"github.com/lumenlms/lumen-backend/internal/store"
)

// ProgressService owns section/lesson/module completion records and the
// append-only quiz-result log. Completion cascades upward: a passed (or
// quizless) section may complete its lesson, a completed lesson may complete
// its module. Completion is monotonic — later failing attempts never revoke
// it.
type ProgressService struct {
	store   store.Store
	catalog *content.Catalog
	log     zerolog.Logger
	now     func() time.Time
}

// NewProgressService creates a ProgressService over the record store and the
// read-only course catalog.
func NewProgressService(st store.Store, catalog *content.Catalog, log zerolog.Logger) *ProgressService {
	return &ProgressService{
		store:   st,
		catalog: catalog,
		log:     log.With().Str("component", "progress_service").Logger(),
		now:     time.Now,
	}
}

// RecordSectionOutcome consumes the outcome of a section: either a finished
// quiz attempt (result != nil) or an explicit no-quiz completion (result ==
// nil). A quiz result is appended to the result log whether it passed or not;
// the section is marked complete only on a pass or a no-quiz completion.
func (s *ProgressService) RecordSectionOutcome(ctx context.Context, accountID, lessonID, sectionID string, result *model.QuizResult) error {
	lesson, module, ok := s.catalog.Lesson(lessonID)
	if !ok {
		return ErrUnknownContent
	}

	if result != nil {
		result.AccountID = accountID
		result.LessonID = lessonID
		result.SectionID = sectionID
		if err := s.appendResult(ctx, result); err != nil {
			return err
		}
	}

	completes := result == nil || result.Passed
	if !completes {
		s.touchMeta(ctx, accountID)
		return nil
	}

	key := config.StoreKey.LessonProgressKey(accountID, lessonID)
	var lp model.LessonProgress
	if _, err := store.Load(ctx, s.store, key, &lp); err != nil {
		return err
	}
	if lp.CompletedSections == nil {
		lp.CompletedSections = store.NewStringSet()
	}
	lp.CompletedSections.Add(sectionID)
	if err := s.store.Set(ctx, key, lp); err != nil {
		return fmt.Errorf("persist lesson progress: %w", err)
	}

	if lp.CompletedSections.Len() >= len(lesson.Sections) {
		if err := s.MarkLessonComplete(ctx, accountID, module.ID, lessonID); err != nil {
			return err
		}
	}

	s.touchMeta(ctx, accountID)
	return nil
}

// MarkLessonComplete adds a lesson to its module's completed set (idempotent)
// and recomputes the module's cached completed flag against catalog metadata.
// The flag is never trusted as authoritative — the lesson set is.
func (s *ProgressService) MarkLessonComplete(ctx context.Context, accountID, moduleID, lessonID string) error {
	if _, ok := s.catalog.Module(moduleID); !ok {
		return ErrUnknownContent
	}

	key := config.StoreKey.ModuleProgressKey(accountID, moduleID)
	var mp model.ModuleProgress
	if _, err := store.Load(ctx, s.store, key, &mp); err != nil {
		return err
	}
	if mp.CompletedLessons == nil {
		mp.CompletedLessons = store.NewStringSet()
	}
	mp.CompletedLessons.Add(lessonID)

	wasComplete := mp.Completed
	total := s.catalog.LessonCount(moduleID)
	mp.Completed = total > 0 && mp.CompletedLessons.Len() >= total
	if mp.Completed && !wasComplete {
		now := s.now().UTC()
		mp.CompletedAt = &now
		s.log.Info().Str("account_id", accountID).Str("module_id", moduleID).Msg("Module completed")
	}

	if err := s.store.Set(ctx, key, mp); err != nil {
		return fmt.Errorf("persist module progress: %w", err)
	}
	return nil
}

// IsLessonComplete reports whether every section of the lesson is complete.
func (s *ProgressService) IsLessonComplete(ctx context.Context, accountID, lessonID string) (bool, error) {
	total := s.catalog.SectionCount(lessonID)
	if total == 0 {
		return false, nil
	}
	lp, err := s.lessonProgress(ctx, accountID, lessonID)
	if err != nil {
		return false, err
	}
	return lp.CompletedSections.Len() >= total, nil
}

// IsModuleComplete reports whether the module's completed-lesson count has
// reached its configured lesson count. Recomputed from the lesson set, not
// read from the cached flag.
func (s *ProgressService) IsModuleComplete(ctx context.Context, accountID, moduleID string) (bool, error) {
	total := s.catalog.LessonCount(moduleID)
	if total == 0 {
		return false, nil
	}
	mp, err := s.moduleProgress(ctx, accountID, moduleID)
	if err != nil {
		return false, err
	}
	return mp.CompletedLessons.Len() >= total, nil
}

// LessonPercent returns the lesson's rounded completion percentage.
func (s *ProgressService) LessonPercent(ctx context.Context, accountID, lessonID string) (int, error) {
	lp, err := s.lessonProgress(ctx, accountID, lessonID)
	if err != nil {
		return 0, err
	}
	return roundPercent(lp.CompletedSections.Len(), s.catalog.SectionCount(lessonID)), nil
}

// ModulePercent returns the module's rounded completion percentage.
func (s *ProgressService) ModulePercent(ctx context.Context, accountID, moduleID string) (int, error) {
	mp, err := s.moduleProgress(ctx, accountID, moduleID)
	if err != nil {
		return 0, err
	}
	return roundPercent(mp.CompletedLessons.Len(), s.catalog.LessonCount(moduleID)), nil
}

// Overall returns the account's completion across the whole catalog.
func (s *ProgressService) Overall(ctx context.Context, accountID string) (model.OverallProgress, error) {
	completed := 0
	for _, m := range s.catalog.Modules {
		mp, err := s.moduleProgress(ctx, accountID, m.ID)
		if err != nil {
			return model.OverallProgress{}, err
		}
		completed += mp.CompletedLessons.Len()
	}
	total := s.catalog.TotalLessons()
	return model.OverallProgress{
		TotalLessons:     total,
		CompletedLessons: completed,
		Percentage:       roundPercent(completed, total),
	}, nil
}

// SectionComplete reports whether one section is marked complete.
func (s *ProgressService) SectionComplete(ctx context.Context, accountID, lessonID, sectionID string) (bool, error) {
	lp, err := s.lessonProgress(ctx, accountID, lessonID)
	if err != nil {
		return false, err
	}
	return lp.CompletedSections.Has(sectionID), nil
}

// Results returns the account's full quiz-result log, unordered.
func (s *ProgressService) Results(ctx context.Context, accountID string) ([]model.QuizResult, error) {
	prefix := config.StoreKey.AccountProgressPrefix(config.QuizResultPrefix, accountID)
	return s.resultsWithPrefix(ctx, prefix)
}

// AllResults returns every account's quiz results. Analytics reads the log
// through this.
func (s *ProgressService) AllResults(ctx context.Context) ([]model.QuizResult, error) {
	return s.resultsWithPrefix(ctx, config.QuizResultPrefix)
}

// Export returns the account's full progress blob: every record under the
// three progress prefixes, raw. A backup is exactly this bag.
func (s *ProgressService) Export(ctx context.Context, accountID string) (map[string]json.RawMessage, error) {
	bag := make(map[string]json.RawMessage)
	for _, family := range []string{config.LessonProgressPrefix, config.ModuleProgressPrefix, config.QuizResultPrefix} {
		prefix := config.StoreKey.AccountProgressPrefix(family, accountID)
		keys, err := s.store.KeysWithPrefix(ctx, prefix)
		if err != nil {
			return nil, err
		}
		for _, k := range keys {
			raw, err := s.store.Get(ctx, k)
			if err != nil {
				// Fail-soft: a corrupt record is absent, so it is absent
				// from the backup too.
				continue
			}
			bag[k] = raw
		}
	}
	return bag, nil
}

// Import restores a progress blob for the account. The whole payload is
// validated first — every key must belong to this account's progress
// prefixes and every value must decode to its record shape — and rejected
// with ErrInvalidImport before anything is written. A valid import replaces
// the current progress entirely; it never merges.
func (s *ProgressService) Import(ctx context.Context, accountID string, bag map[string]json.RawMessage) error {
	for key, raw := range bag {
		if err := validateImportRecord(accountID, key, raw); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidImport, key)
		}
	}

	if err := s.ClearAll(ctx, accountID); err != nil {
		return err
	}
	for key, raw := range bag {
		if err := s.store.Set(ctx, key, raw); err != nil {
			return fmt.Errorf("restore %s: %w", key, err)
		}
	}
	s.touchMeta(ctx, accountID)
	return nil
}

// ClearAll wipes every progress and quiz-result record of one account. Other
// accounts' records are untouched — the per-account key prefix is what scopes
// the wipe.
func (s *ProgressService) ClearAll(ctx context.Context, accountID string) error {
	for _, family := range []string{config.LessonProgressPrefix, config.ModuleProgressPrefix, config.QuizResultPrefix} {
		prefix := config.StoreKey.AccountProgressPrefix(family, accountID)
		keys, err := s.store.KeysWithPrefix(ctx, prefix)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if err := s.store.Remove(ctx, k); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ProgressService) appendResult(ctx context.Context, result *model.QuizResult) error {
	key := config.StoreKey.QuizResultKey(result.AccountID, result.LessonID, result.SectionID)
	var results []model.QuizResult
	if _, err := store.Load(ctx, s.store, key, &results); err != nil {
		return err
	}
	results = append(results, *result)
	if err := s.store.Set(ctx, key, results); err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

func (s *ProgressService) resultsWithPrefix(ctx context.Context, prefix string) ([]model.QuizResult, error) {
	keys, err := s.store.KeysWithPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	var all []model.QuizResult
	for _, k := range keys {
		var results []model.QuizResult
		ok, err := store.Load(ctx, s.store, k, &results)
		if err != nil {
			return nil, err
		}
		if ok {
			all = append(all, results...)
		}
	}
	return all, nil
}

func (s *ProgressService) lessonProgress(ctx context.Context, accountID, lessonID string) (model.LessonProgress, error) {
	var lp model.LessonProgress
	if _, err := store.Load(ctx, s.store, config.StoreKey.LessonProgressKey(accountID, lessonID), &lp); err != nil {
		return lp, err
	}
	if lp.CompletedSections == nil {
		lp.CompletedSections = store.NewStringSet()
	}
	return lp, nil
}

func (s *ProgressService) moduleProgress(ctx context.Context, accountID, moduleID string) (model.ModuleProgress, error) {
	var mp model.ModuleProgress
	if _, err := store.Load(ctx, s.store, config.StoreKey.ModuleProgressKey(accountID, moduleID), &mp); err != nil {
		return mp, err
	}
	if mp.CompletedLessons == nil {
		mp.CompletedLessons = store.NewStringSet()
	}
	return mp, nil
}

// touchMeta bumps the account's last-activity stamp. Best-effort: a failure
// here never fails the mutation that triggered it.
func (s *ProgressService) touchMeta(ctx context.Context, accountID string) {
	key := config.StoreKey.ProgressMetaKey(accountID)
	var meta model.ProgressMeta
	ok, err := store.Load(ctx, s.store, key, &meta)
	if err != nil {
		return
	}
	now := s.now().UTC()
	if !ok {
		meta.StartedAt = now
	}
	meta.LastActivity = now
	if err := s.store.Set(ctx, key, meta); err != nil {
		s.log.Warn().Err(err).Str("account_id", accountID).Msg("Progress meta update failed")
	}
}

func validateImportRecord(accountID, key string, raw json.RawMessage) error {
	switch {
	case strings.HasPrefix(key, config.StoreKey.AccountProgressPrefix(config.LessonProgressPrefix, accountID)):
		var lp model.LessonProgress
		return json.Unmarshal(raw, &lp)
	case strings.HasPrefix(key, config.StoreKey.AccountProgressPrefix(config.ModuleProgressPrefix, accountID)):
		var mp model.ModuleProgress
		return json.Unmarshal(raw, &mp)
	case strings.HasPrefix(key, config.StoreKey.AccountProgressPrefix(config.QuizResultPrefix, accountID)):
		var results []model.QuizResult
		return json.Unmarshal(raw, &results)
	default:
		return fmt.Errorf("key outside account progress prefixes")
	}
}

func roundPercent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return (part*100 + whole/2) / whole
}

// roundDiv is integer division rounded to nearest.
func roundDiv(sum, n int) int {
	if n == 0 {
		return 0
	}
	return (sum + n/2) / n
}
