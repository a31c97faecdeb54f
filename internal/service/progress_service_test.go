package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lumenlms/lumen-backend/internal/content"
	"github.com/lumenlms/lumen-backend/internal/model"
	"github.com/lumenlms/lumen-backend/internal/store"
)

// testCatalog: one module with two lessons. The first lesson has two sections
// (one quiz-gated), the second lesson has a single quizless section.
func testCatalog() *content.Catalog {
	return content.FromParts(
		[]content.Module{
			{
				ID:    "crm-foundations",
				Title: "CRM Foundations",
				Lessons: []content.Lesson{
					{
						ID:    "welcome",
						Title: "Welcome",
						Sections: []content.Section{
							{ID: "overview", Title: "Overview", QuizID: "welcome-overview"},
							{ID: "navigation", Title: "Navigation"},
						},
					},
					{
						ID:    "accounts",
						Title: "Accounts",
						Sections: []content.Section{
							{ID: "basics", Title: "Basics"},
						},
					},
				},
			},
		},
		map[string]model.QuizDefinition{
			"welcome-overview": {
				ID: "welcome-overview",
				Questions: []model.Question{
					{Options: []string{"a", "b"}, CorrectIndex: 0},
				},
			},
		},
	)
}

func newTestProgress() (*ProgressService, *store.MemoryStore) {
	st := store.NewMemoryStore()
	return NewProgressService(st, testCatalog(), zerolog.Nop()), st
}

func passResult(quizID string) *model.QuizResult {
	return &model.QuizResult{
		ID: "r1", QuizID: quizID,
		Score: 1, TotalQuestions: 1, Percentage: 100, Passed: true,
		CompletedAt: time.Now().UTC(),
	}
}

func failResult(quizID string) *model.QuizResult {
	return &model.QuizResult{
		ID: "r2", QuizID: quizID,
		Score: 0, TotalQuestions: 1, Percentage: 0, Passed: false,
		CompletedAt: time.Now().UTC(),
	}
}

func TestFailedResultIsLoggedButDoesNotComplete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestProgress()

	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "overview", failResult("welcome-overview")); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	done, err := svc.SectionComplete(ctx, "u1", "welcome", "overview")
	if err != nil {
		t.Fatalf("section check failed: %v", err)
	}
	if done {
		t.Fatal("failed attempt must not complete the section")
	}

	results, err := svc.Results(ctx, "u1")
	if err != nil {
		t.Fatalf("results failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("failed attempt must still be logged, got %d results", len(results))
	}
}

func TestCompletionCascadesUpward(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestProgress()

	// Pass the gated section, view the quizless one: lesson "welcome" done.
	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "overview", passResult("welcome-overview")); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "navigation", nil); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	lessonDone, err := svc.IsLessonComplete(ctx, "u1", "welcome")
	if err != nil || !lessonDone {
		t.Fatalf("lesson must be complete: done=%v err=%v", lessonDone, err)
	}

	moduleDone, err := svc.IsModuleComplete(ctx, "u1", "crm-foundations")
	if err != nil {
		t.Fatalf("module check failed: %v", err)
	}
	if moduleDone {
		t.Fatal("module needs both lessons")
	}

	// Finish the second lesson; the module completes.
	if err := svc.RecordSectionOutcome(ctx, "u1", "accounts", "basics", nil); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	moduleDone, err = svc.IsModuleComplete(ctx, "u1", "crm-foundations")
	if err != nil || !moduleDone {
		t.Fatalf("module must be complete: done=%v err=%v", moduleDone, err)
	}
}

func TestCompletionIsMonotonic(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestProgress()

	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "overview", passResult("welcome-overview")); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	// A later failing attempt at the same section.
	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "overview", failResult("welcome-overview")); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	done, err := svc.SectionComplete(ctx, "u1", "welcome", "overview")
	if err != nil || !done {
		t.Fatalf("a failing retake must not revoke completion: done=%v err=%v", done, err)
	}

	results, _ := svc.Results(ctx, "u1")
	if len(results) != 2 {
		t.Fatalf("both attempts must be in the log, got %d", len(results))
	}
}

func TestPercentagesRound(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestProgress()

	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "navigation", nil); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	// One of two sections: 50%.
	pct, err := svc.LessonPercent(ctx, "u1", "welcome")
	if err != nil || pct != 50 {
		t.Fatalf("expected 50, got %d (err %v)", pct, err)
	}

	// No lessons done yet: 0%.
	mpct, err := svc.ModulePercent(ctx, "u1", "crm-foundations")
	if err != nil || mpct != 0 {
		t.Fatalf("expected 0, got %d (err %v)", mpct, err)
	}

	// Complete one of two lessons: module 50%, overall 1/2 lessons.
	if err := svc.RecordSectionOutcome(ctx, "u1", "accounts", "basics", nil); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	mpct, _ = svc.ModulePercent(ctx, "u1", "crm-foundations")
	if mpct != 50 {
		t.Fatalf("expected 50, got %d", mpct)
	}
	overall, err := svc.Overall(ctx, "u1")
	if err != nil {
		t.Fatalf("overall failed: %v", err)
	}
	if overall.CompletedLessons != 1 || overall.TotalLessons != 2 || overall.Percentage != 50 {
		t.Fatalf("unexpected overall: %+v", overall)
	}
}

func TestUnknownContentIsRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestProgress()

	if err := svc.RecordSectionOutcome(ctx, "u1", "no-such-lesson", "x", nil); !errors.Is(err, ErrUnknownContent) {
		t.Fatalf("expected ErrUnknownContent, got %v", err)
	}
	if err := svc.MarkLessonComplete(ctx, "u1", "no-such-module", "welcome"); !errors.Is(err, ErrUnknownContent) {
		t.Fatalf("expected ErrUnknownContent, got %v", err)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestProgress()

	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "overview", passResult("welcome-overview")); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "navigation", nil); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	bag, err := svc.Export(ctx, "u1")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(bag) == 0 {
		t.Fatal("export must not be empty")
	}

	if err := svc.ClearAll(ctx, "u1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if done, _ := svc.IsLessonComplete(ctx, "u1", "welcome"); done {
		t.Fatal("clear must wipe progress")
	}

	if err := svc.Import(ctx, "u1", bag); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	done, err := svc.IsLessonComplete(ctx, "u1", "welcome")
	if err != nil || !done {
		t.Fatalf("import must restore progress: done=%v err=%v", done, err)
	}
	results, _ := svc.Results(ctx, "u1")
	if len(results) != 1 {
		t.Fatalf("import must restore the result log, got %d", len(results))
	}
}

func TestImportRejectsInvalidPayloadAtomically(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestProgress()

	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "navigation", nil); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	bad := map[string]json.RawMessage{
		"lesson-progress-u1:welcome": json.RawMessage(`{"completed_sections":["overview"]}`),
		"account-table":              json.RawMessage(`[]`), // outside the progress prefixes
	}
	if err := svc.Import(ctx, "u1", bad); !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("expected ErrInvalidImport, got %v", err)
	}

	// Nothing was replaced: the pre-import record survives.
	done, err := svc.SectionComplete(ctx, "u1", "welcome", "navigation")
	if err != nil || !done {
		t.Fatalf("rejected import must leave progress untouched: done=%v err=%v", done, err)
	}

	// Another account's keys are invalid too.
	foreign := map[string]json.RawMessage{
		"lesson-progress-u2:welcome": json.RawMessage(`{"completed_sections":[]}`),
	}
	if err := svc.Import(ctx, "u1", foreign); !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("expected ErrInvalidImport for foreign keys, got %v", err)
	}

	// Malformed record shapes are invalid.
	garbled := map[string]json.RawMessage{
		"quiz-result-u1:welcome-overview": json.RawMessage(`{"not":"an array"}`),
	}
	if err := svc.Import(ctx, "u1", garbled); !errors.Is(err, ErrInvalidImport) {
		t.Fatalf("expected ErrInvalidImport for bad shape, got %v", err)
	}
}

func TestClearAllIsScopedToAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestProgress()

	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "navigation", nil); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := svc.RecordSectionOutcome(ctx, "u2", "welcome", "navigation", nil); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	if err := svc.ClearAll(ctx, "u1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	if done, _ := svc.SectionComplete(ctx, "u1", "welcome", "navigation"); done {
		t.Fatal("u1 progress must be gone")
	}
	done, err := svc.SectionComplete(ctx, "u2", "welcome", "navigation")
	if err != nil || !done {
		t.Fatalf("u2 progress must survive: done=%v err=%v", done, err)
	}
}

func TestCorruptResultLogIsSkipped(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestProgress()

	if err := svc.RecordSectionOutcome(ctx, "u1", "welcome", "overview", passResult("welcome-overview")); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	st.PutRaw("quiz-result-u1:accounts-basics", []byte("{{{"))

	results, err := svc.Results(ctx, "u1")
	if err != nil {
		t.Fatalf("results must skip corrupt records: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected the one healthy record, got %d", len(results))
	}
}
