package content

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalogIsConsistent(t *testing.T) {
	c := Default()

	if len(c.Modules) == 0 {
		t.Fatal("default catalog must not be empty")
	}
	if c.TotalLessons() == 0 {
		t.Fatal("default catalog must have lessons")
	}

	// Every quiz reference must resolve, and every quiz must have questions.
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			if len(l.Sections) == 0 {
				t.Fatalf("lesson %s has no sections", l.ID)
			}
			for _, s := range l.Sections {
				if s.QuizID == "" {
					continue
				}
				q, ok := c.Quiz(s.QuizID)
				if !ok {
					t.Fatalf("section %s references unknown quiz %s", s.ID, s.QuizID)
				}
				if len(q.Questions) == 0 {
					t.Fatalf("quiz %s has no questions", q.ID)
				}
				for _, question := range q.Questions {
					if question.CorrectIndex < 0 || question.CorrectIndex >= len(question.Options) {
						t.Fatalf("quiz %s has an out-of-range correct index", q.ID)
					}
				}
			}
		}
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(c.Modules) == 0 {
		t.Fatal("expected the compiled-in catalog")
	}
}

func TestLoadFromFile(t *testing.T) {
	raw := `{
		"modules": [
			{"id": "m1", "title": "M1", "lessons": [
				{"id": "l1", "title": "L1", "sections": [
					{"id": "s1", "title": "S1", "quiz_id": "q1"}
				]}
			]}
		],
		"quizzes": {
			"q1": {"id": "q1", "questions": [
				{"prompt": "p", "kind": "single-choice", "options": ["a","b"], "correct_index": 1}
			]}
		}
	}`
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	def, ok := c.QuizForSection("l1", "s1")
	if !ok {
		t.Fatal("expected the gating quiz to resolve")
	}
	if def.ID != "q1" || len(def.Questions) != 1 {
		t.Fatalf("unexpected quiz: %+v", def)
	}
}

func TestLoadRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed catalog must fail to load")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing catalog file must fail to load")
	}
}

func TestQuizForSectionLookups(t *testing.T) {
	c := Default()

	if _, ok := c.QuizForSection("no-such-lesson", "overview"); ok {
		t.Fatal("unknown lesson must not resolve a quiz")
	}

	lesson, module, ok := c.Lesson(c.Modules[0].Lessons[0].ID)
	if !ok {
		t.Fatal("lesson lookup failed")
	}
	if module.ID != c.Modules[0].ID {
		t.Fatalf("lesson resolved to wrong module %s", module.ID)
	}
	if c.SectionCount(lesson.ID) != len(lesson.Sections) {
		t.Fatal("section count mismatch")
	}
	if c.LessonCount("no-such-module") != 0 {
		t.Fatal("unknown module must count zero lessons")
	}
}
