// Package content loads the read-only course catalog: modules, lessons,
// sections and the quiz definitions gating them. The engine only consumes
// this data; authoring happens elsewhere.
package content

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lumenlms/lumen-backend/internal/model"
)

// Section is the smallest content unit. A section with a QuizID is gated by
// that quiz; one without is completed by viewing alone.
type Section struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	QuizID string `json:"quiz_id,omitempty"`
}

// Lesson is an ordered collection of sections.
type Lesson struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Module is an ordered collection of lessons.
type Module struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// Catalog is the full course structure plus quiz definitions keyed by quiz ID.
type Catalog struct {
	Modules []Module
	quizzes map[string]model.QuizDefinition
}

type catalogFile struct {
	Modules []Module                        `json:"modules"`
	Quizzes map[string]model.QuizDefinition `json:"quizzes"`
}

// Load reads a catalog from the JSON file at path. An empty path returns the
// compiled-in default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var cf catalogFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return newCatalog(cf.Modules, cf.Quizzes), nil
}

// FromParts builds a catalog from already-parsed modules and quizzes. Tests
// and embedders use it; file loading goes through Load.
func FromParts(modules []Module, quizzes map[string]model.QuizDefinition) *Catalog {
	return newCatalog(modules, quizzes)
}

func newCatalog(modules []Module, quizzes map[string]model.QuizDefinition) *Catalog {
	if quizzes == nil {
		quizzes = make(map[string]model.QuizDefinition)
	}
	return &Catalog{Modules: modules, quizzes: quizzes}
}

// Module returns the module with the given ID.
func (c *Catalog) Module(id string) (Module, bool) {
	for _, m := range c.Modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// Lesson returns the lesson with the given ID and the module owning it.
func (c *Catalog) Lesson(id string) (Lesson, Module, bool) {
	for _, m := range c.Modules {
		for _, l := range m.Lessons {
			if l.ID == id {
				return l, m, true
			}
		}
	}
	return Lesson{}, Module{}, false
}

// LessonCount returns the configured number of lessons in a module; zero for
// unknown modules.
func (c *Catalog) LessonCount(moduleID string) int {
	m, ok := c.Module(moduleID)
	if !ok {
		return 0
	}
	return len(m.Lessons)
}

// SectionCount returns the number of sections in a lesson; zero for unknown
// lessons.
func (c *Catalog) SectionCount(lessonID string) int {
	l, _, ok := c.Lesson(lessonID)
	if !ok {
		return 0
	}
	return len(l.Sections)
}

// Quiz returns the quiz definition with the given ID.
func (c *Catalog) Quiz(id string) (model.QuizDefinition, bool) {
	q, ok := c.quizzes[id]
	return q, ok
}

// QuizForSection returns the quiz gating a lesson section, if any.
func (c *Catalog) QuizForSection(lessonID, sectionID string) (model.QuizDefinition, bool) {
	l, _, ok := c.Lesson(lessonID)
	if !ok {
		return model.QuizDefinition{}, false
	}
	for _, s := range l.Sections {
		if s.ID == sectionID && s.QuizID != "" {
			return c.Quiz(s.QuizID)
		}
	}
	return model.QuizDefinition{}, false
}

// TotalLessons returns the lesson count across all modules.
func (c *Catalog) TotalLessons() int {
	total := 0
	for _, m := range c.Modules {
		total += len(m.Lessons)
	}
	return total
}
