package model

import (
	"time"

	"github.com/lumenlms/lumen-backend/internal/store"
)

// LessonProgress is the persisted record of one account's completed sections
// within a lesson.
type LessonProgress struct {
	CompletedSections store.StringSet `json:"completed_sections"`
}

// ModuleProgress is the persisted record of one account's completed lessons
// within a module. Completed is a cached flag recomputed against catalog
// metadata on every mutation; the lesson set is authoritative.
type ModuleProgress struct {
	CompletedLessons store.StringSet `json:"completed_lessons"`
	Completed        bool            `json:"completed"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
}

// ProgressMeta tracks per-account activity timestamps. Initialized at signup.
type ProgressMeta struct {
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
}

// OverallProgress summarizes an account's completion across the catalog.
type OverallProgress struct {
	TotalLessons     int `json:"total_lessons"`
	CompletedLessons int `json:"completed_lessons"`
	Percentage       int `json:"percentage"`
}
