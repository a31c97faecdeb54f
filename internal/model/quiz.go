package model

import "time"

// QuestionKind enumerates supported question types. True/false questions are
// modeled as single-choice with two options.
type QuestionKind string

const (
	KindSingleChoice QuestionKind = "single-choice"
)

// Question is one single-choice question of a quiz definition.
type Question struct {
	Prompt       string       `json:"prompt"`
	Kind         QuestionKind `json:"kind"`
	Options      []string     `json:"options"`
	CorrectIndex int          `json:"correct_index"`
}

// QuizDefinition is read-only content: the questions gating one lesson section.
type QuizDefinition struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	SectionLabel string     `json:"section_label"`
	Questions    []Question `json:"questions"`
}

// QuizResult is the persisted outcome of a finished attempt. Results are
// immutable and appended to a per-account, per-section log; re-attempts add
// new records and never overwrite old ones.
type QuizResult struct {
	ID             string      `json:"id"`
	AccountID      string      `json:"account_id"`
	QuizID         string      `json:"quiz_id"`
	LessonID       string      `json:"lesson_id"`
	SectionID      string      `json:"section_id"`
	Score          int         `json:"score"`
	TotalQuestions int         `json:"total_questions"`
	Percentage     int         `json:"percentage"`
	Passed         bool        `json:"passed"`
	Answers        map[int]int `json:"answers"`
	CompletedAt    time.Time   `json:"completed_at"`
}
