package config

import (
	"fmt"
)

// Record-store key prefixes. Progress export/import and per-account resets are
// scoped by these three prefixes, so their exact spelling is contractual.
const (
	LessonProgressPrefix = "lesson-progress-"
	ModuleProgressPrefix = "module-progress-"
	QuizResultPrefix     = "quiz-result-"
)

type StoreKeyStruct struct{}

func NewStoreKeyStruct() *StoreKeyStruct {
	return &StoreKeyStruct{}
}

// AccountTableKey returns the key holding the full account table.
func (r *StoreKeyStruct) AccountTableKey() string {
	return "account-table"
}

// AdminRosterKey returns the key holding the pre-provisioned admin roster.
func (r *StoreKeyStruct) AdminRosterKey() string {
	return "admin-roster"
}

// SessionKey returns the session slot key for an account. Sessions live under
// their own key family so clearing one never touches account records.
func (r *StoreKeyStruct) SessionKey(accountID string) string {
	return fmt.Sprintf("session:%s", accountID)
}

// ProgressMetaKey returns the key for an account's progress metadata
// (start date, last activity).
func (r *StoreKeyStruct) ProgressMetaKey(accountID string) string {
	return fmt.Sprintf("progress-meta:%s", accountID)
}

// AccountProgressPrefix returns the prefix covering one account's keys within
// a progress key family.
func (r *StoreKeyStruct) AccountProgressPrefix(family, accountID string) string {
	return fmt.Sprintf("%s%s:", family, accountID)
}

// LessonProgressKey returns the key for an account's completed sections of a lesson.
func (r *StoreKeyStruct) LessonProgressKey(accountID, lessonID string) string {
	return fmt.Sprintf("%s%s:%s", LessonProgressPrefix, accountID, lessonID)
}

// ModuleProgressKey returns the key for an account's completed lessons of a module.
func (r *StoreKeyStruct) ModuleProgressKey(accountID, moduleID string) string {
	return fmt.Sprintf("%s%s:%s", ModuleProgressPrefix, accountID, moduleID)
}

// QuizResultKey returns the key for an account's append-only result log of one
// lesson section.
func (r *StoreKeyStruct) QuizResultKey(accountID, lessonID, sectionID string) string {
	return fmt.Sprintf("%s%s:%s-%s", QuizResultPrefix, accountID, lessonID, sectionID)
}

var StoreKey = NewStoreKeyStruct()
