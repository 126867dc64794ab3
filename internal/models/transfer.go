package models

import "time"

// BackupVersion is written into every exported backup file.
const BackupVersion = "2.0"

// Backup is the full-session export format. Import replaces the session's
// data with the backup contents.
type Backup struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Notes      []Note           `json:"notes"`
	Flashcards []Flashcard      `json:"flashcards"`
	Quizzes    []Quiz           `json:"quizzes"`
	Attempts   []QuizAttempt    `json:"attempts"`
	Activity   []ActivityRecord `json:"activity"`
}
