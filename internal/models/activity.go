package models

import "time"

// Activity event types.
const (
	EventNotesGenerated      = "notes_generated"
	EventFlashcardsGenerated = "flashcards_generated"
	EventQuizGenerated       = "quiz_generated"
	EventQuizAttempt         = "quiz_attempt"
	EventFlashcardReview     = "flashcard_review"
	EventDataImport          = "data_import"
)

// ActivityRecord is one entry in the append-only session activity log.
// Outcome carries the event's metric (attempt score, card count) when one
// exists.
type ActivityRecord struct {
	EventType string    `json:"event_type"`
	Subject   string    `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
	Outcome   *float64  `json:"outcome,omitempty"`
}
