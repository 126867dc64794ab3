package models

import (
	"time"

	"github.com/google/uuid"
)

// Note is immutable once created; it is only ever removed by an explicit
// delete from the user.
type Note struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Excerpt   string    `json:"source_excerpt"`
	Body      string    `json:"body"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

type GenerateNotesRequest struct {
	Input       string `json:"input"`
	Title       string `json:"title"`
	NoteType    string `json:"note_type"`    // "summary" | "detailed_explanation" | "key_points" | "study_guide"
	DetailLevel string `json:"detail_level"` // "basic" | "intermediate" | "advanced"
	Category    string `json:"category"`
}
