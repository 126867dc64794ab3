package models

import (
	"time"

	"github.com/google/uuid"
)

// ReviewOutcome is one pass/fail self-assessment during a study session.
type ReviewOutcome struct {
	Passed     bool      `json:"passed"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

type Flashcard struct {
	ID             uuid.UUID       `json:"id"`
	Front          string          `json:"front"`
	Back           string          `json:"back"`
	Category       string          `json:"category"`
	Difficulty     string          `json:"difficulty"` // "easy" | "medium" | "hard"
	CreatedAt      time.Time       `json:"created_at"`
	LastReviewedAt *time.Time      `json:"last_reviewed_at"`
	ReviewHistory  []ReviewOutcome `json:"review_history"`
}

type GenerateFlashcardsRequest struct {
	Input      string `json:"input"`
	NumCards   int    `json:"num_cards"`
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
}

type ReviewCardRequest struct {
	Passed bool `json:"passed"`
}
