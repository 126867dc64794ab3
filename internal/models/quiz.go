package models

import (
	"time"

	"github.com/google/uuid"
)

// Question types understood by the grader.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
	QuestionShortAnswer    = "short_answer"
	QuestionFillInBlank    = "fill_in_blank"
)

type QuizQuestion struct {
	Prompt        string   `json:"prompt"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

type Quiz struct {
	ID         uuid.UUID      `json:"id"`
	Title      string         `json:"title"`
	Category   string         `json:"category"`
	Difficulty string         `json:"difficulty"`
	Questions  []QuizQuestion `json:"questions"`
	CreatedAt  time.Time      `json:"created_at"`
}

// QuestionResult is the graded outcome for a single submitted answer.
type QuestionResult struct {
	Score    float64 `json:"score"` // 0-100
	Feedback string  `json:"feedback,omitempty"`
}

// QuizAttempt records a submission against a quiz. Score is nil when
// grading failed; Feedback then explains why.
type QuizAttempt struct {
	ID        uuid.UUID        `json:"id"`
	QuizID    uuid.UUID        `json:"quiz_id"`
	Answers   []string         `json:"answers"`
	Results   []QuestionResult `json:"results,omitempty"`
	Score     *float64         `json:"score"`
	Feedback  string           `json:"feedback,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type GenerateQuizRequest struct {
	Input        string `json:"input"`
	Title        string `json:"title"`
	NumQuestions int    `json:"num_questions"`
	Difficulty   string `json:"difficulty"`
	QuestionType string `json:"question_type"` // question type constant or "mixed"
	Category     string `json:"category"`
}

type SubmitAttemptRequest struct {
	Answers []string `json:"answers"`
}
