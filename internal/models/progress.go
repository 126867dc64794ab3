package models

// Trend labels for SubjectStats.
const (
	TrendImproving    = "improving"
	TrendDeclining    = "declining"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient_data"
)

type ProgressOverview struct {
	TotalNotes      int      `json:"total_notes"`
	TotalFlashcards int      `json:"total_flashcards"`
	TotalQuizzes    int      `json:"total_quizzes"`
	TotalAttempts   int      `json:"total_attempts"`
	TotalReviews    int      `json:"total_reviews"`
	AverageScore    *float64 `json:"average_score"`
	StreakDays      int      `json:"streak_days"`
}

// SubjectStats reports per-subject performance. HasData is false when the
// subject has no graded attempts; the numeric fields are then meaningless
// and must not be read as a real zero score.
type SubjectStats struct {
	Subject      string   `json:"subject"`
	HasData      bool     `json:"has_data"`
	Attempts     int      `json:"attempts"`
	AverageScore float64  `json:"average_score"`
	CardPassRate *float64 `json:"card_pass_rate"`
	Trend        string   `json:"trend"`
}

type TrendPoint struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	AverageScore float64 `json:"average_score"`
	Attempts     int     `json:"attempts"`
}

type WeakSubject struct {
	Subject        string  `json:"subject"`
	RecentAccuracy float64 `json:"recent_accuracy"`
	Attempts       int     `json:"attempts"`
}
