package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"studyhall-backend/internal/models"
)

// The collaborator promises JSON but drifts: code fences, prose preambles,
// an object where an array was asked for. These parsers tolerate the drift
// and return a typed result or an error; they never panic into handlers.

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// sliceJSON cuts the outermost open..close span out of s, for replies that
// wrap their JSON in prose.
func sliceJSON(s string, open, close byte) (string, bool) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start >= 0 && end > start {
		return s[start : end+1], true
	}
	return "", false
}

func unmarshalLenient(raw string, v interface{}, open, close byte) error {
	text := stripCodeFence(raw)
	if err := json.Unmarshal([]byte(text), v); err == nil {
		return nil
	}
	if sliced, ok := sliceJSON(text, open, close); ok {
		if err := json.Unmarshal([]byte(sliced), v); err == nil {
			return nil
		}
	}
	return ErrUnparsable
}

// parseFlashcards expects exactly want cards; cards with an empty front or
// back are dropped, and a short result fails the whole generation so the
// caller writes nothing.
func parseFlashcards(raw string, want int, defaultDifficulty, defaultCategory string) ([]models.Flashcard, error) {
	var parsed []struct {
		Front      string `json:"front"`
		Back       string `json:"back"`
		Category   string `json:"category"`
		Difficulty string `json:"difficulty"`
	}
	if err := unmarshalLenient(raw, &parsed, '[', ']'); err != nil {
		return nil, err
	}

	var cards []models.Flashcard
	for _, c := range parsed {
		front := strings.TrimSpace(c.Front)
		back := strings.TrimSpace(c.Back)
		if front == "" || back == "" {
			continue
		}

		category := strings.TrimSpace(c.Category)
		if category == "" {
			category = defaultCategory
		}
		difficulty := normalizeDifficulty(c.Difficulty)
		if difficulty == "" {
			difficulty = defaultDifficulty
		}

		cards = append(cards, models.Flashcard{
			Front:      front,
			Back:       back,
			Category:   category,
			Difficulty: difficulty,
		})
	}

	if len(cards) == 0 {
		return nil, ErrUnparsable
	}
	if len(cards) > want {
		cards = cards[:want]
	}
	if len(cards) < want {
		return nil, fmt.Errorf("collaborator returned %d usable cards, wanted %d", len(cards), want)
	}
	return cards, nil
}

func normalizeDifficulty(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy", "basic":
		return "easy"
	case "medium", "intermediate":
		return "medium"
	case "hard", "advanced":
		return "hard"
	}
	return ""
}

type quizReply struct {
	Title     string                `json:"title"`
	Questions []models.QuizQuestion `json:"questions"`
}

// parseQuiz accepts an object with a questions list or a bare question
// array, repairs what it can per question, and drops the rest.
func parseQuiz(raw string, requestedType string) (string, []models.QuizQuestion, error) {
	text := stripCodeFence(raw)

	var reply quizReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil || len(reply.Questions) == 0 {
		// Bare array fallback
		var questions []models.QuizQuestion
		if arrErr := unmarshalLenient(text, &questions, '[', ']'); arrErr == nil {
			reply = quizReply{Questions: questions}
		} else if sliced, ok := sliceJSON(text, '{', '}'); ok {
			if objErr := json.Unmarshal([]byte(sliced), &reply); objErr != nil {
				return "", nil, ErrUnparsable
			}
		}
	}

	var valid []models.QuizQuestion
	for _, q := range reply.Questions {
		q, ok := repairQuestion(q, requestedType)
		if !ok {
			continue
		}
		valid = append(valid, q)
	}

	if len(valid) == 0 {
		return "", nil, ErrUnparsable
	}

	title := strings.TrimSpace(reply.Title)
	if title == "" {
		title = "Study Quiz"
	}
	return title, valid, nil
}

func repairQuestion(q models.QuizQuestion, requestedType string) (models.QuizQuestion, bool) {
	q.Prompt = strings.TrimSpace(q.Prompt)
	q.CorrectAnswer = strings.TrimSpace(q.CorrectAnswer)
	if q.Prompt == "" || q.CorrectAnswer == "" {
		return q, false
	}

	q.Type = normalizeQuestionType(q.Type)
	if q.Type == "" {
		if requestedType != "" && requestedType != "mixed" {
			q.Type = requestedType
		} else {
			q.Type = models.QuestionShortAnswer
		}
	}

	switch q.Type {
	case models.QuestionMultipleChoice:
		if len(q.Options) < 2 {
			return q, false
		}
		// A letter answer refers to an option by position
		if idx := letterIndex(q.CorrectAnswer); idx >= 0 && idx < len(q.Options) {
			q.CorrectAnswer = q.Options[idx]
		}
		if !containsFold(q.Options, q.CorrectAnswer) {
			return q, false
		}
	case models.QuestionTrueFalse:
		q.Options = []string{"True", "False"}
		switch strings.ToLower(q.CorrectAnswer) {
		case "true", "t":
			q.CorrectAnswer = "True"
		case "false", "f":
			q.CorrectAnswer = "False"
		default:
			return q, false
		}
	default:
		q.Options = nil
	}

	return q, true
}

func normalizeQuestionType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "multiple_choice", "multiple choice", "mc":
		return models.QuestionMultipleChoice
	case "true_false", "true/false", "tf":
		return models.QuestionTrueFalse
	case "short_answer", "short answer":
		return models.QuestionShortAnswer
	case "fill_in_blank", "fill_blank", "fill in the blank", "fill-in-blank":
		return models.QuestionFillInBlank
	}
	return ""
}

// letterIndex maps "A"/"B)"/"c." style answers to an option index, -1 if
// the answer is not a single letter reference.
func letterIndex(s string) int {
	s = strings.TrimRight(strings.TrimSpace(s), ".)")
	if len(s) != 1 {
		return -1
	}
	c := s[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	case c >= 'a' && c <= 'z':
		return int(c - 'a')
	}
	return -1
}

func containsFold(options []string, answer string) bool {
	for _, o := range options {
		if strings.EqualFold(strings.TrimSpace(o), answer) {
			return true
		}
	}
	return false
}

// parseGrade extracts a 0-100 score plus feedback, clamping drifted scores
// into range. A missing score is unparsable, never a fabricated zero.
func parseGrade(raw string) (float64, string, error) {
	var parsed struct {
		Score    *float64 `json:"score"`
		Feedback string   `json:"feedback"`
	}
	if err := unmarshalLenient(raw, &parsed, '{', '}'); err != nil {
		return 0, "", err
	}
	if parsed.Score == nil {
		return 0, "", ErrUnparsable
	}

	score := *parsed.Score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, strings.TrimSpace(parsed.Feedback), nil
}
