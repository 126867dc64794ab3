package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/store"
)

// Grader scores submitted quiz attempts. Multiple choice and true/false
// answers are checked locally against the canonical key; short answer and
// fill-in-the-blank go to the collaborator with the rubric. When grading
// fails the attempt is still recorded, with a nil score and a note saying
// why, and the caller receives a GradingError.
type Grader struct {
	llm TextGenerator
}

func NewGrader(llm TextGenerator) *Grader {
	return &Grader{llm: llm}
}

func (g *Grader) Grade(ctx context.Context, st *store.Store, quizID uuid.UUID, answers []string) (models.QuizAttempt, error) {
	quiz, err := st.GetQuiz(quizID)
	if err != nil {
		return models.QuizAttempt{}, err
	}
	if len(quiz.Questions) == 0 {
		return models.QuizAttempt{}, &ValidationError{Fields: map[string]string{
			"quiz_id": "quiz has no questions",
		}}
	}
	if len(answers) != len(quiz.Questions) {
		return models.QuizAttempt{}, &ValidationError{Fields: map[string]string{
			"answers": fmt.Sprintf("expected %d answers, got %d", len(quiz.Questions), len(answers)),
		}}
	}

	results := make([]models.QuestionResult, len(quiz.Questions))
	var total float64
	var gradeErr error

	for i, q := range quiz.Questions {
		answer := strings.TrimSpace(answers[i])

		switch q.Type {
		case models.QuestionMultipleChoice, models.QuestionTrueFalse:
			results[i] = gradeObjective(q, answer)
		default:
			results[i], gradeErr = g.gradeFree(ctx, q, answer)
		}
		if gradeErr != nil {
			break
		}
		total += results[i].Score
	}

	if gradeErr != nil {
		// Record the attempt anyway so the submission is never silently
		// dropped; the nil score marks it as ungraded.
		attempt := models.QuizAttempt{
			QuizID:   quizID,
			Answers:  answers,
			Score:    nil,
			Feedback: "Automatic grading failed; your answers were saved. Retry grading later or review them against the answer key.",
		}
		if attempt, err = st.AddAttempt(attempt); err != nil {
			return models.QuizAttempt{}, err
		}
		return attempt, &GradingError{Message: "Grading failed. Your answers were saved.", Err: gradeErr}
	}

	score := total / float64(len(quiz.Questions))
	attempt := models.QuizAttempt{
		QuizID:  quizID,
		Answers: answers,
		Results: results,
		Score:   &score,
	}
	attempt, err = st.AddAttempt(attempt)
	if err != nil {
		return models.QuizAttempt{}, err
	}
	return attempt, nil
}

// gradeObjective awards full marks for an exact match against the
// canonical key (case-insensitive; a bare letter selects the option for
// multiple choice).
func gradeObjective(q models.QuizQuestion, answer string) models.QuestionResult {
	key := answer
	if q.Type == models.QuestionMultipleChoice {
		if idx := letterIndex(answer); idx >= 0 && idx < len(q.Options) {
			key = q.Options[idx]
		}
	}

	if strings.EqualFold(strings.TrimSpace(key), q.CorrectAnswer) {
		return models.QuestionResult{Score: 100}
	}

	feedback := "Correct answer: " + q.CorrectAnswer
	if q.Explanation != "" {
		feedback += ". " + q.Explanation
	}
	return models.QuestionResult{Score: 0, Feedback: feedback}
}

func (g *Grader) gradeFree(ctx context.Context, q models.QuizQuestion, answer string) (models.QuestionResult, error) {
	// An exact match needs no collaborator round trip.
	if strings.EqualFold(answer, q.CorrectAnswer) {
		return models.QuestionResult{Score: 100}, nil
	}
	if answer == "" {
		return models.QuestionResult{Score: 0, Feedback: "No answer given. Correct answer: " + q.CorrectAnswer}, nil
	}

	raw, err := g.llm.Generate(ctx, buildGradingPrompt(q, answer))
	if err != nil {
		return models.QuestionResult{}, err
	}

	score, feedback, err := parseGrade(raw)
	if err != nil {
		return models.QuestionResult{}, err
	}
	return models.QuestionResult{Score: score, Feedback: feedback}, nil
}
