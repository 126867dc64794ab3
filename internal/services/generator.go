package services

import (
	"context"
	"strings"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/store"
)

const excerptLen = 200

// Generator turns raw input text into notes, flashcards and quizzes via
// the remote collaborator. Each generation is a single synchronous
// transaction: build prompt, call, parse, then one store write. A failure
// at any point leaves the store untouched.
type Generator struct {
	llm TextGenerator
}

func NewGenerator(llm TextGenerator) *Generator {
	return &Generator{llm: llm}
}

func (g *Generator) GenerateNotes(ctx context.Context, st *store.Store, req models.GenerateNotesRequest) (models.Note, error) {
	input := preprocessInput(req.Input)
	if input == "" {
		return models.Note{}, &ValidationError{Fields: map[string]string{"input": "input text is required"}}
	}
	if req.Category == "" {
		req.Category = "General"
	}

	body, err := g.llm.Generate(ctx, buildNotesPrompt(req, input))
	if err != nil {
		return models.Note{}, &GenerationError{Message: "Note generation failed. Please try again.", Err: err}
	}
	body = stripCodeFence(body)
	if body == "" {
		return models.Note{}, &GenerationError{Message: "Note generation failed. Please try again.", Err: ErrUnparsable}
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = excerpt(input, 60)
	}

	note := st.AddNote(models.Note{
		Title:    title,
		Excerpt:  excerpt(input, excerptLen),
		Body:     body,
		Category: req.Category,
	})
	st.AppendActivity(models.EventNotesGenerated, req.Category, nil)

	return note, nil
}

func (g *Generator) GenerateFlashcards(ctx context.Context, st *store.Store, req models.GenerateFlashcardsRequest) ([]models.Flashcard, error) {
	input := preprocessInput(req.Input)
	if input == "" {
		return nil, &ValidationError{Fields: map[string]string{"input": "input text is required"}}
	}
	if req.NumCards <= 0 {
		return nil, &ValidationError{Fields: map[string]string{"num_cards": "num_cards must be greater than 0"}}
	}
	if req.Category == "" {
		req.Category = "General"
	}
	if normalizeDifficulty(req.Difficulty) == "" {
		req.Difficulty = "medium"
	} else {
		req.Difficulty = normalizeDifficulty(req.Difficulty)
	}

	raw, err := g.llm.Generate(ctx, buildFlashcardPrompt(req, input))
	if err != nil {
		return nil, &GenerationError{Message: "Flashcard generation failed. Please try again.", Err: err}
	}

	cards, err := parseFlashcards(raw, req.NumCards, req.Difficulty, req.Category)
	if err != nil {
		return nil, &GenerationError{Message: "The generated flashcards could not be read. Please try again.", Err: err}
	}

	created := st.AddCards(cards)
	count := float64(len(created))
	st.AppendActivity(models.EventFlashcardsGenerated, req.Category, &count)

	return created, nil
}

func (g *Generator) GenerateQuiz(ctx context.Context, st *store.Store, req models.GenerateQuizRequest) (models.Quiz, error) {
	input := preprocessInput(req.Input)
	if input == "" {
		return models.Quiz{}, &ValidationError{Fields: map[string]string{"input": "input text is required"}}
	}
	if req.NumQuestions <= 0 {
		return models.Quiz{}, &ValidationError{Fields: map[string]string{"num_questions": "num_questions must be greater than 0"}}
	}
	if req.Category == "" {
		req.Category = "General"
	}
	if req.QuestionType == "" {
		req.QuestionType = "mixed"
	}
	if req.QuestionType != "mixed" && normalizeQuestionType(req.QuestionType) == "" {
		return models.Quiz{}, &ValidationError{Fields: map[string]string{"question_type": "unknown question type"}}
	}
	if normalizeDifficulty(req.Difficulty) == "" {
		req.Difficulty = "medium"
	} else {
		req.Difficulty = normalizeDifficulty(req.Difficulty)
	}

	raw, err := g.llm.Generate(ctx, buildQuizPrompt(req, input))
	if err != nil {
		return models.Quiz{}, &GenerationError{Message: "Quiz generation failed. Please try again.", Err: err}
	}

	title, questions, err := parseQuiz(raw, req.QuestionType)
	if err != nil {
		return models.Quiz{}, &GenerationError{Message: "The generated quiz could not be read. Please try again.", Err: err}
	}
	if len(questions) > req.NumQuestions {
		questions = questions[:req.NumQuestions]
	}

	if strings.TrimSpace(req.Title) != "" {
		title = strings.TrimSpace(req.Title)
	}

	quiz := st.AddQuiz(models.Quiz{
		Title:      title,
		Category:   req.Category,
		Difficulty: req.Difficulty,
		Questions:  questions,
	})
	st.AppendActivity(models.EventQuizGenerated, req.Category, nil)

	return quiz, nil
}

func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	truncated := truncateBytes(s, max)
	if i := strings.LastIndex(truncated, " "); i > 0 {
		truncated = truncated[:i]
	}
	return truncated + "..."
}
