package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"studyhall-backend/internal/models"
)

const maxInputChars = 20000

var whitespacePattern = regexp.MustCompile(`\s+`)

// preprocessInput collapses whitespace and bounds the content handed to the
// collaborator.
func preprocessInput(s string) string {
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return truncateBytes(s, maxInputChars)
}

// truncateBytes cuts s to at most max bytes without splitting a rune.
func truncateBytes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

func buildNotesPrompt(req models.GenerateNotesRequest, input string) string {
	var b strings.Builder

	b.WriteString("You are an expert educational assistant that creates clear, comprehensive, well-structured study notes.\n\n")

	switch req.DetailLevel {
	case "basic":
		b.WriteString("Detail: Create concise, easy-to-understand notes suitable for beginners. Use simple language and focus on the most important concepts.\n\n")
	case "advanced":
		b.WriteString("Detail: Create detailed, thorough notes with in-depth explanations, examples, and connections to related concepts.\n\n")
	default:
		b.WriteString("Detail: Create comprehensive notes with moderate detail. Include examples and explanations that help reinforce understanding.\n\n")
	}

	switch req.NoteType {
	case "detailed_explanation":
		b.WriteString("Create a detailed explanation of the content below. Include an introduction, step-by-step explanations where applicable, examples for key concepts, important definitions, and a closing summary.\n")
	case "key_points":
		b.WriteString("Extract and organize the key points from the content below. Organize main concepts hierarchically, pull out essential facts and figures, and surface relationships between concepts.\n")
	case "study_guide":
		b.WriteString("Create a study guide from the content below. Cover the core concepts, likely exam topics, common pitfalls, and a short self-check question list at the end.\n")
	default: // summary
		b.WriteString("Create a well-structured summary of the content below. Use clear headings, bullet points where appropriate, and flow from general to specific concepts.\n")
	}

	b.WriteString("Return plain structured text. Do not wrap the output in code fences.\n")
	b.WriteString("\n---CONTENT---\n")
	b.WriteString(input)
	b.WriteString("\n---END---\n")

	return b.String()
}

func buildFlashcardPrompt(req models.GenerateFlashcardsRequest, input string) string {
	var b strings.Builder

	b.WriteString("You are an expert flashcard creator. Generate high-quality flashcards from the content below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON array. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(fmt.Sprintf("Generate exactly %d flashcards.\n", req.NumCards))
	b.WriteString(fmt.Sprintf("Difficulty: %s\n", req.Difficulty))

	b.WriteString(`
Rules:
- Front is a clear, concise question or term
- Back is a complete, self-contained answer or definition
- No two cards may test the same concept
- Cover different aspects of the material

JSON schema per card:
{"front": "string", "back": "string", "category": "string", "difficulty": "easy"|"medium"|"hard"}
`)

	b.WriteString("\n---CONTENT---\n")
	b.WriteString(input)
	b.WriteString("\n---END---\n")

	return b.String()
}

func buildQuizPrompt(req models.GenerateQuizRequest, input string) string {
	var b strings.Builder

	b.WriteString("You are an expert educational assessor. Generate quiz questions based on the content below.\n\n")
	b.WriteString("CRITICAL: Return ONLY a single valid JSON object. No preamble, no markdown, no backticks.\n\n")
	b.WriteString(fmt.Sprintf("Generate exactly %d questions.\n", req.NumQuestions))

	switch req.QuestionType {
	case models.QuestionMultipleChoice:
		b.WriteString("All questions must be multiple choice with exactly 4 options and exactly one correct answer.\n")
	case models.QuestionTrueFalse:
		b.WriteString(`All questions must be true/false; correct_answer is "True" or "False".` + "\n")
	case models.QuestionShortAnswer:
		b.WriteString("All questions must be short answer with a clear canonical answer.\n")
	case models.QuestionFillInBlank:
		b.WriteString("All questions must be fill-in-the-blank; mark the blank in the prompt with ____ and give the word or phrase that fills it as correct_answer.\n")
	default:
		b.WriteString("Mix multiple choice, true/false, short answer and fill-in-the-blank questions.\n")
	}

	b.WriteString(fmt.Sprintf("Difficulty: %s\n", req.Difficulty))
	switch req.Difficulty {
	case "easy":
		b.WriteString("Easy = direct recall from text.\n")
	case "hard":
		b.WriteString("Hard = analysis, synthesis, or inference beyond what is explicitly stated.\n")
	default:
		b.WriteString("Medium = application of concepts.\n")
	}

	b.WriteString(`
JSON schema:
{"title": "string", "questions": [{"prompt": "string", "type": "multiple_choice"|"true_false"|"short_answer"|"fill_in_blank", "options": ["string"], "correct_answer": "string", "explanation": "string"}]}

For multiple_choice: exactly 4 options, correct_answer is the full text of the correct option.
For true_false: options ["True", "False"].
For short_answer and fill_in_blank: omit options.
`)

	b.WriteString("\n---CONTENT---\n")
	b.WriteString(input)
	b.WriteString("\n---END---\n")

	return b.String()
}

func buildGradingPrompt(question models.QuizQuestion, answer string) string {
	var b strings.Builder

	b.WriteString("You are an expert grader. Grade the student's answer against the canonical answer.\n")
	b.WriteString("Award full credit for answers equivalent in meaning, partial credit for partially correct answers.\n\n")
	b.WriteString("CRITICAL: Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n")
	b.WriteString(`JSON schema: {"score": 0-100, "feedback": "one or two sentences for the student"}` + "\n\n")

	b.WriteString("Question: " + question.Prompt + "\n")
	b.WriteString("Canonical answer: " + question.CorrectAnswer + "\n")
	if question.Explanation != "" {
		b.WriteString("Rubric notes: " + question.Explanation + "\n")
	}
	b.WriteString("Student answer: " + answer + "\n")

	return b.String()
}
