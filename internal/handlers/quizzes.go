package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/services"
	"studyhall-backend/internal/store"
)

type QuizHandler struct {
	registry  *store.Registry
	generator *services.Generator
	grader    *services.Grader
}

func NewQuizHandler(registry *store.Registry, generator *services.Generator, grader *services.Grader) *QuizHandler {
	return &QuizHandler{
		registry:  registry,
		generator: generator,
		grader:    grader,
	}
}

func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	quiz, err := h.generator.GenerateQuiz(r.Context(), sessionStore(h.registry, r), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, quiz)
}

func (h *QuizHandler) List(w http.ResponseWriter, r *http.Request) {
	quizzes := sessionStore(h.registry, r).ListQuizzes()
	writeJSON(w, http.StatusOK, map[string]interface{}{"quizzes": quizzes})
}

func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}

	quiz, err := sessionStore(h.registry, r).GetQuiz(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

// Delete removes a quiz and every attempt recorded against it.
func (h *QuizHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}

	if err := sessionStore(h.registry, r).DeleteQuiz(id); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Quiz deleted"})
}

// SubmitAttempt grades the submitted answers. When automatic grading
// fails the attempt is still recorded with a nil score, and the response
// says so instead of pretending the submission vanished.
func (h *QuizHandler) SubmitAttempt(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}

	var req models.SubmitAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	attempt, err := h.grader.Grade(r.Context(), sessionStore(h.registry, r), quizID, req.Answers)
	if err != nil {
		var gradeErr *services.GradingError
		if errors.As(err, &gradeErr) {
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":   errorResp("GRADING_FAILED", gradeErr.Message, r).Error,
				"attempt": attempt,
			})
			return
		}
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, attempt)
}

func (h *QuizHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	quizID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid quiz ID", r))
		return
	}

	st := sessionStore(h.registry, r)
	if _, err := st.GetQuiz(quizID); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return
	}

	attempts := st.ListAttempts(quizID)
	writeJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}

func (h *QuizHandler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	attemptID, err := uuid.Parse(chi.URLParam(r, "attemptID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid attempt ID", r))
		return
	}

	attempt, err := sessionStore(h.registry, r).GetAttempt(attemptID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Attempt not found", r))
		return
	}

	writeJSON(w, http.StatusOK, attempt)
}
