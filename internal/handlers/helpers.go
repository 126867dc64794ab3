package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"studyhall-backend/internal/middleware"
	"studyhall-backend/internal/models"
	"studyhall-backend/internal/services"
	"studyhall-backend/internal/store"
)

// Shared helpers

// sessionStore resolves the calling session's store from the request
// context set by the session middleware.
func sessionStore(registry *store.Registry, r *http.Request) *store.Store {
	return registry.Get(middleware.GetSessionID(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		valErr    *services.ValidationError
		genErr    *services.GenerationError
		gradeErr  *services.GradingError
		reportErr *services.ReportError
	)

	switch {
	case errors.As(err, &valErr):
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", valErr.Fields, r))
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Resource not found", r))
	case errors.As(err, &genErr):
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_FAILED", genErr.Message, r))
	case errors.As(err, &gradeErr):
		writeJSON(w, http.StatusBadGateway, errorResp("GRADING_FAILED", gradeErr.Message, r))
	case errors.As(err, &reportErr):
		writeJSON(w, http.StatusInternalServerError, errorResp("REPORT_FAILED", reportErr.Message, r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
