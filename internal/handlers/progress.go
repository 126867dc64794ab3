package handlers

import (
	"net/http"
	"strconv"

	"studyhall-backend/internal/services"
	"studyhall-backend/internal/store"
)

type ProgressHandler struct {
	registry *store.Registry
	progress *services.ProgressService
}

func NewProgressHandler(registry *store.Registry, progress *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		registry: registry,
		progress: progress,
	}
}

func (h *ProgressHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview := h.progress.Overview(sessionStore(h.registry, r))
	writeJSON(w, http.StatusOK, overview)
}

func (h *ProgressHandler) Subjects(w http.ResponseWriter, r *http.Request) {
	subjects := h.progress.Subjects(sessionStore(h.registry, r))
	writeJSON(w, http.StatusOK, map[string]interface{}{"subjects": subjects})
}

func (h *ProgressHandler) Trend(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 365 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid days parameter", r))
			return
		}
		days = n
	}

	trend := h.progress.Trend(sessionStore(h.registry, r), days)
	writeJSON(w, http.StatusOK, map[string]interface{}{"trend": trend, "days": days})
}

func (h *ProgressHandler) WeakSubjects(w http.ResponseWriter, r *http.Request) {
	limit := 3
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid limit", r))
			return
		}
		limit = n
	}

	weak := h.progress.WeakSubjects(sessionStore(h.registry, r), limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{"weak_subjects": weak})
}
