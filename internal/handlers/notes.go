package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/services"
	"studyhall-backend/internal/store"
)

type NoteHandler struct {
	registry  *store.Registry
	generator *services.Generator
	exporter  *services.ExportService
}

func NewNoteHandler(registry *store.Registry, generator *services.Generator, exporter *services.ExportService) *NoteHandler {
	return &NoteHandler{
		registry:  registry,
		generator: generator,
		exporter:  exporter,
	}
}

func (h *NoteHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	note, err := h.generator.GenerateNotes(r.Context(), sessionStore(h.registry, r), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes := sessionStore(h.registry, r).ListNotes()
	writeJSON(w, http.StatusOK, map[string]interface{}{"notes": notes})
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid note ID", r))
		return
	}

	note, err := sessionStore(h.registry, r).GetNote(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Note not found", r))
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid note ID", r))
		return
	}

	if err := sessionStore(h.registry, r).DeleteNote(id); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Note not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
}

// Export writes all notes as a plain text file grouped by category.
func (h *NoteHandler) Export(w http.ResponseWriter, r *http.Request) {
	notes := sessionStore(h.registry, r).ListNotes()
	text := h.exporter.ExportNotesText(notes)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="study_notes.txt"`)
	w.Write([]byte(text))
}
