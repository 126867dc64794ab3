package handlers

import (
	"io"
	"net/http"

	"studyhall-backend/internal/services"
	"studyhall-backend/internal/store"
)

// maxImportBytes caps backup uploads.
const maxImportBytes = 10 << 20

type TransferHandler struct {
	registry *store.Registry
	exporter *services.ExportService
}

func NewTransferHandler(registry *store.Registry, exporter *services.ExportService) *TransferHandler {
	return &TransferHandler{
		registry: registry,
		exporter: exporter,
	}
}

// Export serves a versioned JSON backup of the whole session.
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.exporter.ExportBackup(sessionStore(h.registry, r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to export data", r))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="studyhall_backup.json"`)
	w.Write(data)
}

// Import replaces the session's data with the uploaded backup.
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read request body", r))
		return
	}

	st := sessionStore(h.registry, r)
	if err := h.exporter.ImportBackup(st, data); err != nil {
		handleServiceError(w, r, err)
		return
	}

	notes, cards, quizzes, attempts := st.Counts()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Backup imported",
		"notes":      notes,
		"flashcards": cards,
		"quizzes":    quizzes,
		"attempts":   attempts,
	})
}

// ClearData wipes everything in the calling session.
func (h *TransferHandler) ClearData(w http.ResponseWriter, r *http.Request) {
	sessionStore(h.registry, r).Clear()
	writeJSON(w, http.StatusOK, map[string]string{"message": "All session data cleared"})
}
