package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/services"
	"studyhall-backend/internal/store"
)

type FlashcardHandler struct {
	registry  *store.Registry
	generator *services.Generator
	exporter  *services.ExportService
}

func NewFlashcardHandler(registry *store.Registry, generator *services.Generator, exporter *services.ExportService) *FlashcardHandler {
	return &FlashcardHandler{
		registry:  registry,
		generator: generator,
		exporter:  exporter,
	}
}

func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateFlashcardsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	cards, err := h.generator.GenerateFlashcards(r.Context(), sessionStore(h.registry, r), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"flashcards": cards})
}

func (h *FlashcardHandler) List(w http.ResponseWriter, r *http.Request) {
	cards := sessionStore(h.registry, r).ListCards()
	writeJSON(w, http.StatusOK, map[string]interface{}{"flashcards": cards})
}

func (h *FlashcardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	card, err := sessionStore(h.registry, r).GetCard(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *FlashcardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	if err := sessionStore(h.registry, r).DeleteCard(id); err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Flashcard deleted"})
}

// Review records a pass/fail review outcome on a card.
func (h *FlashcardHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid flashcard ID", r))
		return
	}

	var req models.ReviewCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	card, err := sessionStore(h.registry, r).RecordReview(id, req.Passed)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Flashcard not found", r))
		return
	}

	writeJSON(w, http.StatusOK, card)
}

// Due returns the review queue, least recently reviewed first.
func (h *FlashcardHandler) Due(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid limit", r))
			return
		}
		limit = n
	}

	cards := sessionStore(h.registry, r).DueCards(limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{"flashcards": cards})
}

// Export writes the session's cards as a plain text deck file.
func (h *FlashcardHandler) Export(w http.ResponseWriter, r *http.Request) {
	cards := sessionStore(h.registry, r).ListCards()
	deck := h.exporter.ExportDeck(cards)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="flashcards.txt"`)
	w.Write([]byte(deck))
}

// Import reads a deck file from the request body and adds its cards.
func (h *FlashcardHandler) Import(w http.ResponseWriter, r *http.Request) {
	cards, err := h.exporter.ImportDeck(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	st := sessionStore(h.registry, r)
	added := st.AddCards(cards)
	st.AppendActivity(models.EventDataImport, "", nil)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"imported":   len(added),
		"flashcards": added,
	})
}
