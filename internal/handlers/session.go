package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"studyhall-backend/internal/middleware"
	"studyhall-backend/internal/store"
)

type SessionHandler struct {
	registry *store.Registry
	auth     *middleware.SessionAuth
	ttl      time.Duration
}

func NewSessionHandler(registry *store.Registry, auth *middleware.SessionAuth, ttl time.Duration) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		auth:     auth,
		ttl:      ttl,
	}
}

// Create issues a fresh anonymous session and its bearer token. The
// backing store is created lazily on first use.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID := uuid.New()

	token, err := h.auth.IssueToken(sessionID, h.ttl)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create session", r))
		return
	}

	h.registry.Get(sessionID)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": sessionID,
		"token":      token,
		"expires_in": int(h.ttl.Seconds()),
	})
}
