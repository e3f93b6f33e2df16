// HTTP handlers for session CRUD endpoints.
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/internal/domain/chat"
)

// SessionHandler handles HTTP requests for session operations.
type SessionHandler struct {
	sessions *chat.SessionService
	messages *chat.MessageService
	stats    *chat.StatsService
}

// NewSessionHandler creates a new SessionHandler instance.
func NewSessionHandler(sessions *chat.SessionService, messages *chat.MessageService, stats *chat.StatsService) *SessionHandler {
	return &SessionHandler{sessions: sessions, messages: messages, stats: stats}
}

// CreateSessionRequest is the request body for creating a session.
type CreateSessionRequest struct {
	Title     string  `json:"title,omitempty"`
	ModelUsed *string `json:"model_used,omitempty"`
}

// UpdateSessionRequest is the request body for renaming a session.
type UpdateSessionRequest struct {
	Title string `json:"title"`
}

// SessionDetailResponse is a session together with its messages.
type SessionDetailResponse struct {
	Session     *chat.Session   `json:"session"`
	Messages    []*chat.Message `json:"messages"`
	TotalTokens int             `json:"total_tokens"`
}

// ListSessions handles GET /api/sessions.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := h.sessions.ListWithStats(r.Context(), parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": list})
}

// CreateSession handles POST /api/sessions.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errTypeValidation, "invalid request body")
		return
	}
	sess, err := h.sessions.Create(r.Context(), req.Title, req.ModelUsed)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to create session")
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// GetSession handles GET /api/sessions/{id}: the session, its messages in
// order, and the session token total.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := h.sessions.Get(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, errTypeNotFound, "session not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to get session")
		return
	}

	messages, err := h.messages.ListBySession(r.Context(), id, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to list messages")
		return
	}
	totalTokens, err := h.stats.SessionTokenTotal(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to total tokens")
		return
	}

	writeJSON(w, http.StatusOK, SessionDetailResponse{
		Session:     sess,
		Messages:    messages,
		TotalTokens: totalTokens,
	})
}

// ListMessages handles GET /api/sessions/{id}/messages.
func (h *SessionHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.sessions.Get(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, errTypeNotFound, "session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to get session")
		return
	}

	messages, err := h.messages.ListBySession(r.Context(), id, parseLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to list messages")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// UpdateSession handles PUT /api/sessions/{id}.
func (h *SessionHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var req UpdateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errTypeValidation, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, errTypeValidation, "title is required")
		return
	}

	ok, err := h.sessions.UpdateTitle(r.Context(), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to update session")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errTypeNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// DeleteSession handles DELETE /api/sessions/{id}.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ok, err := h.sessions.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to delete session")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errTypeNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// DeleteMessage handles DELETE /api/sessions/{id}/messages/{messageId}.
func (h *SessionHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ok, err := h.messages.Delete(r.Context(), chi.URLParam(r, "messageId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to delete message")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errTypeNotFound, "message not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
