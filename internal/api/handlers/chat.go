// HTTP handler for the chat endpoint.
package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/parleyhq/parley/internal/domain/chat"
	"github.com/parleyhq/parley/internal/infra/llm"
)

// ChatHandler handles POST /api/chat.
type ChatHandler struct {
	service *chat.Service
}

// NewChatHandler creates a new ChatHandler instance.
func NewChatHandler(service *chat.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// SendMessageRequest is the request body for a chat turn.
type SendMessageRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
	Model     string `json:"model"`
}

// SendMessage handles POST /api/chat.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errTypeValidation, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, errTypeValidation, "message is required")
		return
	}
	if req.Model == "" {
		writeError(w, http.StatusBadRequest, errTypeValidation, "model is required")
		return
	}

	resp, err := h.service.Send(r.Context(), chat.Request{
		SessionID: req.SessionID,
		Message:   req.Message,
		Model:     req.Model,
	})
	if err != nil {
		writeChatError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeChatError maps domain and provider failures onto HTTP statuses.
func writeChatError(w http.ResponseWriter, err error) {
	var provErr *llm.ProviderError
	switch {
	case errors.Is(err, llm.ErrUnsupportedModel):
		writeError(w, http.StatusBadRequest, errTypeValidation, err.Error())
	case errors.Is(err, llm.ErrInvalidPrompt):
		writeError(w, http.StatusBadRequest, errTypeValidation, err.Error())
	case errors.Is(err, llm.ErrMissingCredential):
		writeError(w, http.StatusBadRequest, errTypeAPIKey, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, errTypeNotFound, "session not found")
	case errors.As(err, &provErr):
		writeError(w, http.StatusInternalServerError, errTypeProvider, provErr.Message)
	default:
		writeError(w, http.StatusInternalServerError, errTypeInternal, "chat request failed")
	}
}
