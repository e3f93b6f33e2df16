// Handler helper functions shared across the API surface.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// Error types surfaced to clients alongside the message.
const (
	errTypeValidation = "validation_error"
	errTypeAPIKey     = "api_key_error"
	errTypeNotFound   = "not_found"
	errTypeProvider   = "provider_error"
	errTypeInternal   = "internal_error"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]errorBody{"error": {Message: message, Type: errType}}); err != nil {
		http.Error(w, `{"error":{"message":"failed to encode error response","type":"internal_error"}}`, http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON success response.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to encode response")
	}
}

// parseLimit reads a non-negative limit query parameter; 0 means unlimited.
func parseLimit(r *http.Request) int {
	if lim, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && lim > 0 {
		return lim
	}
	return 0
}
