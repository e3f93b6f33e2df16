// HTTP handlers for settings and API key management.
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parleyhq/parley/internal/domain/settings"
	"github.com/parleyhq/parley/internal/infra/llm"
)

// KeyVerifier checks a provider API key against the live provider.
type KeyVerifier interface {
	VerifyKey(ctx context.Context, provider, key string) error
}

// SettingsHandler handles HTTP requests for settings and API keys.
type SettingsHandler struct {
	settings *settings.Service
	keys     *settings.KeyStore
	verifier KeyVerifier
}

// NewSettingsHandler creates a new SettingsHandler instance.
func NewSettingsHandler(svc *settings.Service, keys *settings.KeyStore, verifier KeyVerifier) *SettingsHandler {
	return &SettingsHandler{settings: svc, keys: keys, verifier: verifier}
}

// GetSettings handles GET /api/settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	all, err := h.settings.GetAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": all})
}

// UpdateSettingsRequest is the request body for the batch settings update.
// Both sections are optional, but at least one must be present. Keys given
// under api_keys are stored through the sealed key store, never the settings
// table.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings,omitempty"`
	APIKeys  map[string]string `json:"api_keys,omitempty"`
}

// UpdateSettings handles PUT /api/settings. The settings section is applied
// atomically; api_keys entries are stored one provider at a time.
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errTypeValidation, "invalid request body")
		return
	}
	if len(req.Settings) == 0 && len(req.APIKeys) == 0 {
		writeError(w, http.StatusBadRequest, errTypeValidation, "no settings provided")
		return
	}

	if len(req.Settings) > 0 {
		if err := h.settings.SetMany(r.Context(), req.Settings); err != nil {
			writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to update settings")
			return
		}
	}
	for provider, key := range req.APIKeys {
		if err := h.keys.Set(r.Context(), provider, key); err != nil {
			writeError(w, http.StatusBadRequest, errTypeValidation, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// GetSetting handles GET /api/settings/{key}.
func (h *SettingsHandler) GetSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	value, err := h.settings.Get(r.Context(), key)
	if errors.Is(err, sql.ErrNoRows) {
		writeError(w, http.StatusNotFound, errTypeNotFound, "setting not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to load setting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// SetSettingRequest is the request body for writing a single setting.
type SetSettingRequest struct {
	Value string `json:"value"`
}

// SetSetting handles PUT /api/settings/{key}.
func (h *SettingsHandler) SetSetting(w http.ResponseWriter, r *http.Request) {
	var req SetSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errTypeValidation, "invalid request body")
		return
	}
	key := chi.URLParam(r, "key")
	if err := h.settings.Set(r.Context(), key, req.Value); err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to save setting")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

// DeleteSetting handles DELETE /api/settings/{key}.
func (h *SettingsHandler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	ok, err := h.settings.Delete(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to delete setting")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errTypeNotFound, "setting not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// SetAPIKeyRequest is the request body for storing a provider key.
type SetAPIKeyRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

// ListAPIKeys handles GET /api/settings/api-keys. Responses carry status
// only, never key material.
func (h *SettingsHandler) ListAPIKeys(w http.ResponseWriter, r *http.Request) {
	list, err := h.keys.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to list api keys")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"api_keys": list})
}

// SetAPIKey handles POST /api/settings/api-keys.
func (h *SettingsHandler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req SetAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errTypeValidation, "invalid request body")
		return
	}
	if req.Provider == "" || req.APIKey == "" {
		writeError(w, http.StatusBadRequest, errTypeValidation, "provider and api_key are required")
		return
	}
	if err := h.keys.Set(r.Context(), req.Provider, req.APIKey); err != nil {
		writeError(w, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// DeleteAPIKey handles DELETE /api/settings/api-keys/{provider}.
func (h *SettingsHandler) DeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	ok, err := h.keys.Delete(r.Context(), chi.URLParam(r, "provider"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errTypeValidation, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errTypeNotFound, "no key stored for provider")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// TestAPIKeyRequest is the request body for verifying a key. When api_key is
// omitted the stored (or environment) key for the provider is tested.
type TestAPIKeyRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key,omitempty"`
}

// TestAPIKey handles POST /api/settings/test-api-key.
func (h *SettingsHandler) TestAPIKey(w http.ResponseWriter, r *http.Request) {
	var req TestAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errTypeValidation, "invalid request body")
		return
	}
	if req.Provider != llm.ProviderOpenAI && req.Provider != llm.ProviderAnthropic {
		writeError(w, http.StatusBadRequest, errTypeValidation, "unknown provider")
		return
	}

	key := req.APIKey
	if key == "" {
		creds, err := h.keys.Resolve(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, errTypeInternal, "failed to resolve stored key")
			return
		}
		if req.Provider == llm.ProviderOpenAI {
			key = creds.OpenAI
		} else {
			key = creds.Anthropic
		}
	}
	if key == "" {
		writeError(w, http.StatusBadRequest, errTypeAPIKey, "no key configured for provider")
		return
	}

	if err := h.verifier.VerifyKey(r.Context(), req.Provider, key); err != nil {
		var provErr *llm.ProviderError
		if errors.As(err, &provErr) {
			writeJSON(w, http.StatusOK, map[string]any{"valid": false, "message": provErr.Message})
			return
		}
		writeError(w, http.StatusInternalServerError, errTypeInternal, "key verification failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}
