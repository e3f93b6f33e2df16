package handlers

import (
	"net/http"

	"github.com/parleyhq/parley/internal/catalog"
)

// ModelsHandler serves the model catalog.
type ModelsHandler struct{}

// NewModelsHandler creates a new ModelsHandler instance.
func NewModelsHandler() *ModelsHandler {
	return &ModelsHandler{}
}

// ListModelsResponse is the response body for the catalog listing.
type ListModelsResponse struct {
	Models []catalog.Model `json:"models"`
}

// ListModels handles GET /api/models.
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListModelsResponse{Models: catalog.List()})
}
