// Package catalog exposes the served model listing and keeps it checked
// against the OpenAI upstream in the background. The listing itself is
// static: only models the adapter knows how to call are ever offered,
// regardless of what the upstream reports.
package catalog

import (
	"github.com/parleyhq/parley/internal/infra/llm"
)

// Model is one catalog entry as served by the models endpoint.
type Model struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Provider    string        `json:"provider"`
	Type        llm.ModelType `json:"type"`
	Description string        `json:"description,omitempty"`
}

var descriptions = map[string]string{
	"gpt-3.5-turbo":       "Fast and capable for everyday chat",
	"gpt-4":               "Strongest OpenAI reasoning model",
	"gpt-4-turbo-preview": "GPT-4 quality with a larger context window",
	"dall-e-3":            "High quality image generation",
	"dall-e-2":            "Lower cost image generation",
	"claude-3-sonnet":     "Balanced Anthropic model",
	"claude-3-opus":       "Strongest Anthropic reasoning model",
	"claude-3-haiku":      "Fastest Anthropic model",
}

// List returns every servable model in stable order.
func List() []Model {
	infos := llm.Models()
	out := make([]Model, 0, len(infos))
	for _, info := range infos {
		out = append(out, Model{
			ID:          info.ID,
			Name:        info.Name,
			Provider:    info.Provider,
			Type:        info.Type,
			Description: descriptions[info.ID],
		})
	}
	return out
}

// ByProvider groups the catalog for clients that render one section per
// provider.
func ByProvider() map[string][]Model {
	out := map[string][]Model{}
	for _, m := range List() {
		out[m.Provider] = append(out[m.Provider], m)
	}
	return out
}
