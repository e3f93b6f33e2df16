package llm

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller mistakes. They are returned before any outbound
// call is attempted, so callers can map them to 4xx responses.
var (
	// ErrUnsupportedModel is returned when the model id has no table entry.
	ErrUnsupportedModel = errors.New("unsupported model")

	// ErrInvalidPrompt is returned when an image request's last message is
	// missing or not a user turn.
	ErrInvalidPrompt = errors.New("image generation requires a user prompt")

	// ErrMissingCredential is returned when the required provider has no key
	// configured. Distinguishable so UIs can prompt for key entry.
	ErrMissingCredential = errors.New("API key not configured")
)

// ProviderError wraps an upstream failure (network, non-2xx, malformed body).
// The upstream message is preserved, never swallowed. Calls are not retried
// here; retry is a caller concern.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
