package llm

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Outbound call deadlines. Image generation is allowed longer; neither path
// retries — a timeout surfaces as a ProviderError.
const (
	textTimeout  = 30 * time.Second
	imageTimeout = 60 * time.Second
)

// Adapter dispatches normalized calls to the provider named by the model
// table. It holds only immutable configuration and HTTP clients, so a single
// instance is shared across requests.
type Adapter struct {
	openaiBaseURL    string // empty = library default
	anthropicBaseURL string

	anthropicClient *http.Client
}

// NewAdapter returns an Adapter targeting the production provider endpoints.
func NewAdapter() *Adapter {
	return NewAdapterWithBaseURLs("", AnthropicDefaultBaseURL)
}

// NewAdapterWithBaseURLs returns an Adapter with overridden provider base
// URLs. Used by tests to point at httptest servers.
func NewAdapterWithBaseURLs(openaiBase, anthropicBase string) *Adapter {
	return &Adapter{
		openaiBaseURL:    openaiBase,
		anthropicBaseURL: anthropicBase,
		anthropicClient:  &http.Client{Timeout: textTimeout},
	}
}

// Send forwards one request to the provider configured for model and returns
// the normalized result.
//
// Failure modes, in order of checking:
//   - unknown model id          → ErrUnsupportedModel (no outbound call)
//   - malformed image request   → ErrInvalidPrompt (no outbound call)
//   - missing provider key      → ErrMissingCredential (no outbound call)
//   - upstream/transport error  → *ProviderError carrying the upstream message
func (a *Adapter) Send(ctx context.Context, model string, messages []Message, creds Credentials, opts Options) (*Result, error) {
	cfg, ok := modelTable[model]
	if !ok {
		return nil, fmt.Errorf("llm: %w: %q", ErrUnsupportedModel, model)
	}

	if cfg.Type == ModelTypeImage {
		// The last message must be the user's image prompt.
		if len(messages) == 0 || messages[len(messages)-1].Role != RoleUser {
			return nil, fmt.Errorf("llm: %w", ErrInvalidPrompt)
		}
		prompt := messages[len(messages)-1].Content
		return a.generateImage(ctx, model, cfg, prompt, creds.OpenAI, opts)
	}

	switch cfg.variant {
	case openAIText:
		return a.openAIChat(ctx, model, cfg, messages, creds.OpenAI, opts)
	case anthropicText:
		return a.anthropicChat(ctx, model, cfg, messages, creds.Anthropic, opts)
	default:
		return nil, fmt.Errorf("llm: %w: %q", ErrUnsupportedModel, model)
	}
}

// --- option parsing ---

// intOption parses s as an integer; zero, negative or unparseable values fall
// back to def (mirrors the lenient parse-or-default behavior callers expect
// from string-typed settings).
func intOption(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// floatOption parses s as a float; zero or unparseable values fall back to def.
func floatOption(s string, def float32) float32 {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil || f == 0 {
		return def
	}
	return float32(f)
}

// stringOption returns s, or def when empty.
func stringOption(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
