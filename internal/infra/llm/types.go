// Package llm normalizes several third-party generation APIs (OpenAI chat
// completions, OpenAI image generation, Anthropic messages) behind a single
// call contract. The application is never coupled to a specific vendor wire
// format; adapters translate in and out at this boundary.
package llm

// Model types.
type ModelType string

const (
	ModelTypeText  ModelType = "text"
	ModelTypeImage ModelType = "image"
)

// Provider names as they appear in results and credential records.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single conversation turn (role + content).
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token consumption for a text completion.
// Anthropic's input/output counts are normalized into the same shape.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Credentials carries the per-provider secrets resolved for one call.
// An empty field means no key is configured for that provider.
type Credentials struct {
	OpenAI    string
	Anthropic string
}

// Options are caller-tunable knobs, kept as strings because settings are
// stored as strings; each adapter parses what it needs and applies its own
// defaults (OpenAI and Anthropic deliberately default max_tokens differently).
type Options struct {
	MaxTokens    string
	Temperature  string
	ImageSize    string
	ImageQuality string
	ImageStyle   string
}

// OptionsFromSettings builds Options from a raw settings map.
func OptionsFromSettings(settings map[string]string) Options {
	return Options{
		MaxTokens:    settings["max_tokens"],
		Temperature:  settings["temperature"],
		ImageSize:    settings["image_size"],
		ImageQuality: settings["image_quality"],
		ImageStyle:   settings["image_style"],
	}
}

// Result is the normalized outcome of a provider call.
// Size, Quality and Style are the resolved image parameters actually sent
// upstream; they are surfaced so callers can persist image metadata without
// re-deriving defaults.
type Result struct {
	Content       string    `json:"content"`
	Type          ModelType `json:"type"`
	Model         string    `json:"model"`
	Usage         *Usage    `json:"usage,omitempty"`
	Provider      string    `json:"provider"`
	Prompt        string    `json:"prompt,omitempty"`
	RevisedPrompt string    `json:"revised_prompt,omitempty"`
	Size          string    `json:"-"`
	Quality       string    `json:"-"`
	Style         string    `json:"-"`
}
