package llm

// callVariant is the closed set of provider call paths. Adding a provider
// means adding a variant, one handler, and table entries — not growing a
// conditional.
type callVariant int

const (
	openAIText callVariant = iota
	openAIImage
	anthropicText
)

// modelConfig maps a public model id onto a provider call path. WireModel is
// the identifier the provider expects on the wire (endpoints live with the
// HTTP clients in the adapter). Premium marks image models that accept
// quality/style parameters.
type modelConfig struct {
	Provider  string
	WireModel string
	Type      ModelType
	Premium   bool
	variant   callVariant
}

// modelTable is immutable static data; the adapter holds no per-call state,
// so one instance is safe to share process-wide.
var modelTable = map[string]modelConfig{
	"gpt-3.5-turbo":       {Provider: ProviderOpenAI, WireModel: "gpt-3.5-turbo", Type: ModelTypeText, variant: openAIText},
	"gpt-4":               {Provider: ProviderOpenAI, WireModel: "gpt-4", Type: ModelTypeText, variant: openAIText},
	"gpt-4-turbo-preview": {Provider: ProviderOpenAI, WireModel: "gpt-4-turbo-preview", Type: ModelTypeText, variant: openAIText},
	"dall-e-3":            {Provider: ProviderOpenAI, WireModel: "dall-e-3", Type: ModelTypeImage, Premium: true, variant: openAIImage},
	"dall-e-2":            {Provider: ProviderOpenAI, WireModel: "dall-e-2", Type: ModelTypeImage, variant: openAIImage},
	"claude-3-sonnet":     {Provider: ProviderAnthropic, WireModel: "claude-3-sonnet-20240229", Type: ModelTypeText, variant: anthropicText},
	"claude-3-opus":       {Provider: ProviderAnthropic, WireModel: "claude-3-opus-20240229", Type: ModelTypeText, variant: anthropicText},
	"claude-3-haiku":      {Provider: ProviderAnthropic, WireModel: "claude-3-haiku-20240307", Type: ModelTypeText, variant: anthropicText},
}

// modelOrder fixes the listing order (maps iterate randomly).
var modelOrder = []string{
	"gpt-3.5-turbo",
	"gpt-4",
	"gpt-4-turbo-preview",
	"dall-e-3",
	"dall-e-2",
	"claude-3-sonnet",
	"claude-3-opus",
	"claude-3-haiku",
}

var displayNames = map[string]string{
	"gpt-3.5-turbo":       "GPT-3.5 Turbo",
	"gpt-4":               "GPT-4",
	"gpt-4-turbo-preview": "GPT-4 Turbo",
	"dall-e-3":            "DALL-E 3",
	"dall-e-2":            "DALL-E 2",
	"claude-3-sonnet":     "Claude 3 Sonnet",
	"claude-3-opus":       "Claude 3 Opus",
	"claude-3-haiku":      "Claude 3 Haiku",
}

// ModelInfo describes one supported model for listings.
type ModelInfo struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Provider string    `json:"provider"`
	Type     ModelType `json:"type"`
}

// Models returns all supported models in a stable order.
func Models() []ModelInfo {
	out := make([]ModelInfo, 0, len(modelOrder))
	for _, id := range modelOrder {
		cfg := modelTable[id]
		out = append(out, ModelInfo{
			ID:       id,
			Name:     DisplayName(id),
			Provider: cfg.Provider,
			Type:     cfg.Type,
		})
	}
	return out
}

// DisplayName returns the human-readable name for a model id, or the id
// itself when unknown.
func DisplayName(id string) string {
	if name, ok := displayNames[id]; ok {
		return name
	}
	return id
}

// Supported reports whether the model id has a table entry.
func Supported(id string) bool {
	_, ok := modelTable[id]
	return ok
}

// TypeOf returns the model type for a supported id.
func TypeOf(id string) (ModelType, bool) {
	cfg, ok := modelTable[id]
	if !ok {
		return "", false
	}
	return cfg.Type, true
}

// IsImageModel reports whether the id names an image generation model.
func IsImageModel(id string) bool {
	t, ok := TypeOf(id)
	return ok && t == ModelTypeImage
}
