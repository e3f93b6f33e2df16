// OpenAI call paths, built on sashabaranov/go-openai.
// The library client binds the API key at construction, so a short-lived
// client is built per call; the adapter itself stays stateless.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Image size defaults depend on the model tier.
const (
	imageSizePremium  = "1024x1024"
	imageSizeStandard = "512x512"

	imageQualityDefault = "standard"
	imageStyleDefault   = "natural"
)

// OpenAI text defaults (Anthropic deliberately differs, see anthropic.go).
const (
	openAIDefaultMaxTokens = 2000
	defaultTemperature     = 0.7
)

func (a *Adapter) newOpenAIClient(apiKey string, timeout time.Duration) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if a.openaiBaseURL != "" {
		cfg.BaseURL = a.openaiBaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(cfg)
}

// openAIChat performs a non-streaming chat completion.
func (a *Adapter) openAIChat(ctx context.Context, model string, cfg modelConfig, messages []Message, apiKey string, opts Options) (*Result, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingCredential)
	}

	// Role and content only; any other message fields never cross the wire.
	wireMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		wireMessages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	client := a.newOpenAIClient(apiKey, textTimeout)
	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       cfg.WireModel,
		Messages:    wireMessages,
		MaxTokens:   intOption(opts.MaxTokens, openAIDefaultMaxTokens),
		Temperature: floatOption(opts.Temperature, defaultTemperature),
	})
	if err != nil {
		return nil, openAIProviderError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ProviderError{Provider: ProviderOpenAI, Message: "empty completion response"}
	}

	return &Result{
		Content: resp.Choices[0].Message.Content,
		Type:    ModelTypeText,
		Model:   model,
		Usage: &Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Provider: ProviderOpenAI,
	}, nil
}

// generateImage performs a single-image generation. Only OpenAI supports
// image models in this design, so the OpenAI credential is always the one
// required here.
func (a *Adapter) generateImage(ctx context.Context, model string, cfg modelConfig, prompt, apiKey string, opts Options) (*Result, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: %w", ErrMissingCredential)
	}

	size := stringOption(opts.ImageSize, imageSizeStandard)
	if opts.ImageSize == "" && cfg.Premium {
		size = imageSizePremium
	}

	req := openai.ImageRequest{
		Model:  cfg.WireModel,
		Prompt: prompt,
		N:      1,
		Size:   size,
	}
	// Quality and style are premium-only parameters; for other models the
	// keys must be entirely absent from the payload (the library omits empty
	// strings), not merely null.
	if cfg.Premium {
		req.Quality = stringOption(opts.ImageQuality, imageQualityDefault)
		req.Style = stringOption(opts.ImageStyle, imageStyleDefault)
	}

	client := a.newOpenAIClient(apiKey, imageTimeout)
	resp, err := client.CreateImage(ctx, req)
	if err != nil {
		return nil, openAIProviderError(err)
	}
	if len(resp.Data) == 0 {
		return nil, &ProviderError{Provider: ProviderOpenAI, Message: "empty image response"}
	}

	image := resp.Data[0]
	return &Result{
		Content:       image.URL,
		Type:          ModelTypeImage,
		Model:         model,
		Provider:      ProviderOpenAI,
		Prompt:        prompt,
		RevisedPrompt: image.RevisedPrompt, // premium models may revise the prompt
		Size:          size,
		Quality:       req.Quality,
		Style:         req.Style,
	}, nil
}

// openAIProviderError preserves the upstream error message, unwrapping the
// library's typed API error when present.
func openAIProviderError(err error) *ProviderError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: ProviderOpenAI, Message: apiErr.Message, Err: err}
	}
	return &ProviderError{Provider: ProviderOpenAI, Message: err.Error(), Err: err}
}
