// Anthropic messages adapter, hand-rolled over net/http (the messages API
// has no SDK in use here; the wire format is small and stable).

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// AnthropicDefaultBaseURL is the production messages API endpoint.
const AnthropicDefaultBaseURL = "https://api.anthropic.com/v1"

const (
	anthropicVersion = "2023-06-01"

	// Anthropic's max_tokens default is intentionally lower than OpenAI's.
	anthropicDefaultMaxTokens = 1024
)

// --- wire types ---

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float32            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type anthropicErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// anthropicChat performs a non-streaming messages call.
func (a *Adapter) anthropicChat(ctx context.Context, model string, cfg modelConfig, messages []Message, apiKey string, opts Options) (*Result, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrMissingCredential)
	}

	// Anthropic takes the system prompt as a top-level field, not a message;
	// remaining roles are coerced to user unless they are assistant turns.
	var system string
	wireMessages := make([]anthropicMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			if system == "" {
				system = m.Content
			}
			continue
		}
		role := RoleUser
		if m.Role == RoleAssistant {
			role = RoleAssistant
		}
		wireMessages = append(wireMessages, anthropicMessage{Role: role, Content: m.Content})
	}

	body, err := json.Marshal(anthropicRequest{
		Model:       cfg.WireModel,
		MaxTokens:   intOption(opts.MaxTokens, anthropicDefaultMaxTokens),
		Temperature: floatOption(opts.Temperature, defaultTemperature),
		System:      system,
		Messages:    wireMessages,
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic: marshal request: %w", err)
	}

	url := a.anthropicBaseURL + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("anthropic: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.anthropicClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: ProviderAnthropic, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, anthropicProviderError(resp)
	}

	var parsed anthropicResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&parsed); decodeErr != nil {
		return nil, &ProviderError{Provider: ProviderAnthropic, Message: "decode response: " + decodeErr.Error(), Err: decodeErr}
	}
	if len(parsed.Content) == 0 {
		return nil, &ProviderError{Provider: ProviderAnthropic, Message: "empty content in response"}
	}

	total := parsed.Usage.InputTokens + parsed.Usage.OutputTokens
	return &Result{
		Content: parsed.Content[0].Text,
		Type:    ModelTypeText,
		Model:   model,
		Usage: &Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      total,
		},
		Provider: ProviderAnthropic,
	}, nil
}

// anthropicProviderError extracts the structured upstream message from a
// non-2xx response, falling back to the raw body.
func anthropicProviderError(resp *http.Response) *ProviderError {
	raw, _ := io.ReadAll(resp.Body) //nolint:errcheck

	var parsed anthropicErrorBody
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if msg := parsed.Error.Message; msg != "" {
			return &ProviderError{Provider: ProviderAnthropic, Message: msg}
		}
		if parsed.Error.Type != "" {
			return &ProviderError{Provider: ProviderAnthropic, Message: parsed.Error.Type}
		}
	}

	return &ProviderError{
		Provider: ProviderAnthropic,
		Message:  fmt.Sprintf("status %d: %s", resp.StatusCode, string(raw)),
	}
}
