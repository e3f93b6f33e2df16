package llm

import (
	"context"
	"fmt"
)

// verifyModel is the cheapest text model per provider, used for key checks.
var verifyModel = map[string]string{
	ProviderOpenAI:    "gpt-3.5-turbo",
	ProviderAnthropic: "claude-3-haiku",
}

// VerifyKey checks that an API key is accepted by its provider. OpenAI keys
// are verified against the models listing; Anthropic has no equivalent
// endpoint, so a minimal one-token completion is sent instead. Rejection
// surfaces as a *ProviderError carrying the upstream message.
func (a *Adapter) VerifyKey(ctx context.Context, provider, key string) error {
	if key == "" {
		return fmt.Errorf("%s: %w", provider, ErrMissingCredential)
	}

	switch provider {
	case ProviderOpenAI:
		client := a.newOpenAIClient(key, textTimeout)
		if _, err := client.ListModels(ctx); err != nil {
			return openAIProviderError(err)
		}
		return nil
	case ProviderAnthropic:
		model := verifyModel[ProviderAnthropic]
		cfg := modelTable[model]
		_, err := a.anthropicChat(ctx, model, cfg, []Message{{Role: RoleUser, Content: "Hi"}}, key, Options{MaxTokens: "1"})
		return err
	default:
		return fmt.Errorf("llm: unknown provider %q", provider)
	}
}
