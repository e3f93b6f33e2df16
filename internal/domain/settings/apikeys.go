package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/parleyhq/parley/internal/infra/llm"
	"github.com/parleyhq/parley/pkg/keyseal"
)

// Environment variables consulted when no key is stored for a provider.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
)

// KeyStatus describes a stored key without exposing it. Read paths only ever
// see this shape.
type KeyStatus struct {
	Provider  string `json:"provider"`
	IsSet     bool   `json:"is_set"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// KeyStore manages provider API keys. Keys are sealed on write and only
// unsealed inside Resolve, which feeds the provider adapter directly.
type KeyStore struct {
	db     *sql.DB
	sealer *keyseal.Sealer
}

// NewKeyStore creates a key store. sealer decides whether stored keys are
// encrypted or merely encoded.
func NewKeyStore(db *sql.DB, sealer *keyseal.Sealer) *KeyStore {
	return &KeyStore{db: db, sealer: sealer}
}

func validProvider(provider string) bool {
	return provider == llm.ProviderOpenAI || provider == llm.ProviderAnthropic
}

// Set stores (or replaces) the key for a provider.
func (k *KeyStore) Set(ctx context.Context, provider, key string) error {
	if !validProvider(provider) {
		return fmt.Errorf("apikeys: unknown provider %q", provider)
	}
	if key == "" {
		return errors.New("apikeys: empty key")
	}
	sealed, err := k.sealer.Seal(key)
	if err != nil {
		return fmt.Errorf("apikeys: seal: %w", err)
	}
	_, err = k.db.ExecContext(ctx, `
		INSERT INTO api_keys (provider, key_sealed, created_at, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		ON CONFLICT(provider) DO UPDATE SET key_sealed = excluded.key_sealed, updated_at = CURRENT_TIMESTAMP`,
		provider, sealed,
	)
	if err != nil {
		return fmt.Errorf("apikeys: set %q: %w", provider, err)
	}
	return nil
}

// List reports the status of both providers, stored or not. Plaintext keys
// never appear in the result.
func (k *KeyStore) List(ctx context.Context) ([]KeyStatus, error) {
	rows, err := k.db.QueryContext(ctx, `SELECT provider, created_at, updated_at FROM api_keys`)
	if err != nil {
		return nil, fmt.Errorf("apikeys: list: %w", err)
	}
	defer rows.Close()

	stored := map[string]KeyStatus{}
	for rows.Next() {
		var st KeyStatus
		if err := rows.Scan(&st.Provider, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("apikeys: scan: %w", err)
		}
		st.IsSet = true
		stored[st.Provider] = st
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]KeyStatus, 0, 2)
	for _, provider := range []string{llm.ProviderOpenAI, llm.ProviderAnthropic} {
		if st, ok := stored[provider]; ok {
			out = append(out, st)
			continue
		}
		out = append(out, KeyStatus{Provider: provider})
	}
	return out, nil
}

// Delete removes a provider's stored key. Returns false when none was stored.
func (k *KeyStore) Delete(ctx context.Context, provider string) (bool, error) {
	if !validProvider(provider) {
		return false, fmt.Errorf("apikeys: unknown provider %q", provider)
	}
	res, err := k.db.ExecContext(ctx, `DELETE FROM api_keys WHERE provider = ?`, provider)
	if err != nil {
		return false, fmt.Errorf("apikeys: delete %q: %w", provider, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Resolve returns the credentials for one provider call: the stored key when
// present, otherwise the provider's environment variable. Empty fields mean
// no key is configured anywhere.
func (k *KeyStore) Resolve(ctx context.Context) (llm.Credentials, error) {
	var creds llm.Credentials

	openai, err := k.resolveOne(ctx, llm.ProviderOpenAI, EnvOpenAIKey)
	if err != nil {
		return creds, err
	}
	anthropic, err := k.resolveOne(ctx, llm.ProviderAnthropic, EnvAnthropicKey)
	if err != nil {
		return creds, err
	}
	creds.OpenAI = openai
	creds.Anthropic = anthropic
	return creds, nil
}

func (k *KeyStore) resolveOne(ctx context.Context, provider, envVar string) (string, error) {
	var sealed string
	err := k.db.QueryRowContext(ctx, `SELECT key_sealed FROM api_keys WHERE provider = ?`, provider).Scan(&sealed)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return os.Getenv(envVar), nil
	case err != nil:
		return "", fmt.Errorf("apikeys: resolve %q: %w", provider, err)
	}
	plain, err := k.sealer.Open(sealed)
	if err != nil {
		return "", fmt.Errorf("apikeys: unseal %q: %w", provider, err)
	}
	return plain, nil
}
