// Package keyseal encodes provider API keys before they reach storage.
//
// Two modes:
//   - With a keystore secret: XChaCha20-Poly1305 authenticated encryption.
//   - Without one: plain base64. This is OBFUSCATION ONLY, not a security
//     boundary — anyone with database access can decode it. Configure a
//     keystore secret if the stored keys genuinely need protecting.
//
// Both modes are reversible by design; the store must hand the plaintext key
// back to the provider adapter.
package keyseal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// sealedPrefix marks AEAD-encrypted values so both encodings can coexist in
// one table (rows written before a secret was configured stay readable).
const sealedPrefix = "sealed:"

// Sealer encodes and decodes secrets. The zero-secret Sealer falls back to
// base64 obfuscation.
type Sealer struct {
	aead interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
		NonceSize() int
	}
}

// New builds a Sealer. An empty secret selects obfuscation mode; otherwise
// the secret is stretched to a 256-bit key via SHA-256.
func New(secret string) (*Sealer, error) {
	if secret == "" {
		return &Sealer{}, nil
	}
	key := sha256.Sum256([]byte(secret))
	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("keyseal: init cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Sealed reports whether values are authenticated-encrypted rather than
// merely obfuscated.
func (s *Sealer) Sealed() bool {
	return s.aead != nil
}

// Seal encodes plain for storage.
func (s *Sealer) Seal(plain string) (string, error) {
	if s.aead == nil {
		return base64.StdEncoding.EncodeToString([]byte(plain)), nil
	}

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("keyseal: nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(plain), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decodes a stored value back to plaintext.
func (s *Sealer) Open(stored string) (string, error) {
	if strings.HasPrefix(stored, sealedPrefix) {
		return s.openSealed(strings.TrimPrefix(stored, sealedPrefix))
	}

	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return "", fmt.Errorf("keyseal: decode: %w", err)
	}
	return string(raw), nil
}

func (s *Sealer) openSealed(encoded string) (string, error) {
	if s.aead == nil {
		return "", errors.New("keyseal: value is sealed but no keystore secret is configured")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("keyseal: decode sealed: %w", err)
	}
	if len(raw) < s.aead.NonceSize() {
		return "", errors.New("keyseal: sealed value too short")
	}

	nonce, ciphertext := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("keyseal: open: %w", err)
	}
	return string(plain), nil
}
