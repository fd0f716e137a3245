package packaging

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	"vrhouse/internal/services"
)

// KeySize is the raw key length in bytes.
const KeySize = chacha20poly1305.KeySize

var keyEncoding = base64.URLEncoding

// GenerateKey returns a fresh random key in its text form.
func GenerateKey() (string, error) {
	return generateKey(rand.Reader)
}

func generateKey(r io.Reader) (string, error) {
	raw := make([]byte, KeySize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", fmt.Errorf("read key material: %w", err)
	}
	return keyEncoding.EncodeToString(raw), nil
}

// ParseKey decodes a text key. Keys must be URL-safe base64 of exactly
// KeySize bytes.
func ParseKey(key string) ([]byte, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return nil, services.Wrap(services.ErrInvalidKey, "", "parse key", "key is empty", nil)
	}
	raw, err := keyEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidKey, "", "parse key", "key is not url-safe base64", err)
	}
	if len(raw) != KeySize {
		return nil, services.Wrap(services.ErrInvalidKey, "", "parse key",
			fmt.Sprintf("key must decode to %d bytes, got %d", KeySize, len(raw)), nil)
	}
	return raw, nil
}
