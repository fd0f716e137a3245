package packaging

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/chacha20poly1305"

	"vrhouse/internal/services"
)

const (
	tokenVersion = 0x80
	headerSize   = 1 + 8
)

var tokenEncoding = base64.URLEncoding

// Sealer encrypts and authenticates payloads with one key.
type Sealer struct {
	key  []byte
	now  func() time.Time
	rand io.Reader
}

// NewSealer builds a sealer from a text key.
func NewSealer(key string) (*Sealer, error) {
	raw, err := ParseKey(key)
	if err != nil {
		return nil, err
	}
	return &Sealer{key: raw, now: time.Now, rand: rand.Reader}, nil
}

// Seal encrypts plaintext and returns the encoded token.
func (s *Sealer) Seal(plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, services.Wrap(services.ErrInvalidKey, "", "seal", "construct cipher", err)
	}

	header := make([]byte, headerSize)
	header[0] = tokenVersion
	binary.BigEndian.PutUint64(header[1:], uint64(s.now().Unix()))

	// XChaCha nonces are large enough to draw at random for every package.
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(s.rand, nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}

	raw := make([]byte, 0, headerSize+len(nonce)+len(plaintext)+aead.Overhead())
	raw = append(raw, header...)
	raw = append(raw, nonce...)
	raw = aead.Seal(raw, nonce, plaintext, header)

	out := make([]byte, tokenEncoding.EncodedLen(len(raw)))
	tokenEncoding.Encode(out, raw)
	return out, nil
}

// OpenOptions tunes token verification.
type OpenOptions struct {
	// MaxAge rejects tokens issued longer ago than this. Zero disables the check.
	MaxAge time.Duration
	// Now overrides the clock used for MaxAge.
	Now func() time.Time
}

// Open authenticates and decrypts a token, returning the plaintext and the
// time it was sealed. Every failure is reported as services.ErrInvalidKey.
func (s *Sealer) Open(token []byte, opts OpenOptions) ([]byte, time.Time, error) {
	token = bytes.TrimSpace(token)
	raw := make([]byte, tokenEncoding.DecodedLen(len(token)))
	n, err := tokenEncoding.Decode(raw, token)
	if err != nil {
		return nil, time.Time{}, services.Wrap(services.ErrInvalidKey, "", "open", "package is not a valid token", err)
	}
	raw = raw[:n]

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return nil, time.Time{}, services.Wrap(services.ErrInvalidKey, "", "open", "construct cipher", err)
	}
	if len(raw) < headerSize+aead.NonceSize()+aead.Overhead() || raw[0] != tokenVersion {
		return nil, time.Time{}, services.Wrap(services.ErrInvalidKey, "", "open", "package token is truncated or has an unknown version", nil)
	}

	header := raw[:headerSize]
	nonce := raw[headerSize : headerSize+aead.NonceSize()]
	ciphertext := raw[headerSize+aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, header)
	if err != nil {
		return nil, time.Time{}, services.Wrap(services.ErrInvalidKey, "", "open", "authentication failed (wrong key or corrupted package)", err)
	}

	issued := time.Unix(int64(binary.BigEndian.Uint64(header[1:])), 0).UTC()
	if opts.MaxAge > 0 {
		now := time.Now
		if opts.Now != nil {
			now = opts.Now
		}
		if now().Sub(issued) > opts.MaxAge {
			return nil, issued, services.Wrap(services.ErrInvalidKey, "", "open",
				fmt.Sprintf("package issued at %s is older than %s", issued.Format(time.RFC3339), opts.MaxAge), nil)
		}
	}
	return plaintext, issued, nil
}
