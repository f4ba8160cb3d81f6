package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

// MinEnvelopeSecret is the shortest secret NewEnvelope accepts.
const MinEnvelopeSecret = 16

var (
	ErrEnvelopeSecret = errors.New("cryptox: envelope secret too short")
	ErrEnvelopeOpen   = errors.New("cryptox: envelope open failed")
)

var envelopeEncoding = base64.RawURLEncoding.Strict()

// Envelope is an AES-256-GCM cipher keyed once from a process secret. It is
// immutable and safe for concurrent use.
//
// Sealed output is base64url(nonce || ciphertext || tag) without padding, so
// a sealed token contains no dots.
type Envelope struct {
	aead cipher.AEAD
}

// NewEnvelope derives the AES-256 key from secret and salt with argon2id.
// Each call runs argon2id, so build one envelope at startup and share it.
func NewEnvelope(secret, salt []byte) (*Envelope, error) {
	if len(secret) < MinEnvelopeSecret {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrEnvelopeSecret, MinEnvelopeSecret, len(secret))
	}
	if len(salt) == 0 {
		return nil, errors.New("cryptox: envelope salt is required")
	}

	key := argon2.IDKey(secret, salt, iterations, memory, parallelism, keyLength)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Envelope{aead: gcm}, nil
}

// SealBytes encrypts data. The output format is
// [12-byte nonce][encrypted data][16-byte auth tag].
func (e *Envelope) SealBytes(data []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return e.aead.Seal(nonce, nonce, data, nil), nil
}

// OpenBytes decrypts data produced by SealBytes.
func (e *Envelope) OpenBytes(sealed []byte) ([]byte, error) {
	n := e.aead.NonceSize()
	if len(sealed) < n+e.aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrEnvelopeOpen)
	}

	plaintext, err := e.aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEnvelopeOpen, err)
	}
	return plaintext, nil
}

// Seal encrypts s and returns it base64url encoded.
func (e *Envelope) Seal(s string) (string, error) {
	out, err := e.SealBytes([]byte(s))
	if err != nil {
		return "", err
	}
	return envelopeEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Any failure, including bad encoding, wraps
// ErrEnvelopeOpen.
func (e *Envelope) Open(s string) (string, error) {
	raw, err := envelopeEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEnvelopeOpen, err)
	}
	out, err := e.OpenBytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
