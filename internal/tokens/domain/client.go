package domain

import (
	"time"

	"github.com/aussiebroadwan/tokensmith/pkg/jwex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

// Client is an application client as stored. Its secrets stay sealed with
// the storage envelope; the service opens them into a ClientCryptoConfig
// per request.
type Client struct {
	ID   string // ULID
	Name string

	TokenType           TokenType
	SignatureAlgorithm  jwtx.SignatureAlgorithm
	EncryptionAlgorithm jwex.Algorithm // zero unless TokenType.Nested()
	EncryptionMethod    jwex.Method

	Secrets SealedSecrets

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SealedSecrets holds AES-256-GCM sealed secret material plus fingerprints
// of the plaintext, so secrets can be told apart without opening them.
type SealedSecrets struct {
	Signature             []byte
	SignatureFingerprint  string
	Encryption            []byte // nil unless the token type is nested
	EncryptionFingerprint string
}
