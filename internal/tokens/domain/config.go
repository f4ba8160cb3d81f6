package domain

import (
	"log/slog"

	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/jwex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

const opValidate = "config.validate"

// ClientCryptoConfig is the crypto policy of one client. The engine only
// reads it.
//
// Secrets hold raw bytes for HMAC and dir, PEM for RSA and ECDH-1PU. The
// encryption fields are only meaningful for nested token types.
type ClientCryptoConfig struct {
	TokenType TokenType

	SignatureAlgorithm jwtx.SignatureAlgorithm
	SignatureSecret    []byte

	EncryptionAlgorithm jwex.Algorithm
	EncryptionMethod    jwex.Method
	EncryptionSecret    []byte
}

// Validate checks that the fields the token type needs are present and
// consistent. It does not parse key material.
func (c ClientCryptoConfig) Validate() error {
	if !c.TokenType.Valid() {
		return errx.Invalid(opValidate, "token type is required")
	}
	if !c.SignatureAlgorithm.Valid() {
		return errx.Invalid(opValidate, "signature algorithm is required")
	}
	if len(c.SignatureSecret) == 0 {
		return errx.Invalid(opValidate, "signature secret is required")
	}

	if !c.TokenType.Nested() {
		return nil
	}

	if err := jwex.CheckPair(c.EncryptionAlgorithm, c.EncryptionMethod); err != nil {
		return errx.New(errx.ErrInvalidArgument, opValidate, c.EncryptionAlgorithm.String(), err)
	}
	if len(c.EncryptionSecret) == 0 {
		return errx.Invalid(opValidate, "encryption secret is required")
	}
	if c.EncryptionAlgorithm == jwex.Dir && len(c.EncryptionSecret) != c.EncryptionMethod.KeySize() {
		return errx.New(errx.ErrInvalidArgument, opValidate, c.EncryptionAlgorithm.String(), jwex.ErrKeySize)
	}
	return nil
}

// LogValue keeps secrets out of logs.
func (c ClientCryptoConfig) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("token_type", c.TokenType.String()),
		slog.String("sig_alg", c.SignatureAlgorithm.String()),
	}
	if c.TokenType.Nested() {
		attrs = append(attrs,
			slog.String("enc_alg", c.EncryptionAlgorithm.String()),
			slog.String("enc", c.EncryptionMethod.String()),
		)
	}
	return slog.GroupValue(attrs...)
}
