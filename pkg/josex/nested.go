// Package josex composes the signature and encryption engines: a JWS nested
// inside a JWE, and structural classification of compact tokens.
package josex

import (
	"errors"
	"strings"

	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/jwex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

const opDecompose = "jose.decompose"

// ErrNotNested is returned when a decrypted payload is not a signed JWT.
var ErrNotNested = errors.New("josex: payload is not a nested JWT")

// Option configures Decompose.
type Option func(*options)

type options struct {
	verify  []jwtx.VerifyOption
	decrypt []jwex.DecryptOption
}

// WithVerifyOptions passes opts to the inner signature check.
func WithVerifyOptions(opts ...jwtx.VerifyOption) Option {
	return func(o *options) { o.verify = append(o.verify, opts...) }
}

// WithDecryptOptions passes opts to the outer decryption.
func WithDecryptOptions(opts ...jwex.DecryptOption) Option {
	return func(o *options) { o.decrypt = append(o.decrypt, opts...) }
}

// Compose signs claims and encrypts the resulting JWS, marking the JWE
// with cty "JWT" so the reader knows to verify what it decrypts.
func Compose(
	claims jwtx.ClaimSet,
	sigAlg jwtx.SignatureAlgorithm, sigSecret []byte,
	encAlg jwex.Algorithm, enc jwex.Method, encSecret []byte,
) (string, error) {
	jws, err := jwtx.Sign(claims, sigAlg, sigSecret)
	if err != nil {
		return "", err
	}
	return jwex.Encrypt([]byte(jws), encAlg, enc, encSecret, jwex.WithContentType(jwex.ContentTypeJWT))
}

// Decompose reverses Compose. Decryption runs first and its errors win:
// the signature cannot be checked before the JWS is recovered.
func Decompose(token string, encSecret, sigSecret []byte, opts ...Option) (jwtx.ClaimSet, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if len(sigSecret) == 0 {
		return nil, errx.Invalid(opDecompose, "signature secret is required")
	}

	h, payload, err := jwex.Decrypt(token, encSecret, o.decrypt...)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(h.Cty, jwex.ContentTypeJWT) {
		return nil, errx.New(errx.ErrTokenInvalid, opDecompose, h.Alg, ErrNotNested)
	}
	inner := string(payload)
	if !jwtx.IsJWS(inner) {
		return nil, errx.New(errx.ErrTokenInvalid, opDecompose, h.Alg, ErrNotNested)
	}

	return jwtx.Verify(inner, sigSecret, o.verify...)
}
