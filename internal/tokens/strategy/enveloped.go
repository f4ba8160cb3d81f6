package strategy

import (
	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

const (
	opEnvelopeSeal = "envelope.seal"
	opEnvelopeOpen = "envelope.open"
)

// envelopeCodec seals the complete compact token produced by inner with the
// process envelope. Opening happens before anything inside is looked at, so
// a bad envelope is always a crypto failure, never a token error.
type envelopeCodec struct {
	env   *cryptox.Envelope
	inner codec
}

func (c envelopeCodec) encode(cfg domain.ClientCryptoConfig, claims jwtx.ClaimSet) (string, error) {
	token, err := c.inner.encode(cfg, claims)
	if err != nil {
		return "", err
	}
	sealed, err := c.env.Seal(token)
	if err != nil {
		return "", errx.New(errx.ErrCryptoFailed, opEnvelopeSeal, "", err)
	}
	return sealed, nil
}

func (c envelopeCodec) decode(cfg domain.ClientCryptoConfig, token string, verify []jwtx.VerifyOption) (jwtx.ClaimSet, error) {
	inner, err := c.env.Open(token)
	if err != nil {
		return nil, errx.New(errx.ErrCryptoFailed, opEnvelopeOpen, "", err)
	}
	return c.inner.decode(cfg, inner, verify)
}

// NewEnvelopedSigned returns the ENCRYPTED_JWS strategy.
func NewEnvelopedSigned(env *cryptox.Envelope, opts ...Option) (Strategy, error) {
	return newEnveloped(domain.TokenTypeEncryptedJWS, env, signedCodec{}, opts)
}

// NewEnvelopedEncrypted returns the ENCRYPTED_JWE strategy.
func NewEnvelopedEncrypted(env *cryptox.Envelope, opts ...Option) (Strategy, error) {
	return newEnveloped(domain.TokenTypeEncryptedJWE, env, nestedCodec{}, opts)
}

func newEnveloped(typ domain.TokenType, env *cryptox.Envelope, inner codec, opts []Option) (Strategy, error) {
	if env == nil {
		return nil, errx.New(errx.ErrRegistryMisconfigured, "strategy.new", "", errNoEnvelope(typ))
	}
	return &pipeline{typ: typ, codec: envelopeCodec{env: env, inner: inner}, opts: buildOptions(opts)}, nil
}
