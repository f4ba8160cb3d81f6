package strategy

import (
	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

type signedCodec struct{}

func (signedCodec) encode(cfg domain.ClientCryptoConfig, claims jwtx.ClaimSet) (string, error) {
	return jwtx.Sign(claims, cfg.SignatureAlgorithm, cfg.SignatureSecret)
}

func (signedCodec) decode(cfg domain.ClientCryptoConfig, token string, verify []jwtx.VerifyOption) (jwtx.ClaimSet, error) {
	return jwtx.Verify(token, cfg.SignatureSecret, verify...)
}

// NewSigned returns the JWS strategy.
func NewSigned(opts ...Option) Strategy {
	return &pipeline{typ: domain.TokenTypeJWS, codec: signedCodec{}, opts: buildOptions(opts)}
}
