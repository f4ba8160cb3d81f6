package strategy

import (
	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/josex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

// nestedCodec signs and then encrypts, so the JWE payload is a JWS.
type nestedCodec struct{}

func (nestedCodec) encode(cfg domain.ClientCryptoConfig, claims jwtx.ClaimSet) (string, error) {
	if len(cfg.EncryptionSecret) == 0 {
		return "", errx.Invalid(opGenerate, "encryption secret is required")
	}
	return josex.Compose(claims,
		cfg.SignatureAlgorithm, cfg.SignatureSecret,
		cfg.EncryptionAlgorithm, cfg.EncryptionMethod, cfg.EncryptionSecret,
	)
}

func (nestedCodec) decode(cfg domain.ClientCryptoConfig, token string, verify []jwtx.VerifyOption) (jwtx.ClaimSet, error) {
	if len(cfg.EncryptionSecret) == 0 {
		return nil, errx.Invalid(opGetPayload, "encryption secret is required")
	}
	return josex.Decompose(token, cfg.EncryptionSecret, cfg.SignatureSecret,
		josex.WithDecryptOptions(jwex.WithExpected(cfg.EncryptionAlgorithm, cfg.EncryptionMethod)),
		josex.WithVerifyOptions(verify...),
	)
}

// NewEncrypted returns the JWE strategy: a JWS nested inside a JWE.
func NewEncrypted(opts ...Option) Strategy {
	return &pipeline{typ: domain.TokenTypeJWE, codec: nestedCodec{}, opts: buildOptions(opts)}
}
