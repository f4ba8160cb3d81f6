// Package strategy maps each logical token type onto the engine packages.
//
// A Strategy runs a fixed pipeline: it checks its inputs, opens or seals the
// optional process envelope, signs or verifies (and for nested types
// encrypts or decrypts), then builds or reads the claim set.
package strategy

import (
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

const (
	opGenerate   = "strategy.generate"
	opGetPayload = "strategy.get_payload"
)

// Strategy issues and reads tokens of one TokenType. Implementations are
// stateless and safe for concurrent use.
type Strategy interface {
	Type() domain.TokenType

	// Generate stamps iat/exp onto claims and returns the compact token.
	Generate(cfg domain.ClientCryptoConfig, claims map[string]any, ttl time.Duration) (string, error)

	// GetPayload checks token and returns its claims, iat and exp as int64.
	GetPayload(cfg domain.ClientCryptoConfig, token string) (jwtx.ClaimSet, error)
}

// Option configures the strategies built by this package.
type Option func(*options)

type options struct {
	now    func() time.Time
	leeway time.Duration
}

// WithClock sets the time source used for iat/exp and the expiry check.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLeeway tolerates clock skew of d when checking exp.
func WithLeeway(d time.Duration) Option {
	return func(o *options) { o.leeway = d }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// codec is the cryptographic core of a strategy, free of type checks.
type codec interface {
	encode(cfg domain.ClientCryptoConfig, claims jwtx.ClaimSet) (string, error)
	decode(cfg domain.ClientCryptoConfig, token string, verify []jwtx.VerifyOption) (jwtx.ClaimSet, error)
}

// pipeline implements Strategy around a codec.
type pipeline struct {
	typ   domain.TokenType
	codec codec
	opts  options
}

func (p *pipeline) Type() domain.TokenType { return p.typ }

func (p *pipeline) Generate(cfg domain.ClientCryptoConfig, claims map[string]any, ttl time.Duration) (string, error) {
	if err := p.accepts(opGenerate, cfg); err != nil {
		return "", err
	}
	if ttl <= 0 {
		return "", errx.Invalid(opGenerate, "ttl must be positive")
	}

	set, err := jwtx.NewClaimSet(claims, ttl, p.opts.now())
	if err != nil {
		return "", err
	}
	token, err := p.codec.encode(cfg, set)
	if err != nil {
		return "", errx.Wrap(errx.ErrCryptoFailed, opGenerate, "", err)
	}
	return token, nil
}

func (p *pipeline) GetPayload(cfg domain.ClientCryptoConfig, token string) (jwtx.ClaimSet, error) {
	if err := p.accepts(opGetPayload, cfg); err != nil {
		return nil, err
	}
	if token == "" {
		return nil, errx.Invalid(opGetPayload, "token is required")
	}

	verify := []jwtx.VerifyOption{
		jwtx.WithClock(p.opts.now),
		jwtx.WithLeeway(p.opts.leeway),
		jwtx.WithAlgorithm(cfg.SignatureAlgorithm),
	}
	claims, err := p.codec.decode(cfg, token, verify)
	if err != nil {
		return nil, errx.Wrap(errx.ErrCryptoFailed, opGetPayload, "", err)
	}
	return claims, nil
}

// accepts refuses configs declared for another token type.
func (p *pipeline) accepts(op string, cfg domain.ClientCryptoConfig) error {
	if cfg.TokenType != p.typ {
		return errx.Invalid(op, "config is for token type "+cfg.TokenType.String()+", strategy handles "+p.typ.String())
	}
	if len(cfg.SignatureSecret) == 0 {
		return errx.Invalid(op, "signature secret is required")
	}
	return nil
}
