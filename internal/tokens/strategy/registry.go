package strategy

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/pkg/cryptox"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
)

const opRegistry = "registry.build"

var (
	ErrDuplicateStrategy = errors.New("strategy: token type registered twice")
	ErrMissingStrategy   = errors.New("strategy: token type has no strategy")
	ErrNilStrategy       = errors.New("strategy: nil strategy")
)

func errNoEnvelope(typ domain.TokenType) error {
	return fmt.Errorf("strategy: %s needs an envelope", typ)
}

// Registry maps every TokenType to exactly one Strategy. It is immutable
// once built and needs no locking.
type Registry struct {
	byType map[domain.TokenType]Strategy
}

// NewRegistry indexes strategies by type. Two strategies for one type, or
// any TokenType left uncovered, fail with errx.ErrRegistryMisconfigured.
func NewRegistry(strategies ...Strategy) (*Registry, error) {
	byType := make(map[domain.TokenType]Strategy, len(strategies))
	for _, s := range strategies {
		if s == nil {
			return nil, errx.New(errx.ErrRegistryMisconfigured, opRegistry, "", ErrNilStrategy)
		}
		t := s.Type()
		if !t.Valid() {
			return nil, errx.New(errx.ErrRegistryMisconfigured, opRegistry, "", fmt.Errorf("%w: %d", domain.ErrUnknownTokenType, uint8(t)))
		}
		if _, dup := byType[t]; dup {
			return nil, errx.New(errx.ErrRegistryMisconfigured, opRegistry, "", fmt.Errorf("%w: %s", ErrDuplicateStrategy, t))
		}
		byType[t] = s
	}

	var missing []error
	for _, t := range domain.TokenTypes() {
		if _, ok := byType[t]; !ok {
			missing = append(missing, fmt.Errorf("%w: %s", ErrMissingStrategy, t))
		}
	}
	if len(missing) > 0 {
		return nil, errx.New(errx.ErrRegistryMisconfigured, opRegistry, "", errors.Join(missing...))
	}
	return &Registry{byType: byType}, nil
}

// constructor builds the strategy for one token type.
type constructor func(env *cryptox.Envelope, opts ...Option) (Strategy, error)

// constructors is the static table behind DefaultStrategies.
var constructors = map[domain.TokenType]constructor{
	domain.TokenTypeJWS: func(_ *cryptox.Envelope, opts ...Option) (Strategy, error) {
		return NewSigned(opts...), nil
	},
	domain.TokenTypeJWE: func(_ *cryptox.Envelope, opts ...Option) (Strategy, error) {
		return NewEncrypted(opts...), nil
	},
	domain.TokenTypeEncryptedJWS: NewEnvelopedSigned,
	domain.TokenTypeEncryptedJWE: NewEnvelopedEncrypted,
}

// DefaultStrategies builds one strategy per TokenType from the static table.
// env seals the enveloped token types.
func DefaultStrategies(env *cryptox.Envelope, opts ...Option) ([]Strategy, error) {
	out := make([]Strategy, 0, len(constructors))
	for _, t := range domain.TokenTypes() {
		build, ok := constructors[t]
		if !ok {
			return nil, errx.New(errx.ErrRegistryMisconfigured, opRegistry, "", fmt.Errorf("%w: %s", ErrMissingStrategy, t))
		}
		s, err := build(env, opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// NewDefaultRegistry is NewRegistry over DefaultStrategies.
func NewDefaultRegistry(env *cryptox.Envelope, opts ...Option) (*Registry, error) {
	strategies, err := DefaultStrategies(env, opts...)
	if err != nil {
		return nil, err
	}
	return NewRegistry(strategies...)
}

// Lookup returns the strategy for t.
func (r *Registry) Lookup(t domain.TokenType) (Strategy, bool) {
	s, ok := r.byType[t]
	return s, ok
}

// Types lists the registered token types in enum order.
func (r *Registry) Types() []domain.TokenType {
	out := make([]domain.TokenType, 0, len(r.byType))
	for t := range r.byType {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
