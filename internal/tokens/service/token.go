package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/internal/tokens/strategy"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/josex"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
	"github.com/aussiebroadwan/tokensmith/pkg/slogx"
)

// IssuedToken is the result of TokenService.Generate.
type IssuedToken struct {
	Token     string
	TokenType domain.TokenType
	Kind      josex.Kind
	ExpiresIn time.Duration
}

// TokenService issues and reads tokens for stored clients by dispatching
// through the strategy registry.
type TokenService struct {
	Registry *strategy.Registry
	Configs  ConfigSource

	DefaultTTL time.Duration // used when the caller passes zero
	MaxTTL     time.Duration // longer requests are capped

	Metrics Metrics // optional
}

// Generate issues a token for clientID carrying claims.
func (s *TokenService) Generate(
	ctx context.Context,
	clientID string,
	claims map[string]any,
	ttl time.Duration,
) (IssuedToken, error) {
	l := slogx.FromContext(ctx)

	ttl, err := s.effectiveTTL(ttl)
	if err != nil {
		return IssuedToken{}, err
	}

	cfg, err := s.Configs.LoadConfig(ctx, clientID)
	if err != nil {
		return IssuedToken{}, err
	}

	start := time.Now()
	token, err := s.GenerateFor(cfg.TokenType, cfg, claims, ttl)
	s.metrics().RecordToken(ctx, OpIssue, cfg.TokenType, time.Since(start), err)
	if err != nil {
		l.Warn("token generation failed", "client_id", clientID, "config", cfg, "error", err)
		return IssuedToken{}, err
	}

	l.Debug("token issued", "client_id", clientID, "token_type", cfg.TokenType.String(), "ttl", ttl)
	return IssuedToken{
		Token:     token,
		TokenType: cfg.TokenType,
		Kind:      josex.Classify(token),
		ExpiresIn: ttl,
	}, nil
}

// GetPayload validates token against the policy of clientID and returns
// its claims.
func (s *TokenService) GetPayload(ctx context.Context, clientID, token string) (jwtx.ClaimSet, error) {
	cfg, err := s.Configs.LoadConfig(ctx, clientID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	claims, err := s.PayloadFor(cfg.TokenType, cfg, token)
	s.metrics().RecordToken(ctx, OpRead, cfg.TokenType, time.Since(start), err)
	if err != nil {
		slogx.FromContext(ctx).Info("token rejected", "client_id", clientID, "kind", errx.KindOf(err), "error", err)
		return nil, err
	}
	return claims, nil
}

// TryGetPayload is GetPayload with the error captured in the Result.
func (s *TokenService) TryGetPayload(ctx context.Context, clientID, token string) strategy.Result {
	claims, err := s.GetPayload(ctx, clientID, token)
	return strategy.Result{Claims: claims, Err: err}
}

// Classify reports the structural kind of token without validating it.
func (s *TokenService) Classify(token string) josex.Kind {
	return josex.Classify(token)
}

// GenerateFor issues a token of type t under cfg, with no store involved.
func (s *TokenService) GenerateFor(
	t domain.TokenType,
	cfg domain.ClientCryptoConfig,
	claims map[string]any,
	ttl time.Duration,
) (string, error) {
	st, err := s.lookup("token.generate", t)
	if err != nil {
		return "", err
	}
	return st.Generate(cfg, claims, ttl)
}

// PayloadFor reads a token of type t under cfg, with no store involved.
func (s *TokenService) PayloadFor(t domain.TokenType, cfg domain.ClientCryptoConfig, token string) (jwtx.ClaimSet, error) {
	st, err := s.lookup("token.get_payload", t)
	if err != nil {
		return nil, err
	}
	return st.GetPayload(cfg, token)
}

func (s *TokenService) metrics() Metrics {
	if s.Metrics == nil {
		return noopMetrics{}
	}
	return s.Metrics
}

func (s *TokenService) lookup(op string, t domain.TokenType) (strategy.Strategy, error) {
	st, ok := s.Registry.Lookup(t)
	if !ok {
		return nil, errx.Invalid(op, "unsupported token type "+t.String())
	}
	return st, nil
}

func (s *TokenService) effectiveTTL(ttl time.Duration) (time.Duration, error) {
	switch {
	case ttl < 0:
		return 0, errx.Invalid("token.generate", "ttl must not be negative")
	case ttl == 0:
		ttl = s.DefaultTTL
		if ttl <= 0 {
			ttl = jwtx.DefaultTokenTTL
		}
	}

	maxTTL := s.MaxTTL
	if maxTTL <= 0 {
		maxTTL = jwtx.MaxTokenTTL
	}
	return min(ttl, maxTTL), nil
}
