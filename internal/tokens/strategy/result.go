package strategy

import (
	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
)

// Result is the outcome of a read that reports failure as a value.
type Result struct {
	Claims jwtx.ClaimSet
	Err    error
}

// OK reports whether the read succeeded.
func (r Result) OK() bool { return r.Err == nil }

// TryGetPayload is GetPayload with the error captured in the Result.
func TryGetPayload(s Strategy, cfg domain.ClientCryptoConfig, token string) Result {
	claims, err := s.GetPayload(cfg, token)
	if err != nil {
		return Result{Err: err}
	}
	return Result{Claims: claims}
}
