package jwtx

import (
	"encoding/json"
	"maps"
	"math"
	"time"

	"github.com/aussiebroadwan/tokensmith/pkg/errx"
)

// Reserved claim names managed by the codec.
const (
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
)

// Default token TTL constants. Services can override them per deployment.
const (
	// DefaultTokenTTL is used when a caller does not ask for a lifetime.
	DefaultTokenTTL = 15 * time.Minute

	// MaxTokenTTL bounds caller supplied lifetimes.
	MaxTokenTTL = 24 * time.Hour
)

// ClaimSet is the logical payload of a token. Besides arbitrary caller keys
// it always carries iat and exp (epoch seconds) once built or parsed.
type ClaimSet map[string]any

// NewClaimSet copies claims and stamps iat=now and exp=now+ttl. The
// computed values replace any caller supplied iat/exp. ttl must be at least
// one second so exp is strictly after iat at second precision.
func NewClaimSet(claims map[string]any, ttl time.Duration, now time.Time) (ClaimSet, error) {
	if ttl < time.Second {
		return nil, errx.Invalid("claims.build", "ttl must be at least one second")
	}

	out := make(ClaimSet, len(claims)+2)
	maps.Copy(out, claims)

	out[ClaimIssuedAt] = now.Unix()
	out[ClaimExpiresAt] = now.Add(ttl).Unix()
	return out, nil
}

// ReadClaims returns a copy of the full claim map with iat and exp
// normalised to int64.
func ReadClaims(c ClaimSet) map[string]any {
	out := make(map[string]any, len(c))
	maps.Copy(out, c)

	for _, k := range []string{ClaimIssuedAt, ClaimExpiresAt} {
		if v, ok := numericClaim(c, k); ok {
			out[k] = v
		}
	}
	return out
}

// ExpiresAt returns the exp claim, if present and numeric.
func (c ClaimSet) ExpiresAt() (time.Time, bool) {
	v, ok := numericClaim(c, ClaimExpiresAt)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(v, 0).UTC(), true
}

// IssuedAt returns the iat claim, if present and numeric.
func (c ClaimSet) IssuedAt() (time.Time, bool) {
	v, ok := numericClaim(c, ClaimIssuedAt)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(v, 0).UTC(), true
}

// numericClaim reads an epoch-seconds claim whatever JSON decoding gave us.
func numericClaim(c ClaimSet, key string) (int64, bool) {
	switch v := c[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}
