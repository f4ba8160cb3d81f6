package jwtx_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewClaimSet(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	claims, err := jwtx.NewClaimSet(map[string]any{"username": "alice"}, time.Minute, now)
	require.NoError(t, err)
	require.Equal(t, "alice", claims["username"])
	require.Equal(t, now.Unix(), claims[jwtx.ClaimIssuedAt])
	require.Equal(t, now.Unix()+60, claims[jwtx.ClaimExpiresAt])

	exp, ok := claims.ExpiresAt()
	require.True(t, ok)
	iat, ok := claims.IssuedAt()
	require.True(t, ok)
	require.True(t, exp.After(iat))
}

func TestNewClaimSetOverridesReservedClaims(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	claims, err := jwtx.NewClaimSet(map[string]any{"exp": 1, "iat": 99999999999}, time.Hour, now)
	require.NoError(t, err)
	require.Equal(t, now.Unix(), claims["iat"])
	require.Equal(t, now.Add(time.Hour).Unix(), claims["exp"])
}

func TestNewClaimSetDoesNotAliasInput(t *testing.T) {
	in := map[string]any{"k": "v"}

	claims, err := jwtx.NewClaimSet(in, time.Minute, time.Now())
	require.NoError(t, err)

	claims["k"] = "changed"
	require.Equal(t, "v", in["k"])
	require.NotContains(t, in, "exp")
}

func TestNewClaimSetRejectsShortTTL(t *testing.T) {
	for _, ttl := range []time.Duration{0, -time.Second, 500 * time.Millisecond} {
		_, err := jwtx.NewClaimSet(nil, ttl, time.Now())
		require.ErrorIs(t, err, errx.ErrInvalidArgument, "ttl %s", ttl)
	}
}

func TestReadClaimsNormalisesNumericDates(t *testing.T) {
	in := jwtx.ClaimSet{
		"iat":  float64(1_700_000_000),
		"exp":  json.Number("1700000060"),
		"name": "bob",
	}

	out := jwtx.ReadClaims(in)
	require.Equal(t, int64(1_700_000_000), out["iat"])
	require.Equal(t, int64(1_700_000_060), out["exp"])
	require.Equal(t, "bob", out["name"])

	// the input is left alone
	require.IsType(t, float64(0), in["iat"])
}

func TestClaimSetWithoutTimes(t *testing.T) {
	c := jwtx.ClaimSet{"exp": "soon"}

	_, ok := c.ExpiresAt()
	require.False(t, ok)
	_, ok = c.IssuedAt()
	require.False(t, ok)
}
