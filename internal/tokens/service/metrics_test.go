package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"github.com/aussiebroadwan/tokensmith/pkg/jwtx"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{fmt.Errorf("read: %w", errx.Invalid("op", "bad")), "invalid_argument"},
		{errx.New(errx.ErrTokenInvalid, "op", "HS256", jwtx.ErrInvalidSig), "token_invalid"},
		{errx.New(errx.ErrTokenExpired, "op", "HS256", nil), "token_expired"},
		{errx.New(errx.ErrCryptoFailed, "op", "RS256", errors.New("bad pem")), "crypto_failed"},
		{errors.New("disk on fire"), "error"},
	}

	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			require.Equal(t, tc.want, outcome(tc.err))
		})
	}
}

// operations returns the tokens.operations data points keyed by
// "op/token_type/outcome".
func operations(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	out := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "tokens.operations" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "unexpected data type %T", m.Data)
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value(attribute.Key("op"))
				tt, _ := dp.Attributes.Value(attribute.Key("token_type"))
				oc, _ := dp.Attributes.Value(attribute.Key("outcome"))
				out[op.AsString()+"/"+tt.AsString()+"/"+oc.AsString()] = dp.Value
			}
		}
	}
	return out
}

func TestTokenServiceRecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(ctx) })

	m, err := NewMetrics(mp.Meter("test"))
	require.NoError(t, err)

	f := newFixture(t)
	f.tokens.Metrics = m

	client, _, err := f.clients.CreateClient(ctx, "metered", domain.ClientCryptoConfig{
		TokenType:          domain.TokenTypeJWS,
		SignatureAlgorithm: jwtx.HS256,
	})
	require.NoError(t, err)

	issued, err := f.tokens.Generate(ctx, client.ID, nil, time.Minute)
	require.NoError(t, err)
	_, err = f.tokens.GetPayload(ctx, client.ID, issued.Token)
	require.NoError(t, err)
	_, err = f.tokens.GetPayload(ctx, client.ID, "garbage")
	require.Error(t, err)

	// unknown clients fail before any token work and are not recorded
	_, err = f.tokens.Generate(ctx, "unknown", nil, time.Minute)
	require.Error(t, err)

	require.Equal(t, map[string]int64{
		"issue/JWS/ok":           1,
		"read/JWS/ok":            1,
		"read/JWS/token_invalid": 1,
	}, operations(t, reader))
}
