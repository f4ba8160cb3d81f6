package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tokensmith/internal/tokens/domain"
	"github.com/aussiebroadwan/tokensmith/pkg/errx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Token operations as recorded by Metrics.
const (
	OpIssue = "issue"
	OpRead  = "read"
)

// Metrics records token operations. Implementations must be safe for
// concurrent use.
type Metrics interface {
	RecordToken(ctx context.Context, op string, t domain.TokenType, d time.Duration, err error)
}

type otelMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetrics creates the token instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	total, err := meter.Int64Counter(
		"tokens.operations",
		metric.WithDescription("Token issue and read operations by outcome"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"tokens.operation.duration_ms",
		metric.WithDescription("Token operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{total: total, duration: duration}, nil
}

func (m *otelMetrics) RecordToken(ctx context.Context, op string, t domain.TokenType, d time.Duration, err error) {
	opt := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("token_type", t.String()),
		attribute.String("outcome", outcome(err)),
	)
	m.total.Add(ctx, 1, opt)
	m.duration.Record(ctx, float64(d.Microseconds())/1000, opt)
}

// outcome is a low-cardinality label for err.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch errx.KindOf(err) {
	case errx.ErrInvalidArgument:
		return "invalid_argument"
	case errx.ErrTokenInvalid:
		return "token_invalid"
	case errx.ErrTokenExpired:
		return "token_expired"
	case errx.ErrCryptoFailed:
		return "crypto_failed"
	}
	return "error"
}

type noopMetrics struct{}

func (noopMetrics) RecordToken(context.Context, string, domain.TokenType, time.Duration, error) {}
