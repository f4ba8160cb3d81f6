// Package metricx builds an OpenTelemetry meter provider whose reader is
// chosen by name, so deployments pick an exporter through configuration.
package metricx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Exporter names accepted by Config.Exporter.
const (
	ExporterNone       = "none"
	ExporterStdout     = "stdout"
	ExporterOTLP       = "otlp"
	ExporterPrometheus = "prometheus"
)

type Config struct {
	Service  string
	Version  string
	Exporter string // none (default), stdout, otlp or prometheus
}

// Provider owns the meter provider and, for the prometheus exporter, the
// scrape handler.
type Provider struct {
	mp      *sdkmetric.MeterProvider
	handler http.Handler
}

// New builds a Provider for cfg.Exporter.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	p := &Provider{}

	reader, err := p.newReader(ctx, cfg.Exporter)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.Service),
		attribute.String("service.version", cfg.Version),
	)

	p.mp = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(reader),
		sdkmetric.WithResource(res),
	)
	return p, nil
}

func (p *Provider) newReader(ctx context.Context, name string) (sdkmetric.Reader, error) {
	switch name {
	case ExporterStdout:
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(os.Stdout))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case ExporterOTLP:
		if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" && os.Getenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT") == "" {
			return nil, errors.New("OTLP metrics endpoint not configured: set OTEL_EXPORTER_OTLP_ENDPOINT or OTEL_EXPORTER_OTLP_METRICS_ENDPOINT")
		}
		exp, err := otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil

	case ExporterPrometheus:
		// A private registry keeps several providers in one process apart.
		reg := promclient.NewRegistry()
		exp, err := otelprom.New(otelprom.WithRegisterer(reg))
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
		}
		p.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
		return exp, nil

	case ExporterNone, "":
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(io.Discard))
		if err != nil {
			return nil, err
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	}
	return nil, fmt.Errorf("unknown metrics exporter: %q", name)
}

// Meter returns a named meter from the provider.
func (p *Provider) Meter(name string) metric.Meter {
	return p.mp.Meter(name)
}

// Handler serves the prometheus scrape endpoint. It is nil for every other
// exporter.
func (p *Provider) Handler() http.Handler {
	return p.handler
}

// Shutdown flushes pending metrics and stops the reader.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.mp.Shutdown(ctx)
}
