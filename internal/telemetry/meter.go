// Package telemetry wires OpenTelemetry metrics for the vault sync server
// and exposes them in the Prometheus text format.
package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-vault-sync/internal/config"
	"github.com/MKhiriev/go-vault-sync/internal/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// ServiceName is reported as the service.name resource attribute.
const ServiceName = "go-vault-sync"

// Provider owns the meter provider and the HTTP handler serving its
// metrics. When metrics are disabled the provider is a no-op and Handler
// is nil.
type Provider struct {
	MeterProvider metric.MeterProvider
	Handler       http.Handler

	shutdown func(context.Context) error
}

// NewMeterProvider builds a Prometheus-backed meter provider, or a no-op one
// when cfg.MetricsEnabled is false. Every provider gets its own registry so
// that tests and multiple servers in one process do not collide.
func NewMeterProvider(cfg config.Telemetry, serviceVersion string, log *logger.Logger) (*Provider, error) {
	if !cfg.MetricsEnabled {
		log.Info().Str("func", "telemetry.NewMeterProvider").Msg("metrics disabled, using no-op meter provider")
		return &Provider{
			MeterProvider: noop.NewMeterProvider(),
			shutdown:      func(context.Context) error { return nil },
		}, nil
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", serviceVersion),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	log.Info().Str("func", "telemetry.NewMeterProvider").Msg("metrics initialized")

	return &Provider{
		MeterProvider: mp,
		Handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		shutdown:      mp.Shutdown,
	}, nil
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.shutdown == nil {
		return nil
	}
	return p.shutdown(ctx)
}
