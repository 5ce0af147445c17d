package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultMetricsInterval is how often metrics are pushed over OTLP
const DefaultMetricsInterval = 30 * time.Second

// MeterProviderOption customizes NewMeterProvider
type MeterProviderOption func(*meterProviderConfig)

type meterProviderConfig struct {
	registerer prometheus.Registerer
	readers    []sdkmetric.Reader
}

// WithPrometheusRegisterer sets the registry the Prometheus exporter registers its
// collector with. Defaults to prometheus.DefaultRegisterer.
func WithPrometheusRegisterer(reg prometheus.Registerer) MeterProviderOption {
	return func(cfg *meterProviderConfig) {
		cfg.registerer = reg
	}
}

// WithMetricReader installs r next to the configured exporters
func WithMetricReader(r sdkmetric.Reader) MeterProviderOption {
	return func(cfg *meterProviderConfig) {
		cfg.readers = append(cfg.readers, r)
	}
}

// NewMeterProvider creates the provider behind the marker, resolver, selection and HTTP
// instruments. A nil or disabled metrics config yields a no-op provider. The SDK provider
// is also installed globally; callers shut it down on exit.
func NewMeterProvider(
	ctx context.Context,
	target Target,
	metrics *MetricsConfig,
	opts ...MeterProviderOption,
) (metric.MeterProvider, error) {
	if metrics == nil || !metrics.Enabled {
		slog.Debug("Metrics disabled, using no-op meter provider")
		return noop.NewMeterProvider(), nil
	}

	cfg := &meterProviderConfig{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(cfg)
	}

	res, err := target.resource(ctx)
	if err != nil {
		return nil, err
	}

	readers, err := exporterReaders(ctx, target, metrics, cfg.registerer)
	if err != nil {
		return nil, err
	}

	mpOpts := []sdkmetric.Option{sdkmetric.WithResource(res)}
	for _, reader := range append(readers, cfg.readers...) {
		mpOpts = append(mpOpts, sdkmetric.WithReader(reader))
	}
	mp := sdkmetric.NewMeterProvider(mpOpts...)
	otel.SetMeterProvider(mp)

	slog.Info("Metrics initialized",
		"exporters", metrics.GetExporters(),
		"endpoint", target.Endpoint,
	)
	return mp, nil
}

// exporterReaders builds one reader per configured exporter
func exporterReaders(
	ctx context.Context,
	target Target,
	metrics *MetricsConfig,
	registerer prometheus.Registerer,
) ([]sdkmetric.Reader, error) {
	var readers []sdkmetric.Reader

	if metrics.HasExporter(ExporterOTLP) {
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(target.Endpoint)}
		if target.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
		}
		readers = append(readers, sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(DefaultMetricsInterval)))
	}

	if metrics.HasExporter(ExporterPrometheus) {
		exporter, err := otelprom.New(otelprom.WithRegisterer(registerer))
		if err != nil {
			return nil, fmt.Errorf("failed to create Prometheus metrics exporter: %w", err)
		}
		readers = append(readers, exporter)
	}

	return readers, nil
}
