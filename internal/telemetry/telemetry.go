// Package telemetry wires OpenTelemetry tracing and metrics for a map session.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Telemetry owns the tracer and meter providers of one process.
// Both are no-ops unless enabled in Config.
type Telemetry struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	metricsHandler http.Handler
}

// Option configures New
type Option func(*telemetryConfig)

type telemetryConfig struct {
	config *Config
}

// WithTelemetryConfig sets the telemetry configuration
func WithTelemetryConfig(cfg *Config) Option {
	return func(tc *telemetryConfig) {
		tc.config = cfg
	}
}

// New builds the providers described by the configuration. Call Shutdown on exit to flush exporters.
func New(ctx context.Context, opts ...Option) (*Telemetry, error) {
	tc := &telemetryConfig{}
	for _, opt := range opts {
		opt(tc)
	}

	cfg := tc.config
	if cfg == nil || !cfg.Enabled {
		slog.Debug("Telemetry disabled")
		return &Telemetry{
			tracerProvider: tracenoop.NewTracerProvider(),
			meterProvider:  metricnoop.NewMeterProvider(),
		}, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry configuration: %w", err)
	}

	slog.Info("Initializing telemetry",
		"service_name", cfg.GetServiceName(),
		"service_version", cfg.GetServiceVersion(),
		"endpoint", cfg.GetEndpoint(),
	)

	target := cfg.Target()
	tp, err := NewTracerProvider(ctx, target, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}
	tel := &Telemetry{tracerProvider: tp}

	// A private registry keeps /metrics limited to this session's instruments and lets
	// several sessions coexist in one process.
	var meterOpts []MeterProviderOption
	if cfg.Metrics != nil && cfg.Metrics.Enabled && cfg.Metrics.HasExporter(ExporterPrometheus) {
		registry := prometheus.NewRegistry()
		meterOpts = append(meterOpts, WithPrometheusRegisterer(registry))
		tel.metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	}

	tel.meterProvider, err = NewMeterProvider(ctx, target, cfg.Metrics, meterOpts...)
	if err != nil {
		_ = tel.shutdownTracer(ctx)
		return nil, fmt.Errorf("failed to create meter provider: %w", err)
	}

	return tel, nil
}

// TracerProvider returns the tracer provider
func (t *Telemetry) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// MeterProvider returns the meter provider
func (t *Telemetry) MeterProvider() metric.MeterProvider {
	return t.meterProvider
}

// MetricsHandler returns the Prometheus scrape handler, or nil without the Prometheus exporter
func (t *Telemetry) MetricsHandler() http.Handler {
	return t.metricsHandler
}

// Tracer returns a named tracer
func (t *Telemetry) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return t.tracerProvider.Tracer(name, opts...)
}

// Meter returns a named meter
func (t *Telemetry) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	return t.meterProvider.Meter(name, opts...)
}

func (t *Telemetry) shutdownTracer(ctx context.Context) error {
	tp, ok := t.tracerProvider.(*sdktrace.TracerProvider)
	if !ok {
		return nil
	}
	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}
	return nil
}

func (t *Telemetry) shutdownMeter(ctx context.Context) error {
	mp, ok := t.meterProvider.(*sdkmetric.MeterProvider)
	if !ok {
		return nil
	}
	if err := mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	return nil
}

// Shutdown flushes and stops both providers
func (t *Telemetry) Shutdown(ctx context.Context) error {
	err := errors.Join(t.shutdownTracer(ctx), t.shutdownMeter(ctx))
	if err != nil {
		return err
	}
	slog.Debug("Telemetry shutdown complete")
	return nil
}
