package telemetry

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// TracerProviderOption customizes NewTracerProvider
type TracerProviderOption func(*tracerProviderConfig)

type tracerProviderConfig struct {
	exporter sdktrace.SpanExporter
}

// WithSpanExporter replaces the OTLP exporter. Spans are exported synchronously as they end.
func WithSpanExporter(exp sdktrace.SpanExporter) TracerProviderOption {
	return func(cfg *tracerProviderConfig) {
		cfg.exporter = exp
	}
}

// NewTracerProvider creates the provider for update, remove and click spans, exporting
// to target. A nil or disabled tracing config yields a no-op provider. The SDK provider
// is also installed globally along with the W3C trace context propagator.
func NewTracerProvider(
	ctx context.Context,
	target Target,
	tracing *TracingConfig,
	opts ...TracerProviderOption,
) (trace.TracerProvider, error) {
	if tracing == nil || !tracing.Enabled {
		slog.Debug("Tracing disabled, using no-op tracer provider")
		return noop.NewTracerProvider(), nil
	}

	cfg := &tracerProviderConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	res, err := target.resource(ctx)
	if err != nil {
		return nil, err
	}

	processor, err := spanProcessor(ctx, target, cfg.exporter)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		processor,
		// Requests arriving with a sampled parent stay sampled regardless of the ratio
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(tracing.GetSampling()))),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	slog.Info("Tracing initialized",
		"endpoint", target.Endpoint,
		"sampling_ratio", tracing.GetSampling(),
		"custom_exporter", cfg.exporter != nil,
	)
	return tp, nil
}

// spanProcessor batches spans to the OTLP collector of target, or exports them
// synchronously to exp when one is given
func spanProcessor(ctx context.Context, target Target, exp sdktrace.SpanExporter) (sdktrace.TracerProviderOption, error) {
	if exp != nil {
		return sdktrace.WithSyncer(exp), nil
	}

	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(target.Endpoint)}
	if target.Insecure {
		slog.Warn("Tracing over unencrypted HTTP", "endpoint", target.Endpoint)
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	otlp, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	return sdktrace.WithBatcher(otlp), nil
}
