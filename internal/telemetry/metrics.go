package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// MarkerMetricsMeterName is the name used for the marker generation meter
	MarkerMetricsMeterName = "github.com/arenarium/mapmarkers/markers"

	// ResolverMetricsMeterName is the name used for the body resolution meter
	ResolverMetricsMeterName = "github.com/arenarium/mapmarkers/resolver"

	// SelectionMetricsMeterName is the name used for the selection meter
	SelectionMetricsMeterName = "github.com/arenarium/mapmarkers/selection"
)

// MarkerMetrics holds the OpenTelemetry instruments for marker generations
type MarkerMetrics struct {
	markersTotal     metric.Int64Gauge
	generationsTotal metric.Int64Counter
	cycleDuration    metric.Float64Histogram
}

// NewMarkerMetrics creates a new MarkerMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewMarkerMetrics(provider metric.MeterProvider) (*MarkerMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(MarkerMetricsMeterName)

	markersTotal, err := meter.Int64Gauge(
		"mapmarkers_markers_total",
		metric.WithDescription("Number of markers in the current generation"),
		metric.WithUnit("{marker}"),
	)
	if err != nil {
		return nil, err
	}

	generationsTotal, err := meter.Int64Counter(
		"mapmarkers_generations_total",
		metric.WithDescription("Number of marker generations installed"),
		metric.WithUnit("{generation}"),
	)
	if err != nil {
		return nil, err
	}

	cycleDuration, err := meter.Float64Histogram(
		"mapmarkers_cycle_duration_seconds",
		metric.WithDescription("Duration of update and remove cycles in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5),
	)
	if err != nil {
		return nil, err
	}

	return &MarkerMetrics{
		markersTotal:     markersTotal,
		generationsTotal: generationsTotal,
		cycleDuration:    cycleDuration,
	}, nil
}

// RecordGeneration records an installed generation and its marker count.
// operation is "update" or "remove".
func (m *MarkerMetrics) RecordGeneration(ctx context.Context, operation string, count int64) {
	if m == nil || m.markersTotal == nil || m.generationsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.generationsTotal.Add(ctx, 1, attrs)
	m.markersTotal.Record(ctx, count)
}

// RecordCycleDuration records the duration of one update or remove cycle
func (m *MarkerMetrics) RecordCycleDuration(ctx context.Context, operation string, duration time.Duration, success bool) {
	if m == nil || m.cycleDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	}

	m.cycleDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// ResolverMetrics holds the OpenTelemetry instruments for body resolution
type ResolverMetrics struct {
	resolutionsTotal metric.Int64Counter
}

// NewResolverMetrics creates a new ResolverMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewResolverMetrics(provider metric.MeterProvider) (*ResolverMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(ResolverMetricsMeterName)

	resolutionsTotal, err := meter.Int64Counter(
		"mapmarkers_body_resolutions_total",
		metric.WithDescription("Number of body accessor invocations by slot and outcome"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, err
	}

	return &ResolverMetrics{
		resolutionsTotal: resolutionsTotal,
	}, nil
}

// RecordResolution records one body accessor invocation
func (m *ResolverMetrics) RecordResolution(ctx context.Context, slot, outcome string) {
	if m == nil || m.resolutionsTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("slot", slot),
		attribute.String("outcome", outcome),
	}

	m.resolutionsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// SelectionMetrics holds the OpenTelemetry instruments for popup selection
type SelectionMetrics struct {
	popupCommandsTotal metric.Int64Counter
}

// NewSelectionMetrics creates a new SelectionMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSelectionMetrics(provider metric.MeterProvider) (*SelectionMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SelectionMetricsMeterName)

	popupCommandsTotal, err := meter.Int64Counter(
		"mapmarkers_popup_commands_total",
		metric.WithDescription("Number of popup commands issued to the map engine"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, err
	}

	return &SelectionMetrics{
		popupCommandsTotal: popupCommandsTotal,
	}, nil
}

// RecordPopupCommand records a show or hide popup command and the event that caused it
func (m *SelectionMetrics) RecordPopupCommand(ctx context.Context, command, trigger string) {
	if m == nil || m.popupCommandsTotal == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("command", command),
		attribute.String("trigger", trigger),
	}

	m.popupCommandsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
