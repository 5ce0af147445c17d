package otel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newRecorder(t *testing.T) (*tracetest.InMemoryExporter, trace.Tracer) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, tp.Tracer("selection")
}

func TestStartSpan(t *testing.T) {
	t.Parallel()

	t.Run("nil tracer", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		got, span := StartSpan(ctx, nil, "selection.TooltipClicked")
		assert.Equal(t, ctx, got)
		assert.False(t, span.SpanContext().IsValid())
		assert.NotPanics(t, func() { span.End() })
	})

	t.Run("nil tracer keeps the parent span", func(t *testing.T) {
		t.Parallel()

		_, tracer := newRecorder(t)
		ctx, parent := tracer.Start(context.Background(), "coordinator.TriggerUpdate")
		defer parent.End()

		_, span := StartSpan(ctx, nil, "selection.GenerationReplaced")
		assert.Equal(t, parent.SpanContext(), span.SpanContext())
	})

	t.Run("records name and attributes", func(t *testing.T) {
		t.Parallel()

		exporter, tracer := newRecorder(t)
		_, span := StartSpan(context.Background(), tracer, "selection.TooltipClicked",
			trace.WithAttributes(AttrMarkerID.String("42"), AttrGeneration.Int64(3)),
		)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "selection.TooltipClicked", spans[0].Name)
		assert.Contains(t, spans[0].Attributes, AttrMarkerID.String("42"))
		assert.Contains(t, spans[0].Attributes, AttrGeneration.Int64(3))
	})
}

func TestRecordError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantCode   codes.Code
		wantDesc   string
		wantEvents int
	}{
		{name: "nil error", err: nil, wantCode: codes.Unset},
		{
			name:       "failure",
			err:        errors.New("failed to render markers: element not ready"),
			wantCode:   codes.Error,
			wantDesc:   statusFailed,
			wantEvents: 1,
		},
		{
			name:       "canceled",
			err:        fmt.Errorf("failed to mount marker elements: %w", context.Canceled),
			wantCode:   codes.Unset,
			wantEvents: 1,
		},
		{
			name:       "deadline",
			err:        context.DeadlineExceeded,
			wantCode:   codes.Unset,
			wantEvents: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			exporter, tracer := newRecorder(t)
			_, span := tracer.Start(context.Background(), "coordinator.TriggerUpdate")
			RecordError(span, tt.err)
			span.End()

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.wantCode, spans[0].Status.Code)
			assert.Equal(t, tt.wantDesc, spans[0].Status.Description)
			assert.Len(t, spans[0].Events, tt.wantEvents)
		})
	}

	assert.NotPanics(t, func() { RecordError(nil, errors.New("boom")) })
}
