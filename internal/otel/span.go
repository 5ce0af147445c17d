// Package otel holds the span helpers and attribute keys shared by the marker pipeline.
package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys set on coordinator and selection spans
const (
	AttrMarkerID    = attribute.Key("marker.id")
	AttrGeneration  = attribute.Key("marker.generation")
	AttrOperation   = attribute.Key("marker.operation")
	AttrCandidates  = attribute.Key("sampler.count")
	AttrLimit       = attribute.Key("sampler.limit")
	AttrResultCount = attribute.Key("result.count")
	AttrSelection   = attribute.Key("selection.state")
)

const (
	statusFailed   = "operation failed"
	statusCanceled = "operation canceled"
)

// StartSpan starts a span on tracer. With a nil tracer it returns ctx unchanged and the
// span already in ctx, which is a no-op span when there is none.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError adds err as an exception event and marks the span failed. A canceled or
// expired context is recorded but leaves the status unset, since the caller gave up
// rather than the cycle failing. The status description never carries the error text.
func RecordError(span trace.Span, err error) {
	if err == nil || span == nil {
		return
	}
	span.RecordError(err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		span.SetAttributes(attribute.String("error.type", statusCanceled))
		return
	}
	span.SetStatus(codes.Error, statusFailed)
}
