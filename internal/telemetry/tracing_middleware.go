package telemetry

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the name used for the HTTP tracer
	TracerName = "github.com/arenarium/mapmarkers/http"

	// MaxUserAgentLength bounds the user agent recorded on spans
	MaxUserAgentLength = 256
)

// TracingMiddleware creates HTTP middleware for distributed tracing.
// If provider is nil, it returns a pass-through middleware that does nothing.
func TracingMiddleware(provider trace.TracerProvider) func(http.Handler) http.Handler {
	if provider == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	tracer := provider.Tracer(TracerName)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isProbe(r) {
				next.ServeHTTP(w, r)
				return
			}

			// The propagator is read per request so one installed after startup still applies
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			// Renamed after routing, once chi knows the route pattern
			ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.URLPath(r.URL.Path),
					semconv.UserAgentOriginal(truncateUserAgent(r.UserAgent())),
				),
			)
			defer span.End()

			next.ServeHTTP(ww, r.WithContext(ctx))

			routePattern := getRoutePattern(r)
			span.SetName(fmt.Sprintf("%s %s", r.Method, routePattern))
			span.SetAttributes(semconv.HTTPRouteKey.String(routePattern))

			statusCode := ww.Status()
			span.SetAttributes(semconv.HTTPResponseStatusCode(statusCode))

			// Client errors such as an unknown marker id are not server faults
			switch {
			case statusCode >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(statusCode))
			case statusCode < http.StatusBadRequest:
				span.SetStatus(codes.Ok, "")
			}
		})
	}
}

func truncateUserAgent(ua string) string {
	if len(ua) > MaxUserAgentLength {
		return ua[:MaxUserAgentLength]
	}
	return ua
}
