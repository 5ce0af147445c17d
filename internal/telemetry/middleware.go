package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// HTTPMetricsMeterName is the name used for the HTTP metrics meter
	HTTPMetricsMeterName = "github.com/arenarium/mapmarkers/http"

	// unknownRoute labels requests chi could not match, keeping raw paths out of the labels
	unknownRoute = "unknown_route"
)

// probePaths are polled by health checks and scrapers and carry no marker activity.
// They are neither traced nor counted.
var probePaths = map[string]struct{}{
	"/health":    {},
	"/readiness": {},
	"/metrics":   {},
}

func isProbe(r *http.Request) bool {
	_, ok := probePaths[r.URL.Path]
	return ok
}

// HTTPMetrics holds the instruments recorded for control surface requests
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	requestsTotal   metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the HTTP instruments. A nil provider yields nil metrics,
// whose Middleware passes requests through.
func NewHTTPMetrics(provider metric.MeterProvider) (*HTTPMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(HTTPMetricsMeterName)
	m := &HTTPMetrics{}
	var err error

	// settle=true requests wait for body pulls, hence the buckets up to the request timeout
	if m.requestDuration, err = meter.Float64Histogram(
		"mapmarkers_http_request_duration_seconds",
		metric.WithDescription("Duration of control surface requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10),
	); err != nil {
		return nil, err
	}

	if m.requestsTotal, err = meter.Int64Counter(
		"mapmarkers_http_requests_total",
		metric.WithDescription("Control surface requests by route and status"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}

	if m.activeRequests, err = meter.Int64UpDownCounter(
		"mapmarkers_http_active_requests",
		metric.WithDescription("Control surface requests in flight"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// Middleware records one duration sample and one count per request, labelled with the
// chi route pattern so marker ids never become label values. Probe paths are skipped.
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isProbe(r) {
			next.ServeHTTP(w, r)
			return
		}

		// r.Context() may be canceled by the time the handler returns
		ctx := context.WithoutCancel(r.Context())
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		m.activeRequests.Add(ctx, 1)
		defer m.activeRequests.Add(ctx, -1)

		next.ServeHTTP(ww, r)

		attrs := metric.WithAttributes(
			attribute.String("method", r.Method),
			attribute.String("route", getRoutePattern(r)),
			attribute.String("status_code", strconv.Itoa(ww.Status())),
		)
		m.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		m.requestsTotal.Add(ctx, 1, attrs)
	})
}

// getRoutePattern returns the matched chi route pattern, or unknownRoute
func getRoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unknownRoute
}

// MetricsMiddleware builds HTTPMetrics from provider and returns its middleware
func MetricsMiddleware(provider metric.MeterProvider) (func(http.Handler) http.Handler, error) {
	metrics, err := NewHTTPMetrics(provider)
	if err != nil {
		return nil, err
	}
	return metrics.Middleware, nil
}
