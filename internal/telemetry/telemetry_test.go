package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// newCollector starts an HTTP server that accepts OTLP exports and returns its host:port
func newCollector(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return strings.TrimPrefix(server.URL, "http://")
}

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		config     func(endpoint string) *Config
		wantTracer bool
		wantMeter  bool
		wantErr    string
	}{
		{
			name:   "nil config",
			config: func(string) *Config { return nil },
		},
		{
			name:   "disabled",
			config: func(string) *Config { return &Config{Enabled: false, Tracing: &TracingConfig{Enabled: true}} },
		},
		{
			name: "enabled without signals",
			config: func(string) *Config {
				return &Config{Enabled: true, Tracing: &TracingConfig{}, Metrics: &MetricsConfig{}}
			},
		},
		{
			name: "tracing only",
			config: func(endpoint string) *Config {
				return &Config{
					Enabled: true, Endpoint: endpoint, Insecure: true,
					Tracing: &TracingConfig{Enabled: true, Sampling: lo.ToPtr(1.0)},
				}
			},
			wantTracer: true,
		},
		{
			name: "metrics only",
			config: func(endpoint string) *Config {
				return &Config{
					Enabled: true, Endpoint: endpoint, Insecure: true,
					Metrics: &MetricsConfig{Enabled: true},
				}
			},
			wantMeter: true,
		},
		{
			name: "tracing and metrics",
			config: func(endpoint string) *Config {
				return &Config{
					Enabled: true, Endpoint: endpoint, Insecure: true,
					Tracing: &TracingConfig{Enabled: true, Sampling: lo.ToPtr(0.25)},
					Metrics: &MetricsConfig{Enabled: true},
				}
			},
			wantTracer: true,
			wantMeter:  true,
		},
		{
			name: "invalid sampling",
			config: func(string) *Config {
				return &Config{Enabled: true, Tracing: &TracingConfig{Enabled: true, Sampling: lo.ToPtr(1.5)}}
			},
			wantErr: "invalid telemetry configuration",
		},
		{
			name: "unknown exporter",
			config: func(string) *Config {
				return &Config{Enabled: true, Metrics: &MetricsConfig{Enabled: true, Exporters: []string{"statsd"}}}
			},
			wantErr: "unknown exporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			tel, err := New(ctx, WithTelemetryConfig(tt.config(newCollector(t))))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			if tt.wantTracer {
				assert.IsType(t, &sdktrace.TracerProvider{}, tel.TracerProvider())
			} else {
				assert.IsType(t, tracenoop.TracerProvider{}, tel.TracerProvider())
			}
			if tt.wantMeter {
				assert.IsType(t, &sdkmetric.MeterProvider{}, tel.MeterProvider())
			} else {
				assert.IsType(t, noop.MeterProvider{}, tel.MeterProvider())
			}
			assert.NotNil(t, tel.Tracer("coordinator"))
			assert.NotNil(t, tel.Meter("coordinator"))

			require.NoError(t, tel.Shutdown(ctx))
		})
	}
}

func TestTelemetry_ShutdownTwice(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tel, err := New(ctx)
	require.NoError(t, err)

	require.NoError(t, tel.Shutdown(ctx))
	require.NoError(t, tel.Shutdown(ctx))
}

func TestTelemetry_MetricsHandler(t *testing.T) {
	t.Parallel()

	t.Run("nil without the Prometheus exporter", func(t *testing.T) {
		t.Parallel()

		tel, err := New(context.Background())
		require.NoError(t, err)
		assert.Nil(t, tel.MetricsHandler())
	})

	t.Run("serves domain instruments", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		tel, err := New(ctx, WithTelemetryConfig(&Config{
			Enabled: true,
			Metrics: &MetricsConfig{
				Enabled:   true,
				Exporters: []string{ExporterPrometheus},
			},
		}))
		require.NoError(t, err)
		defer func() { _ = tel.Shutdown(ctx) }()

		handler := tel.MetricsHandler()
		require.NotNil(t, handler)

		markerMetrics, err := NewMarkerMetrics(tel.MeterProvider())
		require.NoError(t, err)
		markerMetrics.RecordGeneration(ctx, "update", 12)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "mapmarkers_generations_total")
		assert.Contains(t, rr.Body.String(), "mapmarkers_markers_total")
	})

	t.Run("separate instances do not collide", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		cfg := &Config{Enabled: true, Metrics: &MetricsConfig{Enabled: true, Exporters: []string{ExporterPrometheus}}}
		for range 2 {
			tel, err := New(ctx, WithTelemetryConfig(cfg))
			require.NoError(t, err)
			require.NotNil(t, tel.MetricsHandler())
			require.NoError(t, tel.Shutdown(ctx))
		}
	})
}
