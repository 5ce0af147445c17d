// Package api provides the HTTP control surface for a headless map session.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arenarium/mapmarkers/internal/api/common"
	v1 "github.com/arenarium/mapmarkers/internal/api/v1"
	"github.com/arenarium/mapmarkers/internal/coordinator"
	"github.com/arenarium/mapmarkers/pkg/versions"
)

// ServerOption configures the API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares    []func(http.Handler) http.Handler
	metricsHandler http.Handler
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithMetricsHandler serves h on /metrics. A nil handler leaves the route unregistered.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.metricsHandler = h
	}
}

// NewServer creates and configures the HTTP router for one map session
func NewServer(coord coordinator.Coordinator, surface v1.MapSurface, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
	}

	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(coord))
	r.Get("/version", versionHandler)

	if cfg.metricsHandler != nil {
		r.Handle("/metrics", cfg.metricsHandler)
	}

	r.Mount("/v1", v1.Router(coord, surface))

	return r
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.DebugContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// healthHandler handles health check requests
//
// @Summary		Health check
// @Tags			system
// @Produce		json
// @Success		200	{object}	HealthResponse
// @Router			/health [get]
func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, HealthResponse{Status: "healthy"}, http.StatusOK)
}

// readinessHandler reports the session ready along with its current generation.
// The engine needs no warm-up, so a constructed session is always ready.
//
// @Summary		Readiness check
// @Tags			system
// @Produce		json
// @Success		200	{object}	ReadinessResponse
// @Router			/readiness [get]
func readinessHandler(coord coordinator.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		gen, markers := coord.Markers()
		common.WriteJSONResponse(w, ReadinessResponse{
			Status:     "ready",
			Generation: uint64(gen),
			Markers:    len(markers),
		}, http.StatusOK)
	}
}

// versionHandler handles version information requests
//
// @Summary		Version information
// @Tags			system
// @Produce		json
// @Success		200	{object}	VersionResponse
// @Router			/version [get]
func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}
