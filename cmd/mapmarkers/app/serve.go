package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arenarium/mapmarkers/internal/api"
	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/engine/headless"
	"github.com/arenarium/mapmarkers/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a headless map session over HTTP",
	Long: `Start an HTTP server driving one headless map session.

The session keeps the markers of the current generation, resolves their pins,
tooltips and popups, and exposes update, remove, click and viewport operations
under /v1. Health, readiness and version endpoints are served at the root, and
/metrics when the Prometheus exporter is enabled.`,
	RunE: runServe,
}

const (
	defaultGracefulTimeout = 30 * time.Second
	serverRequestTimeout   = 10 * time.Second // also bounds settle=true waits
	serverReadTimeout      = 10 * time.Second
	serverWriteTimeout     = 15 * time.Second // Must be > serverRequestTimeout to let middleware handle timeout
	serverIdleTimeout      = 60 * time.Second
)

func init() {
	serveCmd.Flags().String("address", "", "Address to listen on (overrides server.address)")

	if err := viper.BindPFlag("address", serveCmd.Flags().Lookup("address")); err != nil {
		slog.Error("Failed to bind address flag", "error", err)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	address := viper.GetString("address")
	if address == "" {
		address = cfg.GetAddress()
	}

	tel, err := newTelemetry(ctx, cfg)
	if err != nil {
		return err
	}

	eng := headless.New(
		headless.WithBounds(cfg.Viewport.GetBounds()),
		headless.WithPuller(engine.NewBodyPuller(cfg.PullerOptions()...)),
	)
	coord, err := newCoordinator(cfg, eng, tel)
	if err != nil {
		shutdownTelemetry(ctx, tel)
		return err
	}

	httpMetrics, err := telemetry.MetricsMiddleware(tel.MeterProvider())
	if err != nil {
		shutdownTelemetry(ctx, tel)
		return fmt.Errorf("failed to create HTTP metrics middleware: %w", err)
	}

	router := api.NewServer(coord, eng,
		api.WithMiddlewares(
			middleware.RequestID,
			middleware.RealIP,
			middleware.Recoverer,
			middleware.Timeout(serverRequestTimeout),
			telemetry.TracingMiddleware(tel.TracerProvider()),
			httpMetrics,
			api.LoggingMiddleware,
		),
		api.WithMetricsHandler(tel.MetricsHandler()),
	)

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err, ok := <-serveErr:
		if ok {
			shutdownTelemetry(ctx, tel)
			return fmt.Errorf("failed to start server: %w", err)
		}
	}
	slog.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultGracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return err
	}
	shutdownTelemetry(shutdownCtx, tel)

	slog.Info("Server shutdown complete")
	return nil
}
