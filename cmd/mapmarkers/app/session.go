package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/arenarium/mapmarkers/internal/config"
	"github.com/arenarium/mapmarkers/internal/coordinator"
	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/telemetry"
	"github.com/arenarium/mapmarkers/pkg/versions"
)

// coordinatorTracerName names the tracer used for update and remove cycles
const coordinatorTracerName = "github.com/arenarium/mapmarkers/coordinator"

// loadConfig reads the file named by --config, or returns the defaults when none is given
func loadConfig() (*config.Config, error) {
	configPath := viper.GetString("config")
	if configPath == "" {
		slog.Info("No configuration file given, using defaults")
		return config.Default(), nil
	}

	cfg, err := config.LoadConfig(config.WithConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.Info("Loaded configuration", "path", configPath)
	return cfg, nil
}

// newTelemetry starts the providers configured in cfg, reporting the build version
// unless the file overrides it
func newTelemetry(ctx context.Context, cfg *config.Config) (*telemetry.Telemetry, error) {
	telCfg := cfg.Telemetry
	if telCfg != nil && telCfg.ServiceVersion == "" {
		withVersion := *telCfg
		withVersion.ServiceVersion = versions.GetVersionInfo().Version
		telCfg = &withVersion
	}

	tel, err := telemetry.New(ctx, telemetry.WithTelemetryConfig(telCfg))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	return tel, nil
}

// newCoordinator builds a coordinator for eng with the domain instruments of tel
func newCoordinator(cfg *config.Config, eng engine.Engine, tel *telemetry.Telemetry) (coordinator.Coordinator, error) {
	markerMetrics, err := telemetry.NewMarkerMetrics(tel.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create marker metrics: %w", err)
	}
	resolverMetrics, err := telemetry.NewResolverMetrics(tel.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver metrics: %w", err)
	}
	selectionMetrics, err := telemetry.NewSelectionMetrics(tel.MeterProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create selection metrics: %w", err)
	}

	coord, err := coordinator.New(eng, cfg.Settings(),
		coordinator.WithMarkerMetrics(markerMetrics),
		coordinator.WithResolverMetrics(resolverMetrics),
		coordinator.WithSelectionMetrics(selectionMetrics),
		coordinator.WithTracer(tel.Tracer(coordinatorTracerName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create coordinator: %w", err)
	}
	return coord, nil
}

// shutdownTelemetry flushes tel, logging rather than returning failures
func shutdownTelemetry(ctx context.Context, tel *telemetry.Telemetry) {
	if err := tel.Shutdown(ctx); err != nil {
		slog.Error("Failed to shutdown telemetry", "error", err)
	}
}
