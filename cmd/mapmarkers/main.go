// Package main is the entry point for the mapmarkers command.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/arenarium/mapmarkers/cmd/mapmarkers/app"
	"github.com/arenarium/mapmarkers/internal/config"
	"github.com/arenarium/mapmarkers/internal/logging"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load(".env")

	opts, warnings := logging.OptionsFromEnv(config.EnvPrefix, os.Getenv)

	// Log to stderr so that stdout stays clean for generate and version output.
	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, opts)))
	for _, w := range warnings {
		slog.Warn("Ignoring logging setting", "reason", w)
	}

	if err := app.NewRootCmd(opts).Execute(); err != nil {
		os.Exit(1)
	}
}
