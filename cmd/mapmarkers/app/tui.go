package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/engine/terminal"
	"github.com/arenarium/mapmarkers/internal/logging"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive terminal map",
	Long: `Draw the markers on a terminal map.

Keys: u updates the markers for the visible area, r removes them, the arrow
keys pan, + and - zoom, h toggles help and q quits. Clicking a tooltip opens
its popup; clicking anywhere else closes it.`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().String("log-file", "", "Write logs to this file instead of discarding them")
}

// redirectLogs keeps log output off the terminal while the program owns it
func redirectLogs(path string) (func(), error) {
	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}

	// #nosec G304 -- the path is supplied by the operator on the command line
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(slog.New(logging.NewHandler(f, logOptions)))
	return func() { _ = f.Close() }, nil
}

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the terminal map needs an interactive terminal on stdout")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logFile, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return fmt.Errorf("failed to read log-file flag: %w", err)
	}
	closeLogs, err := redirectLogs(logFile)
	if err != nil {
		return err
	}
	defer closeLogs()

	tel, err := newTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background(), tel)

	eng := terminal.New(cfg.Viewport.GetMapBounds(),
		terminal.WithPuller(engine.NewBodyPuller(cfg.PullerOptions()...)),
	)
	coord, err := newCoordinator(cfg, eng, tel)
	if err != nil {
		return err
	}

	p := tea.NewProgram(terminal.NewModel(eng, coord), tea.WithAltScreen(), tea.WithMouseCellMotion())
	eng.Attach(p)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run terminal map: %w", err)
	}
	return nil
}
