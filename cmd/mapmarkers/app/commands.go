// Package app provides the commands of the mapmarkers application.
package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arenarium/mapmarkers/internal/logging"
	"github.com/arenarium/mapmarkers/pkg/versions"
)

// logOptions are the logging options chosen by main. Commands that redirect logging keep them.
var logOptions = logging.Options{Level: slog.LevelInfo, Format: logging.FormatJSON}

var rootCmd = &cobra.Command{
	Use:               "mapmarkers",
	DisableAutoGenTag: true,
	Short:             "Map marker coordination",
	Long: `mapmarkers samples marker positions around a set of centers, filters them to the
visible viewport and keeps the pins, tooltips and popups of every marker in sync
with a map engine. It runs headless behind an HTTP API or as a terminal map.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			slog.Error("Error displaying help", "error", err)
		}
	},
}

// NewRootCmd creates the root command. opts are the logging options main configured.
func NewRootCmd(opts logging.Options) *cobra.Command {
	logOptions = opts

	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format); built-in defaults when empty")
	err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	if err != nil {
		slog.Error("Error binding config flag", "error", err)
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		info := versions.GetVersionInfo()
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			slog.Error("Error retrieving format flag", "error", err)
			return
		}

		if format == "json" {
			output, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				slog.Error("Error formatting version info as JSON", "error", err)
				return
			}
			fmt.Println(string(output))
		} else {
			fmt.Println(info.String())
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "", "Output format (json)")
}
