package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/arenarium/mapmarkers/internal/geo"
	"github.com/arenarium/mapmarkers/internal/sampler"
	"github.com/arenarium/mapmarkers/internal/viewport"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print the markers sampled for a viewport",
	Long: `Run the sampler and the viewport filter once and print the kept candidates
in rank order. The output depends only on the sampler settings and the bounds,
so two runs with the same inputs print the same markers.`,
	RunE: runGenerate,
}

// generatedMarker is one row of the generate output
type generatedMarker struct {
	ID   string  `json:"id"`
	Rank int     `json:"rank"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func init() {
	addGenerateFlags(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "table", "Output format (table or json)")
	cmd.Flags().Float64("south", geo.WorldBounds.SouthWest.Lat, "Southern latitude of the viewport")
	cmd.Flags().Float64("west", geo.WorldBounds.SouthWest.Lng, "Western longitude of the viewport")
	cmd.Flags().Float64("north", geo.WorldBounds.NorthEast.Lat, "Northern latitude of the viewport")
	cmd.Flags().Float64("east", geo.WorldBounds.NorthEast.Lng, "Eastern longitude of the viewport")
	cmd.Flags().Int64("seed", 0, "Sampler seed (overrides sampler.seed)")
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return err
	}
	if format != "table" && format != "json" {
		return fmt.Errorf("unsupported format %q, expected table or json", format)
	}

	bounds, err := boundsFromFlags(cmd)
	if err != nil {
		return err
	}

	params := cfg.Settings().Sampler
	if flags.Changed("seed") {
		if params.Seed, err = flags.GetInt64("seed"); err != nil {
			return err
		}
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("invalid sampler settings: %w", err)
	}

	candidates := sampler.Generate(params, viewport.NewFilter(bounds, params.Limit))
	markers := lo.Map(candidates, func(c sampler.Candidate, _ int) generatedMarker {
		return generatedMarker{ID: c.ID, Rank: c.Rank, Lat: c.Position.Lat, Lng: c.Position.Lng}
	})

	if format == "json" {
		return writeMarkersJSON(cmd.OutOrStdout(), markers)
	}
	return writeMarkersTable(cmd.OutOrStdout(), markers)
}

func boundsFromFlags(cmd *cobra.Command) (geo.Bounds, error) {
	flags := cmd.Flags()
	var b geo.Bounds
	var err error
	if b.SouthWest.Lat, err = flags.GetFloat64("south"); err != nil {
		return geo.Bounds{}, err
	}
	if b.SouthWest.Lng, err = flags.GetFloat64("west"); err != nil {
		return geo.Bounds{}, err
	}
	if b.NorthEast.Lat, err = flags.GetFloat64("north"); err != nil {
		return geo.Bounds{}, err
	}
	if b.NorthEast.Lng, err = flags.GetFloat64("east"); err != nil {
		return geo.Bounds{}, err
	}
	if err := b.Validate(); err != nil {
		return geo.Bounds{}, fmt.Errorf("invalid viewport: %w", err)
	}
	return b, nil
}

func writeMarkersJSON(w io.Writer, markers []generatedMarker) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(markers)
}

func writeMarkersTable(w io.Writer, markers []generatedMarker) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Rank", "Lat", "Lng")
	for _, m := range markers {
		row := []string{
			m.ID,
			strconv.Itoa(m.Rank),
			strconv.FormatFloat(m.Lat, 'f', 6, 64),
			strconv.FormatFloat(m.Lng, 'f', 6, 64),
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	return table.Render()
}
