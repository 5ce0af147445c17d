package coordinator

import (
	"fmt"

	"github.com/arenarium/mapmarkers/internal/marker"
	"github.com/arenarium/mapmarkers/internal/sampler"
)

// Styles holds the style of each marker slot
type Styles struct {
	Pin     marker.Style
	Tooltip marker.Style
	Popup   marker.Style
}

// Settings configures the update cycle
type Settings struct {
	Sampler sampler.Params
	Styles  Styles
}

// Validate checks the sampler parameters
func (s Settings) Validate() error {
	if err := s.Sampler.Validate(); err != nil {
		return fmt.Errorf("invalid sampler settings: %w", err)
	}
	return nil
}
