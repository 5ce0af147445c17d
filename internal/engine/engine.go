package engine

import (
	"context"

	"github.com/arenarium/mapmarkers/internal/geo"
	"github.com/arenarium/mapmarkers/internal/marker"
)

// BackgroundClickHandler is called when the map background is clicked outside any tooltip
type BackgroundClickHandler func(ctx context.Context)

// Engine is a map engine driven by the marker pipeline
//
//go:generate mockgen -destination=mocks/mock_engine.go -package=mocks github.com/arenarium/mapmarkers/internal/engine Engine
type Engine interface {
	// ViewportBounds returns the currently visible rectangle
	ViewportBounds(ctx context.Context) (geo.Bounds, error)
	// OnBackgroundClick registers a handler for clicks not intercepted by a tooltip.
	// It is called once per engine.
	OnBackgroundClick(handler BackgroundClickHandler)
	// RenderMarkers replaces the drawn markers with the given generation
	RenderMarkers(ctx context.Context, markers []marker.Marker) error
	// RemoveAllMarkers clears every drawn marker
	RemoveAllMarkers(ctx context.Context) error
	// ShowPopup shows the popup of the marker with the given id
	ShowPopup(ctx context.Context, id string) error
	// HidePopup hides the popup. Hiding when nothing is shown is a no-op.
	HidePopup(ctx context.Context) error
}

// Command is a record of one call issued to an engine
type Command struct {
	Name     string `json:"name"`
	MarkerID string `json:"markerId,omitempty"`
	Count    int    `json:"count,omitempty"`
}

// Command names used by engines that keep a command log
const (
	CommandRenderMarkers    = "renderMarkers"
	CommandRemoveAllMarkers = "removeAllMarkers"
	CommandShowPopup        = "showPopup"
	CommandHidePopup        = "hidePopup"
)
