package v1

import (
	"github.com/samber/lo"

	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/engine/headless"
	"github.com/arenarium/mapmarkers/internal/marker"
	"github.com/arenarium/mapmarkers/internal/selection"
)

// MarkerResponse describes one marker of the current generation
type MarkerResponse struct {
	ID      string       `json:"id"`
	Rank    int          `json:"rank"`
	Lat     float64      `json:"lat"`
	Lng     float64      `json:"lng"`
	Pin     marker.Style `json:"pin"`
	Tooltip marker.Style `json:"tooltip"`
	Popup   marker.Style `json:"popup"`
}

// MarkerDetailResponse is one marker together with the generation it belongs to
type MarkerDetailResponse struct {
	Generation marker.Generation `json:"generation"`
	MarkerResponse
}

// MarkerListResponse is the current generation and its markers
type MarkerListResponse struct {
	Generation marker.Generation `json:"generation"`
	Count      int               `json:"count"`
	Markers    []MarkerResponse  `json:"markers"`
}

// SelectionResponse is the popup selection state
type SelectionResponse struct {
	Shown    bool   `json:"shown"`
	MarkerID string `json:"markerId,omitempty"`
}

// CommandListResponse is the engine command log
type CommandListResponse struct {
	Commands []engine.Command `json:"commands"`
}

// MapResponse is the drawn state of the headless map
type MapResponse = headless.Snapshot

func newMarkerListResponse(gen marker.Generation, markers []marker.Marker) MarkerListResponse {
	return MarkerListResponse{
		Generation: gen,
		Count:      len(markers),
		Markers: lo.Map(markers, func(m marker.Marker, _ int) MarkerResponse {
			return newMarkerResponse(m)
		}),
	}
}

func newMarkerResponse(m marker.Marker) MarkerResponse {
	return MarkerResponse{
		ID:      m.ID,
		Rank:    m.Rank,
		Lat:     m.Lat,
		Lng:     m.Lng,
		Pin:     m.Pin.Style,
		Tooltip: m.Tooltip.Style,
		Popup:   m.Popup.Style,
	}
}

func newSelectionResponse(s selection.State) SelectionResponse {
	return SelectionResponse{Shown: s.Shown, MarkerID: s.MarkerID}
}
