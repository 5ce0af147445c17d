package marker

import (
	"context"
	"fmt"
	"strconv"

	"github.com/arenarium/mapmarkers/internal/geo"
)

// Generation identifies one installed marker set. Tokens increase monotonically.
type Generation uint64

// String returns the token in decimal form
func (g Generation) String() string {
	return strconv.FormatUint(uint64(g), 10)
}

// SlotKind names one of the three visual slots of a marker
type SlotKind int

const (
	// Pin is the always-visible point marker
	Pin SlotKind = iota
	// Tooltip is the label shown next to the pin, clickable to select the marker
	Tooltip
	// Popup is the detail view shown for the selected marker
	Popup
)

// SlotKinds lists every slot kind in render order
var SlotKinds = []SlotKind{Pin, Tooltip, Popup}

// String returns the lowercase slot name
func (k SlotKind) String() string {
	switch k {
	case Pin:
		return "pin"
	case Tooltip:
		return "tooltip"
	case Popup:
		return "popup"
	default:
		return fmt.Sprintf("slot(%d)", int(k))
	}
}

// Valid reports whether k is a known slot kind
func (k SlotKind) Valid() bool {
	return k >= Pin && k <= Popup
}

// Style carries presentation hints for a slot. The pipeline never interprets them.
type Style struct {
	Height int `json:"height" yaml:"height"`
	Width  int `json:"width" yaml:"width"`
	Margin int `json:"margin,omitempty" yaml:"margin,omitempty"`
	Radius int `json:"radius" yaml:"radius"`
}

// BodyAccessor resolves the element backing one slot of a marker
type BodyAccessor interface {
	Body(ctx context.Context, id string) (Element, error)
}

// BodyAccessorFunc adapts a function to BodyAccessor
type BodyAccessorFunc func(ctx context.Context, id string) (Element, error)

// Body calls f(ctx, id)
func (f BodyAccessorFunc) Body(ctx context.Context, id string) (Element, error) {
	return f(ctx, id)
}

// VisualSlot pairs a style with the accessor for its element
type VisualSlot struct {
	Style Style
	Body  BodyAccessor
}

// Marker is a single map marker of one generation
type Marker struct {
	ID      string
	Rank    int
	Lat     float64
	Lng     float64
	Pin     VisualSlot
	Tooltip VisualSlot
	Popup   VisualSlot
}

// Position returns the marker coordinate
func (m Marker) Position() geo.LatLng {
	return geo.LatLng{Lat: m.Lat, Lng: m.Lng}
}

// Slot returns the visual slot of the given kind
func (m Marker) Slot(kind SlotKind) VisualSlot {
	switch kind {
	case Tooltip:
		return m.Tooltip
	case Popup:
		return m.Popup
	default:
		return m.Pin
	}
}
