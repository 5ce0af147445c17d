// Package headless implements an in-memory map engine.
//
// The engine keeps the rendered markers, the elements pulled through their body
// accessors, the popup state, and a log of every command it received. Clicks are
// simulated through ClickTooltip and ClickBackground. It backs the HTTP control
// surface and the tests of the packages above the engine boundary.
package headless

import (
	"context"
	"fmt"
	"sync"

	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/geo"
	"github.com/arenarium/mapmarkers/internal/marker"
)

// Engine is an in-memory engine.Engine
type Engine struct {
	engine.ClickRouter

	scene  *engine.Scene
	puller *engine.BodyPuller

	mu       sync.Mutex
	bounds   geo.Bounds
	commands []engine.Command
}

var _ engine.Engine = (*Engine)(nil)

// Option configures an Engine
type Option func(*Engine)

// WithBounds sets the initial viewport
func WithBounds(b geo.Bounds) Option {
	return func(e *Engine) {
		e.bounds = b
	}
}

// WithPuller sets the body puller used after each render
func WithPuller(p *engine.BodyPuller) Option {
	return func(e *Engine) {
		e.puller = p
	}
}

// New creates an engine showing the whole world
func New(opts ...Option) *Engine {
	e := &Engine{
		bounds: geo.WorldBounds,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.scene = engine.NewScene(e.puller, nil)
	return e
}

// ViewportBounds returns the current viewport
func (e *Engine) ViewportBounds(_ context.Context) (geo.Bounds, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bounds, nil
}

// SetViewport moves the viewport. It does not re-render the markers.
func (e *Engine) SetViewport(b geo.Bounds) error {
	if err := b.Validate(); err != nil {
		return fmt.Errorf("invalid viewport: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.bounds = b
	return nil
}

// RenderMarkers replaces the drawn markers and starts pulling their bodies in the
// background. Bodies that are not mounted yet are retried by the puller.
func (e *Engine) RenderMarkers(ctx context.Context, markers []marker.Marker) error {
	e.record(engine.Command{Name: engine.CommandRenderMarkers, Count: len(markers)})
	e.scene.Render(ctx, markers)
	return nil
}

// RemoveAllMarkers clears the drawn markers and abandons pending body pulls
func (e *Engine) RemoveAllMarkers(_ context.Context) error {
	e.record(engine.Command{Name: engine.CommandRemoveAllMarkers})
	e.scene.Clear()
	return nil
}

// ShowPopup shows the popup of marker id
func (e *Engine) ShowPopup(_ context.Context, id string) error {
	e.record(engine.Command{Name: engine.CommandShowPopup, MarkerID: id})
	e.scene.ShowPopup(id)
	return nil
}

// HidePopup hides the popup
func (e *Engine) HidePopup(_ context.Context) error {
	e.record(engine.Command{Name: engine.CommandHidePopup})
	e.scene.HidePopup()
	return nil
}

func (e *Engine) record(cmd engine.Command) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = append(e.commands, cmd)
}

// Settle waits until the body pulls started by previous renders have finished
func (e *Engine) Settle(ctx context.Context) error {
	return e.scene.Settle(ctx)
}

// ClickTooltip simulates a click on the tooltip of marker id. If no listener consumes
// the click it falls through to the background handlers.
func (e *Engine) ClickTooltip(ctx context.Context, id string) error {
	el, err := e.scene.Tooltip(id)
	if err != nil {
		return err
	}
	return e.ClickElement(ctx, el)
}

// Commands returns a copy of the command log
func (e *Engine) Commands() []engine.Command {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]engine.Command(nil), e.commands...)
}

// ResetCommands empties the command log
func (e *Engine) ResetCommands() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.commands = nil
}

// RenderedMarker is the drawn state of one marker
type RenderedMarker struct {
	ID      string  `json:"id"`
	Rank    int     `json:"rank"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Pin     string  `json:"pin,omitempty"`
	Tooltip string  `json:"tooltip,omitempty"`
	Popup   string  `json:"popup,omitempty"`
	Ready   bool    `json:"ready"`
}

// Snapshot is the drawn state of the engine
type Snapshot struct {
	Bounds  geo.Bounds       `json:"bounds"`
	Markers []RenderedMarker `json:"markers"`
	Popup   string           `json:"popup,omitempty"`
}

// Snapshot returns the drawn state
func (e *Engine) Snapshot() Snapshot {
	bounds, _ := e.ViewportBounds(context.Background())
	drawn := e.scene.Drawn()

	s := Snapshot{
		Bounds:  bounds,
		Markers: make([]RenderedMarker, 0, len(drawn)),
		Popup:   e.scene.Popup(),
	}
	for _, d := range drawn {
		s.Markers = append(s.Markers, RenderedMarker{
			ID:      d.Marker.ID,
			Rank:    d.Marker.Rank,
			Lat:     d.Marker.Lat,
			Lng:     d.Marker.Lng,
			Pin:     label(d.Pin),
			Tooltip: label(d.Tooltip),
			Popup:   label(d.Popup),
			Ready:   d.Ready(),
		})
	}
	return s
}

func label(el marker.Element) string {
	if el == nil {
		return ""
	}
	return el.Label()
}
