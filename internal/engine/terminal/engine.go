// Package terminal implements an interactive map engine drawn in the terminal with
// bubbletea and lipgloss.
//
// The Engine owns the viewport and the drawn scene and can be driven without a
// running program. Model is the bubbletea model presenting it: it draws pins,
// tooltips and the selected popup, and turns keys and mouse clicks into update,
// remove, pan, zoom and click actions.
package terminal

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/geo"
	"github.com/arenarium/mapmarkers/internal/marker"
)

// refreshMsg asks the model to redraw after the engine state changed
type refreshMsg struct{}

// Engine is a terminal engine.Engine
type Engine struct {
	engine.ClickRouter

	scene  *engine.Scene
	puller *engine.BodyPuller

	mu       sync.Mutex
	viewport Viewport
	program  *tea.Program
}

var _ engine.Engine = (*Engine)(nil)

// Option configures an Engine
type Option func(*Engine)

// WithPuller sets the body puller used after each render
func WithPuller(p *engine.BodyPuller) Option {
	return func(e *Engine) {
		e.puller = p
	}
}

// New creates an engine initially showing bounds
func New(bounds geo.Bounds, opts ...Option) *Engine {
	e := &Engine{viewport: ViewportFromBounds(bounds)}
	for _, opt := range opts {
		opt(e)
	}
	e.scene = engine.NewScene(e.puller, e.refresh)
	return e
}

// Attach sets the program that is notified when the drawn state changes
func (e *Engine) Attach(p *tea.Program) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.program = p
}

func (e *Engine) refresh() {
	e.mu.Lock()
	p := e.program
	e.mu.Unlock()

	if p != nil {
		// Send blocks until the event loop receives the message
		go p.Send(refreshMsg{})
	}
}

// ViewportBounds returns the visible rectangle
func (e *Engine) ViewportBounds(_ context.Context) (geo.Bounds, error) {
	return e.Viewport().Bounds(), nil
}

// Viewport returns the current viewport
func (e *Engine) Viewport() Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport
}

// Pan moves the viewport by whole steps
func (e *Engine) Pan(dLat, dLng int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = e.viewport.Pan(dLat, dLng)
}

// Zoom scales the viewport spans
func (e *Engine) Zoom(factor float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = e.viewport.Zoom(factor)
}

// RenderMarkers draws markers and pulls their bodies in the background
func (e *Engine) RenderMarkers(ctx context.Context, markers []marker.Marker) error {
	e.scene.Render(ctx, markers)
	return nil
}

// RemoveAllMarkers erases every marker
func (e *Engine) RemoveAllMarkers(_ context.Context) error {
	e.scene.Clear()
	return nil
}

// ShowPopup draws the popup of marker id
func (e *Engine) ShowPopup(_ context.Context, id string) error {
	e.scene.ShowPopup(id)
	return nil
}

// HidePopup erases the popup
func (e *Engine) HidePopup(_ context.Context) error {
	e.scene.HidePopup()
	return nil
}

// Settle waits until pending body pulls have finished
func (e *Engine) Settle(ctx context.Context) error {
	return e.scene.Settle(ctx)
}

// ClickTooltip clicks the tooltip of marker id
func (e *Engine) ClickTooltip(ctx context.Context, id string) error {
	el, err := e.scene.Tooltip(id)
	if err != nil {
		return err
	}
	return e.ClickElement(ctx, el)
}

// frame lays out the current scene on a w×h grid
func (e *Engine) frame(w, h int) *frame {
	return layout(e.scene.Drawn(), e.scene.Popup(), e.Viewport().Bounds(), w, h)
}

// ClickCell clicks the map cell at (x, y). A tooltip under the cell receives the click;
// a popup swallows it; anywhere else is a background click.
func (e *Engine) ClickCell(ctx context.Context, x, y, w, h int) error {
	hit, ok := e.frame(w, h).hit(x, y)
	switch {
	case !ok:
		e.ClickBackground(ctx)
		return nil
	case hit.kind == hitTooltip:
		return e.ClickTooltip(ctx, hit.markerID)
	default:
		return nil
	}
}
