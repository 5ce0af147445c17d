// Package selection implements the popup selection state machine.
//
// The machine has two states, Hidden and Shown(id). Clicking a tooltip selects its
// marker and shows the popup. Clicking the map background, installing a new
// generation, or clearing the markers returns the machine to Hidden.
package selection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/trace"

	"github.com/arenarium/mapmarkers/internal/marker"
	"github.com/arenarium/mapmarkers/internal/otel"
	"github.com/arenarium/mapmarkers/internal/telemetry"
)

// Popups receives the popup commands issued by the machine
type Popups interface {
	ShowPopup(ctx context.Context, id string) error
	HidePopup(ctx context.Context) error
}

// Membership locates a marker id in the current generation. The registry implements it.
type Membership interface {
	LookupIndexByID(id string) (int, marker.Generation, error)
}

// State is the current selection
type State struct {
	Shown    bool   `json:"shown"`
	MarkerID string `json:"markerId,omitempty"`
}

// Hidden is the state with no popup shown
var Hidden = State{}

// Shown returns the state with the popup of id shown
func Shown(id string) State {
	return State{Shown: true, MarkerID: id}
}

// String returns "hidden" or "shown(<id>)"
func (s State) String() string {
	if !s.Shown {
		return "hidden"
	}
	return fmt.Sprintf("shown(%s)", s.MarkerID)
}

const (
	commandShow = "show"
	commandHide = "hide"

	triggerTooltip    = "tooltip_click"
	triggerBackground = "background_click"
	triggerReplaced   = "generation_replaced"
	triggerCleared    = "cleared"
)

// Machine is the selection state machine. It is safe for concurrent use; transitions
// are applied one at a time and popup commands are issued in transition order.
type Machine struct {
	mu      sync.Mutex
	state   State
	markers Membership
	popups  Popups
	metrics *telemetry.SelectionMetrics
	tracer  trace.Tracer
}

// Option configures a Machine
type Option func(*Machine)

// WithMetrics sets the popup command instruments
func WithMetrics(m *telemetry.SelectionMetrics) Option {
	return func(s *Machine) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for transition spans
func WithTracer(t trace.Tracer) Option {
	return func(s *Machine) {
		s.tracer = t
	}
}

// New creates a machine in the Hidden state
func New(markers Membership, popups Popups, opts ...Option) *Machine {
	m := &Machine{
		state:   Hidden,
		markers: markers,
		popups:  popups,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current selection
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// TooltipClicked selects id and shows its popup. gen is the generation of the clicked
// tooltip. A click on a tooltip of a replaced generation fails with
// marker.ErrStaleGeneration even when the id exists again in the current one, and an id
// outside the current generation fails with marker.ErrUnknownMarkerID. Failed clicks
// leave the state unchanged.
func (m *Machine) TooltipClicked(ctx context.Context, gen marker.Generation, id string) error {
	ctx, span := otel.StartSpan(ctx, m.tracer, "selection.TooltipClicked",
		trace.WithAttributes(
			otel.AttrMarkerID.String(id),
			otel.AttrGeneration.Int64(int64(gen)),
		),
	)
	defer span.End()

	m.mu.Lock()
	defer m.mu.Unlock()

	_, current, err := m.markers.LookupIndexByID(id)
	switch {
	case current != gen:
		err = fmt.Errorf("failed to select marker %q: %w: clicked %d, current %d",
			id, marker.ErrStaleGeneration, gen, current)
		slog.Debug("Discarded tooltip click from replaced generation",
			"marker_id", id, "generation", uint64(gen), "current", uint64(current))
		otel.RecordError(span, err)
		return err
	case err != nil:
		err = fmt.Errorf("failed to select marker: %w", err)
		slog.Error("Tooltip click for marker outside the current generation", "marker_id", id)
		otel.RecordError(span, err)
		return err
	}

	prev := m.state
	m.state = Shown(id)
	slog.Debug("Selection changed", "from", prev.String(), "to", m.state.String())
	span.SetAttributes(otel.AttrSelection.String(m.state.String()))

	m.metrics.RecordPopupCommand(ctx, commandShow, triggerTooltip)
	if err := m.popups.ShowPopup(ctx, id); err != nil {
		otel.RecordError(span, err)
		return fmt.Errorf("failed to show popup for marker %q: %w", id, err)
	}
	return nil
}

// BackgroundClicked hides the popup. The hide command is issued on every call, including
// when no popup is shown; engines treat repeated hides as a no-op.
func (m *Machine) BackgroundClicked(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hide(ctx, triggerBackground, true)
}

// GenerationReplaced invalidates the selection after a new generation is installed.
// The previous selection is dropped even if its id exists in the new generation.
func (m *Machine) GenerationReplaced(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hide(ctx, triggerReplaced, false)
}

// Cleared invalidates the selection after all markers are removed
func (m *Machine) Cleared(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.hide(ctx, triggerCleared, false)
}

// hide must be called with mu held
func (m *Machine) hide(ctx context.Context, trigger string, always bool) error {
	prev := m.state
	m.state = Hidden
	if !prev.Shown && !always {
		return nil
	}
	if prev.Shown {
		slog.Debug("Selection changed", "from", prev.String(), "to", m.state.String(), "trigger", trigger)
	}

	m.metrics.RecordPopupCommand(ctx, commandHide, trigger)
	if err := m.popups.HidePopup(ctx); err != nil {
		return fmt.Errorf("failed to hide popup: %w", err)
	}
	return nil
}
