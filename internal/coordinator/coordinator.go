package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel/trace"

	"github.com/arenarium/mapmarkers/internal/element"
	"github.com/arenarium/mapmarkers/internal/engine"
	"github.com/arenarium/mapmarkers/internal/marker"
	"github.com/arenarium/mapmarkers/internal/otel"
	"github.com/arenarium/mapmarkers/internal/registry"
	"github.com/arenarium/mapmarkers/internal/resolver"
	"github.com/arenarium/mapmarkers/internal/sampler"
	"github.com/arenarium/mapmarkers/internal/selection"
	"github.com/arenarium/mapmarkers/internal/telemetry"
	"github.com/arenarium/mapmarkers/internal/viewport"
)

const (
	operationUpdate = "update"
	operationRemove = "remove"
)

// Result describes the generation installed by a cycle
type Result struct {
	Generation marker.Generation `json:"generation"`
	Markers    int               `json:"markers"`
	Mounted    int               `json:"mounted"`
}

// Coordinator drives update and remove cycles for one map session
//
//go:generate mockgen -destination=mocks/mock_coordinator.go -package=mocks github.com/arenarium/mapmarkers/internal/coordinator Coordinator
type Coordinator interface {
	// TriggerUpdate samples markers for the current viewport and renders them
	TriggerUpdate(ctx context.Context) (Result, error)
	// TriggerRemove removes every marker
	TriggerRemove(ctx context.Context) (Result, error)
	// Markers returns the current generation and its markers
	Markers() (marker.Generation, []marker.Marker)
	// Marker returns one marker of the current generation
	Marker(id string) (marker.Marker, marker.Generation, error)
	// Selection returns the current popup selection
	Selection() selection.State
}

// defaultCoordinator is the default implementation of Coordinator
type defaultCoordinator struct {
	engine   engine.Engine
	settings Settings

	registry  *registry.Registry
	resolver  *resolver.Resolver
	selection *selection.Machine
	mounter   *element.Mounter

	// cycles are serialised
	mu sync.Mutex

	tracer           trace.Tracer
	markerMetrics    *telemetry.MarkerMetrics
	resolverMetrics  *telemetry.ResolverMetrics
	selectionMetrics *telemetry.SelectionMetrics
}

// Option is a function that configures the coordinator
type Option func(*defaultCoordinator)

// WithMarkerMetrics sets the generation instruments
func WithMarkerMetrics(m *telemetry.MarkerMetrics) Option {
	return func(c *defaultCoordinator) {
		c.markerMetrics = m
	}
}

// WithResolverMetrics sets the body resolution instruments
func WithResolverMetrics(m *telemetry.ResolverMetrics) Option {
	return func(c *defaultCoordinator) {
		c.resolverMetrics = m
	}
}

// WithSelectionMetrics sets the popup command instruments
func WithSelectionMetrics(m *telemetry.SelectionMetrics) Option {
	return func(c *defaultCoordinator) {
		c.selectionMetrics = m
	}
}

// WithTracer sets the tracer used for cycle spans
func WithTracer(t trace.Tracer) Option {
	return func(c *defaultCoordinator) {
		c.tracer = t
	}
}

// New creates a coordinator for eng and registers its background click handler
func New(eng engine.Engine, settings Settings, opts ...Option) (Coordinator, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	c := &defaultCoordinator{
		engine:   eng,
		settings: settings,
		registry: registry.New(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.selection = selection.New(c.registry, eng,
		selection.WithMetrics(c.selectionMetrics),
		selection.WithTracer(c.tracer),
	)
	c.resolver = resolver.New(c.registry, c.selection, resolver.WithMetrics(c.resolverMetrics))
	c.mounter = element.NewMounter(c.registry)

	eng.OnBackgroundClick(c.backgroundClicked)

	return c, nil
}

func (c *defaultCoordinator) backgroundClicked(ctx context.Context) {
	if err := c.selection.BackgroundClicked(ctx); err != nil {
		slog.Warn("Failed to apply background click", "error", err)
	}
}

// TriggerUpdate runs one update cycle
func (c *defaultCoordinator) TriggerUpdate(ctx context.Context) (res Result, err error) {
	ctx, span := otel.StartSpan(ctx, c.tracer, "coordinator.TriggerUpdate",
		trace.WithAttributes(
			otel.AttrOperation.String(operationUpdate),
			otel.AttrCandidates.Int(c.settings.Sampler.Count),
			otel.AttrLimit.Int(c.settings.Sampler.Limit),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		c.markerMetrics.RecordCycleDuration(ctx, operationUpdate, time.Since(start), err == nil)
		otel.RecordError(span, err)
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	bounds, err := c.engine.ViewportBounds(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read viewport bounds: %w", err)
	}
	if err := bounds.Validate(); err != nil {
		return Result{}, fmt.Errorf("engine reported invalid viewport: %w", err)
	}

	params := c.settings.Sampler
	candidates := sampler.Generate(params, viewport.NewFilter(bounds, params.Limit))

	gen := c.registry.Stage()
	markers := c.buildMarkers(gen, candidates)
	if err := c.registry.ReplaceAll(gen, markers); err != nil {
		return Result{}, fmt.Errorf("failed to install marker generation: %w", err)
	}
	res = Result{Generation: gen, Markers: len(markers)}
	span.SetAttributes(otel.AttrGeneration.Int64(int64(gen)), otel.AttrResultCount.Int(len(markers)))
	c.markerMetrics.RecordGeneration(ctx, operationUpdate, int64(len(markers)))

	if err := c.selection.GenerationReplaced(ctx); err != nil {
		return res, fmt.Errorf("failed to reset selection: %w", err)
	}

	if err := c.engine.RenderMarkers(ctx, markers); err != nil {
		return res, fmt.Errorf("failed to render markers: %w", err)
	}

	res.Mounted, err = c.mounter.Mount(ctx, gen, markers)
	if err != nil {
		return res, fmt.Errorf("failed to mount marker elements: %w", err)
	}

	slog.Info("Replaced marker generation",
		"generation", uint64(gen),
		"markers", len(markers),
		"bounds", bounds,
		"duration", time.Since(start),
	)
	return res, nil
}

// TriggerRemove runs one remove cycle
func (c *defaultCoordinator) TriggerRemove(ctx context.Context) (res Result, err error) {
	ctx, span := otel.StartSpan(ctx, c.tracer, "coordinator.TriggerRemove",
		trace.WithAttributes(otel.AttrOperation.String(operationRemove)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		c.markerMetrics.RecordCycleDuration(ctx, operationRemove, time.Since(start), err == nil)
		otel.RecordError(span, err)
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	gen := c.registry.Clear()
	res = Result{Generation: gen}
	span.SetAttributes(otel.AttrGeneration.Int64(int64(gen)))
	c.markerMetrics.RecordGeneration(ctx, operationRemove, 0)

	if err := c.selection.Cleared(ctx); err != nil {
		return res, fmt.Errorf("failed to reset selection: %w", err)
	}
	if err := c.engine.RemoveAllMarkers(ctx); err != nil {
		return res, fmt.Errorf("failed to remove markers: %w", err)
	}

	slog.Info("Cleared markers", "generation", uint64(gen))
	return res, nil
}

// Markers returns the current generation and its markers
func (c *defaultCoordinator) Markers() (marker.Generation, []marker.Marker) {
	return c.registry.Snapshot()
}

// Marker returns the marker with the given id from the current generation
func (c *defaultCoordinator) Marker(id string) (marker.Marker, marker.Generation, error) {
	return c.registry.MarkerByID(id)
}

// Selection returns the current popup selection
func (c *defaultCoordinator) Selection() selection.State {
	return c.selection.State()
}

func (c *defaultCoordinator) buildMarkers(gen marker.Generation, candidates []sampler.Candidate) []marker.Marker {
	pin := c.resolver.Accessor(gen, marker.Pin)
	tooltip := c.resolver.Accessor(gen, marker.Tooltip)
	popup := c.resolver.Accessor(gen, marker.Popup)
	styles := c.settings.Styles

	return lo.Map(candidates, func(cand sampler.Candidate, _ int) marker.Marker {
		return marker.Marker{
			ID:      cand.ID,
			Rank:    cand.Rank,
			Lat:     cand.Position.Lat,
			Lng:     cand.Position.Lng,
			Pin:     marker.VisualSlot{Style: styles.Pin, Body: pin},
			Tooltip: marker.VisualSlot{Style: styles.Tooltip, Body: tooltip},
			Popup:   marker.VisualSlot{Style: styles.Popup, Body: popup},
		}
	})
}
