// Package resolver turns marker slots into body accessors bound to one generation.
//
// An Accessor holds only a generation token and a slot kind. Every call resolves
// through the registry, so an accessor created for generation N can never return an
// element of generation N+1. If the generation changes while a call is in flight the
// call fails with marker.ErrStaleGeneration.
//
// Tooltip elements get a click listener the first time they are resolved. The
// listener consumes the click and selects the marker. Clicks on a tooltip whose
// generation has been replaced are consumed and fail with marker.ErrStaleGeneration,
// even when the new generation reuses the id. Listeners are tracked per
// element identity within the current generation, so repeated resolutions of the same
// tooltip never attach a second listener.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/arenarium/mapmarkers/internal/marker"
	"github.com/arenarium/mapmarkers/internal/telemetry"
)

// Lookup resolves backing elements. The registry implements it.
type Lookup interface {
	Element(gen marker.Generation, kind marker.SlotKind, id string) (marker.Element, error)
	Current() marker.Generation
}

// Selector receives tooltip clicks together with the generation of the clicked
// tooltip. The selection machine implements it.
type Selector interface {
	TooltipClicked(ctx context.Context, gen marker.Generation, id string) error
}

// Resolver creates accessors and owns the tooltip click attachments
type Resolver struct {
	lookup   Lookup
	selector Selector
	metrics  *telemetry.ResolverMetrics

	mu          sync.Mutex
	attachedGen marker.Generation
	attached    map[string]struct{}
}

// Option configures a Resolver
type Option func(*Resolver)

// WithMetrics sets the resolution instruments
func WithMetrics(m *telemetry.ResolverMetrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// New creates a resolver
func New(lookup Lookup, selector Selector, opts ...Option) *Resolver {
	r := &Resolver{
		lookup:   lookup,
		selector: selector,
		attached: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Accessor returns the body accessor for slot kind of generation gen
func (r *Resolver) Accessor(gen marker.Generation, kind marker.SlotKind) *Accessor {
	return &Accessor{resolver: r, gen: gen, kind: kind}
}

// Attached returns the number of tooltip listeners attached in the current generation
func (r *Resolver) Attached() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.attachedGen != r.lookup.Current() {
		return 0
	}
	return len(r.attached)
}

// Accessor resolves one slot kind of one generation
type Accessor struct {
	resolver *Resolver
	gen      marker.Generation
	kind     marker.SlotKind
}

var _ marker.BodyAccessor = (*Accessor)(nil)

// Generation returns the generation the accessor is bound to
func (a *Accessor) Generation() marker.Generation {
	return a.gen
}

// Kind returns the slot kind the accessor resolves
func (a *Accessor) Kind() marker.SlotKind {
	return a.kind
}

// Body resolves the element of marker id. Errors are *marker.ResolveError values
// wrapping one of the marker sentinel errors or a context error.
func (a *Accessor) Body(ctx context.Context, id string) (marker.Element, error) {
	el, err := a.resolver.resolve(ctx, a.gen, a.kind, id)
	a.resolver.metrics.RecordResolution(ctx, a.kind.String(), marker.Outcome(err))
	if err != nil {
		return nil, &marker.ResolveError{MarkerID: id, Kind: a.kind, Generation: a.gen, Err: err}
	}
	return el, nil
}

func (r *Resolver) resolve(ctx context.Context, gen marker.Generation, kind marker.SlotKind, id string) (marker.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	el, err := r.lookup.Element(gen, kind, id)
	if err != nil {
		if errors.Is(err, marker.ErrUnknownMarkerID) {
			slog.Error("Body requested for marker outside its generation",
				"marker_id", id, "slot", kind.String(), "generation", uint64(gen))
		}
		return nil, err
	}

	if kind == marker.Tooltip {
		r.attachClick(gen, el)
	}

	// the registry may have swapped generations after the lookup
	if cur := r.lookup.Current(); cur != gen {
		return nil, fmt.Errorf("%w: generation %d replaced by %d during resolution", marker.ErrStaleGeneration, gen, cur)
	}
	return el, nil
}

func (r *Resolver) attachClick(gen marker.Generation, el marker.Element) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case gen < r.attachedGen:
		return
	case gen > r.attachedGen:
		r.attachedGen = gen
		r.attached = make(map[string]struct{})
	}

	if _, ok := r.attached[el.ElementID()]; ok {
		return
	}
	r.attached[el.ElementID()] = struct{}{}

	id := el.MarkerID()
	el.AddClickListener(func(ev *marker.ClickEvent) {
		ev.StopPropagation()
		if cur := r.lookup.Current(); cur != gen {
			ev.Fail(fmt.Errorf("%w: tooltip of marker %q belongs to generation %d, current %d",
				marker.ErrStaleGeneration, id, gen, cur))
			return
		}
		if err := r.selector.TooltipClicked(ev.Context(), gen, id); err != nil {
			slog.Warn("Tooltip click not applied", "marker_id", id, "error", err)
			ev.Fail(err)
		}
	})
}
