package marker

import (
	"context"
	"sync"
	"sync/atomic"
)

// ClickListener receives click events dispatched to an element
type ClickListener func(ev *ClickEvent)

// Element is an externally owned visual element rendered by a map engine.
// Its identity (ElementID) is stable for the element's lifetime.
type Element interface {
	ElementID() string
	Kind() SlotKind
	MarkerID() string
	Label() string
	AddClickListener(l ClickListener)
	DispatchClick(ev *ClickEvent)
}

// ClickEvent is delivered to element click listeners. A listener that stops
// propagation prevents the engine from treating the click as a background click.
type ClickEvent struct {
	Target  Element
	ctx     context.Context
	stopped atomic.Bool

	mu  sync.Mutex
	err error
}

// NewClickEvent creates an event targeting el
func NewClickEvent(ctx context.Context, el Element) *ClickEvent {
	if ctx == nil {
		ctx = context.Background()
	}
	return &ClickEvent{Target: el, ctx: ctx}
}

// Context returns the context of the interaction that produced the event
func (e *ClickEvent) Context() context.Context {
	return e.ctx
}

// Fail records a listener failure. Only the first failure is kept.
func (e *ClickEvent) Fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

// Err returns the first listener failure, if any
func (e *ClickEvent) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// StopPropagation prevents the event from reaching the map background
func (e *ClickEvent) StopPropagation() {
	e.stopped.Store(true)
}

// PropagationStopped reports whether a listener stopped the event
func (e *ClickEvent) PropagationStopped() bool {
	return e.stopped.Load()
}
