package engine

import (
	"context"
	"sync"

	"github.com/arenarium/mapmarkers/internal/marker"
)

// ClickRouter holds the background click handlers of an engine and routes clicks
type ClickRouter struct {
	mu       sync.Mutex
	handlers []BackgroundClickHandler
}

// OnBackgroundClick registers a handler for background clicks
func (r *ClickRouter) OnBackgroundClick(handler BackgroundClickHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers = append(r.handlers, handler)
}

// ClickBackground calls every background handler in registration order
func (r *ClickRouter) ClickBackground(ctx context.Context) {
	r.mu.Lock()
	handlers := append([]BackgroundClickHandler(nil), r.handlers...)
	r.mu.Unlock()

	for _, h := range handlers {
		h(ctx)
	}
}

// ClickElement dispatches a click to el. When no listener stops propagation the click
// reaches the background handlers. The first listener failure is returned.
func (r *ClickRouter) ClickElement(ctx context.Context, el marker.Element) error {
	ev := marker.NewClickEvent(ctx, el)
	el.DispatchClick(ev)
	if !ev.PropagationStopped() {
		r.ClickBackground(ctx)
	}
	return ev.Err()
}
