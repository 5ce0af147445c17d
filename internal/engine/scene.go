package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/samber/lo"

	"github.com/arenarium/mapmarkers/internal/marker"
)

// DrawnMarker is a rendered marker together with the elements pulled for its slots.
// A nil element means the slot has not been resolved.
type DrawnMarker struct {
	Marker  marker.Marker
	Pin     marker.Element
	Tooltip marker.Element
	Popup   marker.Element
}

// Ready reports whether every slot has been resolved
func (d DrawnMarker) Ready() bool {
	return d.Pin != nil && d.Tooltip != nil && d.Popup != nil
}

// Scene is the drawn state shared by the engines of this module: the rendered markers,
// their pulled elements, and the popup. Each render starts an asynchronous pull of the
// slot bodies; results of a superseded render are discarded.
type Scene struct {
	puller   *BodyPuller
	onChange func()

	mu       sync.Mutex
	markers  []marker.Marker
	elements map[string]map[marker.SlotKind]marker.Element
	popup    string
	render   uint64
	cancel   context.CancelFunc

	// pulls holds one channel per render whose pull is running, closed when it ends
	pulls map[uint64]chan struct{}
}

// NewScene creates an empty scene. onChange, if set, is called after every change of
// the drawn state, without the scene lock held.
func NewScene(puller *BodyPuller, onChange func()) *Scene {
	if puller == nil {
		puller = NewBodyPuller()
	}
	return &Scene{
		puller:   puller,
		onChange: onChange,
		elements: make(map[string]map[marker.SlotKind]marker.Element),
		pulls:    make(map[uint64]chan struct{}),
	}
}

// Render replaces the drawn markers and pulls their bodies in the background
func (s *Scene) Render(ctx context.Context, markers []marker.Marker) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.render++
	render := s.render
	s.markers = append([]marker.Marker(nil), markers...)
	s.elements = make(map[string]map[marker.SlotKind]marker.Element, len(markers))

	// pulls outlive the request that triggered the render
	pullCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	done := make(chan struct{})
	s.pulls[render] = done
	s.mu.Unlock()
	s.changed()

	go func() {
		defer s.pullDone(render, done)
		defer cancel()
		results := s.puller.Pull(pullCtx, markers)
		if s.store(render, results) {
			s.changed()
		}
	}()
}

func (s *Scene) pullDone(render uint64, done chan struct{}) {
	s.mu.Lock()
	delete(s.pulls, render)
	s.mu.Unlock()
	close(done)
}

func (s *Scene) store(render uint64, results []PullResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if render != s.render {
		return false
	}
	resolved := 0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		slots, ok := s.elements[r.MarkerID]
		if !ok {
			slots = make(map[marker.SlotKind]marker.Element, len(marker.SlotKinds))
			s.elements[r.MarkerID] = slots
		}
		slots[r.Kind] = r.Element
		resolved++
	}
	slog.Debug("Pulled marker bodies", "resolved", resolved, "requested", len(results))
	return true
}

// Clear removes every drawn marker and the popup, abandoning pending pulls
func (s *Scene) Clear() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.render++
	s.markers = nil
	s.elements = make(map[string]map[marker.SlotKind]marker.Element)
	s.popup = ""
	s.mu.Unlock()
	s.changed()
}

// ShowPopup marks the popup of id as shown
func (s *Scene) ShowPopup(id string) {
	s.mu.Lock()
	s.popup = id
	s.mu.Unlock()
	s.changed()
}

// HidePopup hides the popup
func (s *Scene) HidePopup() {
	s.mu.Lock()
	s.popup = ""
	s.mu.Unlock()
	s.changed()
}

// Popup returns the id whose popup is shown, or "" when hidden
func (s *Scene) Popup() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popup
}

// Tooltip returns the pulled tooltip element of marker id
func (s *Scene) Tooltip(id string) (marker.Element, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for _, m := range s.markers {
		if m.ID == id {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: no rendered marker %q", marker.ErrUnknownMarkerID, id)
	}
	el := s.elements[id][marker.Tooltip]
	if el == nil {
		return nil, fmt.Errorf("%w: tooltip of marker %q", marker.ErrElementNotReady, id)
	}
	return el, nil
}

// Drawn returns the rendered markers in render order
func (s *Scene) Drawn() []DrawnMarker {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]DrawnMarker, len(s.markers))
	for i, m := range s.markers {
		slots := s.elements[m.ID]
		out[i] = DrawnMarker{
			Marker:  m,
			Pin:     slots[marker.Pin],
			Tooltip: slots[marker.Tooltip],
			Popup:   slots[marker.Popup],
		}
	}
	return out
}

// Settle waits until the pulls started by previous renders have finished. Renders
// started while waiting are not waited for.
func (s *Scene) Settle(ctx context.Context) error {
	s.mu.Lock()
	pending := lo.Values(s.pulls)
	s.mu.Unlock()

	for _, done := range pending {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *Scene) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}
