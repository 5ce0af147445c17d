package registry

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/arenarium/mapmarkers/internal/marker"
)

type elementBox struct {
	el marker.Element
}

type arena struct {
	gen     marker.Generation
	markers []marker.Marker
	index   map[string]int
	slots   [slotCount][]atomic.Pointer[elementBox]
}

const slotCount = 3

func newArena(gen marker.Generation, markers []marker.Marker) (*arena, error) {
	a := &arena{
		gen:     gen,
		markers: make([]marker.Marker, len(markers)),
		index:   make(map[string]int, len(markers)),
	}
	copy(a.markers, markers)

	for i, m := range a.markers {
		if _, exists := a.index[m.ID]; exists {
			return nil, fmt.Errorf("%w: %q", marker.ErrDuplicateMarkerID, m.ID)
		}
		a.index[m.ID] = i
	}
	for k := range a.slots {
		a.slots[k] = make([]atomic.Pointer[elementBox], len(markers))
	}
	return a, nil
}

// Registry stores the current marker generation.
// The zero value is not usable; create one with New.
type Registry struct {
	mu      sync.Mutex
	staged  marker.Generation
	current atomic.Pointer[arena]
}

// New creates a registry holding an empty generation 0
func New() *Registry {
	r := &Registry{}
	a, _ := newArena(0, nil)
	r.current.Store(a)
	return r
}

// Stage reserves the next generation token. The token must be passed to ReplaceAll to
// install the markers built for it; accessors created with the token before the install
// resolve only once that generation is current.
func (r *Registry) Stage() marker.Generation {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.staged++
	return r.staged
}

// ReplaceAll atomically installs markers as generation gen, discarding the previous
// generation together with all of its backing elements. A token that is not newer than
// the current generation is rejected with marker.ErrStaleGeneration.
func (r *Registry) ReplaceAll(gen marker.Generation, markers []marker.Marker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen > r.staged {
		return fmt.Errorf("generation %d was never staged", gen)
	}
	if cur := r.current.Load(); gen <= cur.gen {
		return fmt.Errorf("%w: generation %d is not newer than current %d", marker.ErrStaleGeneration, gen, cur.gen)
	}

	a, err := newArena(gen, markers)
	if err != nil {
		return fmt.Errorf("failed to install generation %d: %w", gen, err)
	}
	r.current.Store(a)
	return nil
}

// Clear installs a new, empty generation and returns its token
func (r *Registry) Clear() marker.Generation {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.staged++
	a, _ := newArena(r.staged, nil)
	r.current.Store(a)
	return r.staged
}

// Current returns the token of the installed generation
func (r *Registry) Current() marker.Generation {
	return r.current.Load().gen
}

// Len returns the number of markers in the current generation
func (r *Registry) Len() int {
	return len(r.current.Load().markers)
}

// Markers returns a copy of the current generation's markers in rank order
func (r *Registry) Markers() []marker.Marker {
	a := r.current.Load()
	out := make([]marker.Marker, len(a.markers))
	copy(out, a.markers)
	return out
}

// Snapshot returns the current generation token and a copy of its markers
func (r *Registry) Snapshot() (marker.Generation, []marker.Marker) {
	a := r.current.Load()
	out := make([]marker.Marker, len(a.markers))
	copy(out, a.markers)
	return a.gen, out
}

// LookupIndexByID returns the position of id in the current generation
func (r *Registry) LookupIndexByID(id string) (int, marker.Generation, error) {
	a := r.current.Load()
	idx, ok := a.index[id]
	if !ok {
		return -1, a.gen, fmt.Errorf("%w: %q", marker.ErrUnknownMarkerID, id)
	}
	return idx, a.gen, nil
}

// MarkerByID returns the marker with the given id from the current generation
func (r *Registry) MarkerByID(id string) (marker.Marker, marker.Generation, error) {
	a := r.current.Load()
	idx, ok := a.index[id]
	if !ok {
		return marker.Marker{}, a.gen, fmt.Errorf("%w: %q", marker.ErrUnknownMarkerID, id)
	}
	return a.markers[idx], a.gen, nil
}

// Attach stores el as the backing element of the given slot. It fails with
// marker.ErrStaleGeneration when gen is no longer current.
func (r *Registry) Attach(gen marker.Generation, kind marker.SlotKind, index int, el marker.Element) error {
	if el == nil {
		return fmt.Errorf("cannot attach nil %s element at index %d", kind, index)
	}
	slot, err := r.slot(gen, kind, index)
	if err != nil {
		return err
	}
	slot.Store(&elementBox{el: el})
	return nil
}

// Element resolves the backing element for id in generation gen. The lookup and the
// element read use the same arena snapshot.
func (r *Registry) Element(gen marker.Generation, kind marker.SlotKind, id string) (marker.Element, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid slot kind %d", int(kind))
	}
	a := r.current.Load()
	if a.gen != gen {
		return nil, fmt.Errorf("%w: requested %d, current %d", marker.ErrStaleGeneration, gen, a.gen)
	}
	idx, ok := a.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", marker.ErrUnknownMarkerID, id)
	}
	box := a.slots[kind][idx].Load()
	if box == nil {
		return nil, fmt.Errorf("%w: %s of marker %q", marker.ErrElementNotReady, kind, id)
	}
	return box.el, nil
}

func (r *Registry) slot(gen marker.Generation, kind marker.SlotKind, index int) (*atomic.Pointer[elementBox], error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid slot kind %d", int(kind))
	}
	a := r.current.Load()
	if a.gen != gen {
		return nil, fmt.Errorf("%w: requested %d, current %d", marker.ErrStaleGeneration, gen, a.gen)
	}
	if index < 0 || index >= len(a.markers) {
		return nil, fmt.Errorf("index %d out of range for generation %d with %d markers", index, gen, len(a.markers))
	}
	return &a.slots[kind][index], nil
}
