// Package element provides the concrete visual elements backing marker slots and the
// mounter that attaches them to the registry once an engine has rendered a generation.
package element

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/arenarium/mapmarkers/internal/marker"
)

// PopupLink is the link drawn inside every popup
const PopupLink = "https://react.dev"

// Element is an in-memory visual element. Its identity is a random UUID assigned at
// creation, so two elements for the same marker id in different generations never
// share an identity.
type Element struct {
	id       string
	kind     marker.SlotKind
	markerID string
	label    string
	style    marker.Style

	mu        sync.RWMutex
	listeners []marker.ClickListener
}

var _ marker.Element = (*Element)(nil)

// New creates an element for one slot of m
func New(m marker.Marker, kind marker.SlotKind) *Element {
	return &Element{
		id:       uuid.NewString(),
		kind:     kind,
		markerID: m.ID,
		label:    Label(m.ID, kind),
		style:    m.Slot(kind).Style,
	}
}

// Label returns the text drawn for a slot of the marker with the given id
func Label(id string, kind marker.SlotKind) string {
	switch kind {
	case marker.Tooltip:
		return id
	case marker.Popup:
		return fmt.Sprintf("%s | %s", id, PopupLink)
	default:
		return "●"
	}
}

// ElementID returns the element identity
func (e *Element) ElementID() string {
	return e.id
}

// Kind returns the slot kind the element backs
func (e *Element) Kind() marker.SlotKind {
	return e.kind
}

// MarkerID returns the id of the marker the element belongs to
func (e *Element) MarkerID() string {
	return e.markerID
}

// Label returns the element text
func (e *Element) Label() string {
	return e.label
}

// Style returns the slot style the element was created with
func (e *Element) Style() marker.Style {
	return e.style
}

// AddClickListener registers l for click events on the element
func (e *Element) AddClickListener(l marker.ClickListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Listeners returns the number of registered click listeners
func (e *Element) Listeners() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}

// DispatchClick delivers ev to every listener in registration order
func (e *Element) DispatchClick(ev *marker.ClickEvent) {
	e.mu.RLock()
	listeners := make([]marker.ClickListener, len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.RUnlock()

	for _, l := range listeners {
		l(ev)
	}
}
