// Package marker defines the data model shared by the marker pipeline.
//
// A Marker is an immutable record produced by the sampler for one generation. Each
// marker carries three visual slots (pin, tooltip, popup). A slot holds an opaque
// Style and a BodyAccessor that the map engine calls to obtain the externally owned
// visual Element for that slot.
//
// The error taxonomy is shared by every component:
//
//   - ErrElementNotReady: the element has not been mounted yet; retry later.
//   - ErrStaleGeneration: the request belongs to a superseded generation; discard it.
//   - ErrUnknownMarkerID: the id is not part of the current generation; a caller bug.
package marker
