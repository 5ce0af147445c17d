// Package viewport filters candidate marker positions against the visible map bounds.
package viewport

import (
	"github.com/arenarium/mapmarkers/internal/geo"
)

// Decision is the outcome of offering a candidate to a Filter
type Decision int

const (
	// Rejected means the candidate lies outside the viewport bounds
	Rejected Decision = iota
	// Accepted means the candidate was kept and more candidates may follow
	Accepted
	// Full means the candidate was kept and the cap is now reached.
	// The caller must stop generating candidates.
	Full
	// Closed means the cap was already reached before the candidate was offered.
	// The candidate is not kept.
	Closed
)

// String returns the decision name
func (d Decision) String() string {
	switch d {
	case Rejected:
		return "rejected"
	case Accepted:
		return "accepted"
	case Full:
		return "full"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Done reports whether the caller must stop offering candidates
func (d Decision) Done() bool {
	return d == Full || d == Closed
}

// Kept reports whether the candidate was added to the output set
func (d Decision) Kept() bool {
	return d == Accepted || d == Full
}

// Filter accepts candidates inside Bounds until Limit of them have been kept.
// A Filter is used for one generation run and is not safe for concurrent use.
type Filter struct {
	bounds   geo.Bounds
	limit    int
	accepted int
}

// NewFilter creates a filter for the given bounds and cap
func NewFilter(bounds geo.Bounds, limit int) *Filter {
	return &Filter{bounds: bounds, limit: limit}
}

// Offer decides whether the candidate at p is kept
func (f *Filter) Offer(p geo.LatLng) Decision {
	if f.Exhausted() {
		return Closed
	}
	if !f.bounds.Contains(p) {
		return Rejected
	}

	f.accepted++
	if f.Exhausted() {
		return Full
	}
	return Accepted
}

// Exhausted reports whether the cap has been reached
func (f *Filter) Exhausted() bool {
	return f.accepted >= f.limit
}

// Accepted returns the number of kept candidates so far
func (f *Filter) Accepted() int {
	return f.accepted
}

// Bounds returns the viewport bounds used by the filter
func (f *Filter) Bounds() geo.Bounds {
	return f.bounds
}
