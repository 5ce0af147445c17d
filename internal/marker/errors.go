package marker

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrElementNotReady means the backing element has not been mounted yet
	ErrElementNotReady = errors.New("element not ready")
	// ErrStaleGeneration means the request was issued for a superseded generation
	ErrStaleGeneration = errors.New("stale generation")
	// ErrUnknownMarkerID means the id does not exist in the current generation
	ErrUnknownMarkerID = errors.New("unknown marker id")
	// ErrDuplicateMarkerID means a generation contains the same id twice
	ErrDuplicateMarkerID = errors.New("duplicate marker id")
)

// ResolveError describes a failed body resolution for one slot of one marker
type ResolveError struct {
	MarkerID   string
	Kind       SlotKind
	Generation Generation
	Err        error
}

// Error implements the error interface
func (e *ResolveError) Error() string {
	return fmt.Sprintf("failed to resolve %s body for marker %q (generation %d): %v",
		e.Kind, e.MarkerID, e.Generation, e.Err)
}

// Unwrap returns the underlying error
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err may succeed if the same request is repeated later
func IsRetryable(err error) bool {
	return errors.Is(err, ErrElementNotReady)
}

// IsStale reports whether err belongs to a superseded generation and should be discarded
func IsStale(err error) bool {
	return errors.Is(err, ErrStaleGeneration)
}

// Outcome classifies a resolution error for logging and metrics
func Outcome(err error) string {
	switch {
	case err == nil:
		return "resolved"
	case errors.Is(err, ErrElementNotReady):
		return "not_ready"
	case errors.Is(err, ErrStaleGeneration):
		return "stale"
	case errors.Is(err, ErrUnknownMarkerID):
		return "unknown_id"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
