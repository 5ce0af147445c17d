package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"

	"github.com/arenarium/mapmarkers/internal/marker"
)

const (
	// DefaultPullConcurrency bounds the number of accessors invoked at once
	DefaultPullConcurrency = 16
	// DefaultInitialInterval is the first retry delay for elements that are not mounted yet
	DefaultInitialInterval = 5 * time.Millisecond
	// DefaultMaxInterval caps the retry delay
	DefaultMaxInterval = 100 * time.Millisecond
	// DefaultMaxElapsedTime bounds the total time spent retrying one slot
	DefaultMaxElapsedTime = 2 * time.Second
)

// PullResult is the outcome of resolving one slot of one marker
type PullResult struct {
	MarkerID string
	Kind     marker.SlotKind
	Element  marker.Element
	Err      error
}

// BodyPuller resolves marker slot bodies on behalf of an engine
type BodyPuller struct {
	concurrency     int
	initialInterval time.Duration
	maxInterval     time.Duration
	maxElapsedTime  time.Duration
}

// PullerOption configures a BodyPuller
type PullerOption func(*BodyPuller)

// WithConcurrency sets the maximum number of concurrent accessor invocations
func WithConcurrency(n int) PullerOption {
	return func(p *BodyPuller) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithRetry sets the retry schedule for elements that are not mounted yet
func WithRetry(initial, maxInterval, maxElapsed time.Duration) PullerOption {
	return func(p *BodyPuller) {
		if initial > 0 {
			p.initialInterval = initial
		}
		if maxInterval > 0 {
			p.maxInterval = maxInterval
		}
		if maxElapsed > 0 {
			p.maxElapsedTime = maxElapsed
		}
	}
}

// NewBodyPuller creates a puller with the default retry schedule
func NewBodyPuller(opts ...PullerOption) *BodyPuller {
	p := &BodyPuller{
		concurrency:     DefaultPullConcurrency,
		initialInterval: DefaultInitialInterval,
		maxInterval:     DefaultMaxInterval,
		maxElapsedTime:  DefaultMaxElapsedTime,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Pull resolves the given slot kinds of every marker. Results are returned in marker
// order, then slot order. A failed slot only affects its own result. Stale generation
// results are dropped from the log output since they are expected after a swap.
func (p *BodyPuller) Pull(ctx context.Context, markers []marker.Marker, kinds ...marker.SlotKind) []PullResult {
	if len(kinds) == 0 {
		kinds = marker.SlotKinds
	}

	results := make([]PullResult, len(markers)*len(kinds))

	var g errgroup.Group
	g.SetLimit(p.concurrency)

	for i, m := range markers {
		for j, kind := range kinds {
			slot := i*len(kinds) + j
			g.Go(func() error {
				el, err := p.pullOne(ctx, m, kind)
				results[slot] = PullResult{MarkerID: m.ID, Kind: kind, Element: el, Err: err}
				return nil
			})
		}
	}
	_ = g.Wait()

	for _, r := range results {
		switch {
		case r.Err == nil, marker.IsStale(r.Err):
		case marker.IsRetryable(r.Err):
			slog.Warn("Marker body still not ready after retries", "marker_id", r.MarkerID, "slot", r.Kind.String())
		default:
			slog.Error("Failed to resolve marker body", "marker_id", r.MarkerID, "slot", r.Kind.String(), "error", r.Err)
		}
	}

	return results
}

// PullOne resolves a single slot of one marker with retries
func (p *BodyPuller) PullOne(ctx context.Context, m marker.Marker, kind marker.SlotKind) (marker.Element, error) {
	return p.pullOne(ctx, m, kind)
}

func (p *BodyPuller) pullOne(ctx context.Context, m marker.Marker, kind marker.SlotKind) (marker.Element, error) {
	accessor := m.Slot(kind).Body
	if accessor == nil {
		return nil, &marker.ResolveError{MarkerID: m.ID, Kind: kind, Err: marker.ErrElementNotReady}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.initialInterval
	b.MaxInterval = p.maxInterval

	operation := func() (marker.Element, error) {
		el, err := accessor.Body(ctx, m.ID)
		if err == nil {
			return el, nil
		}
		if marker.IsRetryable(err) {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxElapsedTime(p.maxElapsedTime),
	)
}
