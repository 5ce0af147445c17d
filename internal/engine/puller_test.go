package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenarium/mapmarkers/internal/marker"
)

type stubElement struct {
	id   string
	kind marker.SlotKind
}

func (s *stubElement) ElementID() string { return s.id }
func (s *stubElement) Kind() marker.SlotKind { return s.kind }
func (s *stubElement) MarkerID() string { return s.id }
func (s *stubElement) Label() string { return s.id }
func (*stubElement) AddClickListener(marker.ClickListener) {}
func (*stubElement) DispatchClick(*marker.ClickEvent) {}

func readyAfter(n int32, calls *atomic.Int32) marker.BodyAccessor {
	return marker.BodyAccessorFunc(func(_ context.Context, id string) (marker.Element, error) {
		if calls.Add(1) <= n {
			return nil, marker.ErrElementNotReady
		}
		return &stubElement{id: id}, nil
	})
}

func failing(err error, calls *atomic.Int32) marker.BodyAccessor {
	return marker.BodyAccessorFunc(func(context.Context, string) (marker.Element, error) {
		calls.Add(1)
		return nil, err
	})
}

func fastPuller() *BodyPuller {
	return NewBodyPuller(WithConcurrency(4), WithRetry(time.Millisecond, 2*time.Millisecond, 500*time.Millisecond))
}

func TestBodyPuller_RetriesNotReady(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	m := marker.Marker{ID: "3", Pin: marker.VisualSlot{Body: readyAfter(2, &calls)}}

	el, err := fastPuller().PullOne(context.Background(), m, marker.Pin)
	require.NoError(t, err)
	assert.Equal(t, "3", el.ElementID())
	assert.Equal(t, int32(3), calls.Load())
}

func TestBodyPuller_PermanentErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "stale generation", err: marker.ErrStaleGeneration},
		{name: "unknown id", err: marker.ErrUnknownMarkerID},
		{name: "other", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			m := marker.Marker{ID: "1", Popup: marker.VisualSlot{Body: failing(tt.err, &calls)}}

			_, err := fastPuller().PullOne(context.Background(), m, marker.Popup)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

func TestBodyPuller_GivesUpAfterMaxElapsed(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	m := marker.Marker{ID: "1", Pin: marker.VisualSlot{Body: failing(marker.ErrElementNotReady, &calls)}}

	p := NewBodyPuller(WithRetry(time.Millisecond, time.Millisecond, 20*time.Millisecond))
	_, err := p.PullOne(context.Background(), m, marker.Pin)
	assert.ErrorIs(t, err, marker.ErrElementNotReady)
	assert.Greater(t, calls.Load(), int32(1))
}

func TestBodyPuller_NilAccessor(t *testing.T) {
	t.Parallel()

	_, err := fastPuller().PullOne(context.Background(), marker.Marker{ID: "x"}, marker.Tooltip)
	assert.ErrorIs(t, err, marker.ErrElementNotReady)
}

func TestBodyPuller_FailuresStayLocal(t *testing.T) {
	t.Parallel()

	var okCalls, badCalls atomic.Int32
	good := readyAfter(0, &okCalls)
	bad := failing(marker.ErrUnknownMarkerID, &badCalls)

	markers := []marker.Marker{
		{ID: "0", Pin: marker.VisualSlot{Body: good}, Tooltip: marker.VisualSlot{Body: good}},
		{ID: "1", Pin: marker.VisualSlot{Body: bad}, Tooltip: marker.VisualSlot{Body: good}},
		{ID: "2", Pin: marker.VisualSlot{Body: good}, Tooltip: marker.VisualSlot{Body: good}},
	}

	results := fastPuller().Pull(context.Background(), markers, marker.Pin, marker.Tooltip)
	require.Len(t, results, 6)

	for i, r := range results {
		assert.Equal(t, markers[i/2].ID, r.MarkerID)
		if r.MarkerID == "1" && r.Kind == marker.Pin {
			assert.ErrorIs(t, r.Err, marker.ErrUnknownMarkerID)
			assert.Nil(t, r.Element)
			continue
		}
		assert.NoError(t, r.Err)
		assert.NotNil(t, r.Element)
	}
	assert.Equal(t, int32(5), okCalls.Load())
}

func TestBodyPuller_DefaultsToAllSlots(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	acc := readyAfter(0, &calls)
	m := marker.Marker{
		ID:      "0",
		Pin:     marker.VisualSlot{Body: acc},
		Tooltip: marker.VisualSlot{Body: acc},
		Popup:   marker.VisualSlot{Body: acc},
	}

	results := fastPuller().Pull(context.Background(), []marker.Marker{m})
	require.Len(t, results, 3)
	assert.Equal(t, marker.Pin, results[0].Kind)
	assert.Equal(t, marker.Tooltip, results[1].Kind)
	assert.Equal(t, marker.Popup, results[2].Kind)
}

func TestBodyPuller_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	m := marker.Marker{ID: "1", Pin: marker.VisualSlot{Body: failing(marker.ErrElementNotReady, &calls)}}

	p := NewBodyPuller(WithRetry(50*time.Millisecond, 50*time.Millisecond, time.Minute))
	_, err := p.PullOne(ctx, m, marker.Pin)
	assert.Error(t, err)
}
