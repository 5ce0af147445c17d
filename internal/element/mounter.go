package element

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arenarium/mapmarkers/internal/marker"
)

// Attacher receives mounted elements. The registry implements it.
type Attacher interface {
	Attach(gen marker.Generation, kind marker.SlotKind, index int, el marker.Element) error
}

// Mounter creates the elements of a rendered generation and attaches them
type Mounter struct {
	attacher Attacher
	kinds    []marker.SlotKind
}

// MounterOption configures a Mounter
type MounterOption func(*Mounter)

// WithKinds limits mounting to the given slot kinds
func WithKinds(kinds ...marker.SlotKind) MounterOption {
	return func(m *Mounter) {
		m.kinds = kinds
	}
}

// NewMounter creates a mounter attaching to a
func NewMounter(a Attacher, opts ...MounterOption) *Mounter {
	m := &Mounter{
		attacher: a,
		kinds:    marker.SlotKinds,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mount attaches one element per slot for every marker of generation gen, in marker
// order. It stops without error when gen is superseded while mounting, since the
// remaining elements could never be resolved. It returns the number of elements attached.
func (m *Mounter) Mount(ctx context.Context, gen marker.Generation, markers []marker.Marker) (int, error) {
	attached := 0
	for i, mk := range markers {
		if err := ctx.Err(); err != nil {
			return attached, fmt.Errorf("failed to mount generation %d: %w", gen, err)
		}
		for _, kind := range m.kinds {
			err := m.attacher.Attach(gen, kind, i, New(mk, kind))
			if errors.Is(err, marker.ErrStaleGeneration) {
				slog.Debug("Stopped mounting superseded generation", "generation", gen, "attached", attached)
				return attached, nil
			}
			if err != nil {
				return attached, fmt.Errorf("failed to mount %s of marker %q: %w", kind, mk.ID, err)
			}
			attached++
		}
	}
	return attached, nil
}
