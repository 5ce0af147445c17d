package sampler

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/arenarium/mapmarkers/internal/geo"
	"github.com/arenarium/mapmarkers/internal/viewport"
)

// Params configures one candidate generation run
type Params struct {
	Seed    int64
	Centers []geo.LatLng
	Radius  float64
	Count   int
	Limit   int
}

// Candidate is a generated marker position that passed the viewport filter
type Candidate struct {
	ID       string
	Rank     int
	Position geo.LatLng
}

// Validate checks that the parameters can drive a generation run
func (p Params) Validate() error {
	var errs []error
	if p.Count <= 0 {
		errs = append(errs, fmt.Errorf("count must be positive, got %d", p.Count))
	}
	if p.Limit <= 0 {
		errs = append(errs, fmt.Errorf("limit must be positive, got %d", p.Limit))
	}
	if p.Radius < 0 || math.IsNaN(p.Radius) || math.IsInf(p.Radius, 0) {
		errs = append(errs, fmt.Errorf("radius must be a finite non-negative number, got %f", p.Radius))
	}
	if len(p.Centers) == 0 {
		errs = append(errs, errors.New("at least one center is required"))
	}
	for i, c := range p.Centers {
		if err := c.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("centers[%d]: %w", i, err))
		}
	}
	if p.Seed < 1 || p.Seed >= Modulus {
		errs = append(errs, fmt.Errorf("seed must be in [1, %d], got %d", Modulus-1, p.Seed))
	}
	return errors.Join(errs...)
}

// Generate runs the sampler for p.Count iterations and returns the candidates kept by the
// filter, in iteration order. A fresh generator is seeded on every call so repeated runs with
// the same parameters and bounds return identical results.
//
// Candidates with a higher drawn index cluster tighter around their center, since the
// offset distance is Radius/(Count-index).
func Generate(p Params, filter *viewport.Filter) []Candidate {
	if p.Count <= 0 || len(p.Centers) == 0 {
		return nil
	}

	g := NewLCG(p.Seed)
	out := make([]Candidate, 0, min(p.Count, max(p.Limit, 0)))

	for i := 0; i < p.Count; i++ {
		index := int(math.Floor(g.Next() * float64(p.Count)))
		distance := p.Radius / float64(p.Count-index)
		center := p.Centers[index%len(p.Centers)]

		lat := center.Lat + distance*(-1+2*g.Next())
		lng := center.Lng + distance*(-1+2*g.Next())
		pos := geo.LatLng{Lat: lat, Lng: lng}

		decision := filter.Offer(pos)
		if decision.Kept() {
			out = append(out, Candidate{
				ID:       strconv.Itoa(i),
				Rank:     i,
				Position: pos,
			})
		}
		if decision.Done() {
			break
		}
	}

	return out
}
