package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arenarium/mapmarkers/internal/geo"
	"github.com/arenarium/mapmarkers/internal/viewport"
)

var defaultCenters = []geo.LatLng{
	{Lat: 51.505, Lng: -0.09},
	{Lat: 45, Lng: 22},
	{Lat: 52.52, Lng: 13.409},
	{Lat: 48.8566, Lng: 2.3522},
}

func TestLCG_MinimalStandardSequence(t *testing.T) {
	t.Parallel()

	g := NewLCG(DefaultSeed)
	expected := []int64{16807, 282475249, 1622650073, 984943658, 1144108930}
	for i, want := range expected {
		v := g.Next()
		assert.Equal(t, want, g.State(), "state %d", i)
		assert.InDelta(t, float64(want)/float64(Modulus), v, 1e-15)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestNewLCG_FoldsSeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		seed     int64
		expected int64
	}{
		{name: "zero uses default", seed: 0, expected: DefaultSeed},
		{name: "modulus uses default", seed: Modulus, expected: DefaultSeed},
		{name: "negative folds", seed: -1, expected: Modulus - 1},
		{name: "in range kept", seed: 42, expected: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, NewLCG(tt.seed).State())
		})
	}
}

func TestGenerate_SingleCenterScenario(t *testing.T) {
	t.Parallel()

	center := geo.LatLng{Lat: 51.505, Lng: -0.09}
	p := Params{Seed: 1, Centers: []geo.LatLng{center}, Radius: 10, Count: 4, Limit: 4}
	require.NoError(t, p.Validate())

	got := Generate(p, viewport.NewFilter(geo.WorldBounds, p.Limit))
	require.Len(t, got, 4)

	for i, c := range got {
		assert.Equal(t, []string{"0", "1", "2", "3"}[i], c.ID)
		assert.Equal(t, i, c.Rank)
		assert.LessOrEqual(t, abs(c.Position.Lat-center.Lat), 10.0)
		assert.LessOrEqual(t, abs(c.Position.Lng-center.Lng), 10.0)
	}

	// first draw picks index 0, so the offset is at most radius/count
	assert.InDelta(t, 49.66268894071583, got[0].Position.Lat, 1e-9)
	assert.InDelta(t, 1.1880266109751658, got[0].Position.Lng, 1e-9)
	// last draw picks index 3, so the offset can reach the full radius
	assert.InDelta(t, 49.17504154979719, got[3].Position.Lat, 1e-9)
	assert.InDelta(t, 0.29832744135909095, got[3].Position.Lng, 1e-9)
}

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	p := Params{Seed: 1, Centers: defaultCenters, Radius: 10, Count: 64, Limit: 64}
	bounds := geo.Bounds{
		SouthWest: geo.LatLng{Lat: 40, Lng: -10},
		NorthEast: geo.LatLng{Lat: 60, Lng: 25},
	}

	first := Generate(p, viewport.NewFilter(bounds, p.Limit))
	second := Generate(p, viewport.NewFilter(bounds, p.Limit))
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestGenerate_RespectsBoundsAndCaps(t *testing.T) {
	t.Parallel()

	bounds := geo.Bounds{
		SouthWest: geo.LatLng{Lat: 50, Lng: -2},
		NorthEast: geo.LatLng{Lat: 53, Lng: 14},
	}

	tests := []struct {
		name  string
		count int
		limit int
	}{
		{name: "limit below count", count: 64, limit: 5},
		{name: "limit equals count", count: 64, limit: 64},
		{name: "limit above count", count: 16, limit: 100},
		{name: "single iteration", count: 1, limit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Params{Seed: 1, Centers: defaultCenters, Radius: 10, Count: tt.count, Limit: tt.limit}
			got := Generate(p, viewport.NewFilter(bounds, tt.limit))

			assert.LessOrEqual(t, len(got), tt.limit)
			assert.LessOrEqual(t, len(got), tt.count)
			seen := map[string]bool{}
			for _, c := range got {
				assert.True(t, bounds.Contains(c.Position), "candidate %s outside bounds", c.ID)
				assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
				seen[c.ID] = true
			}
		})
	}
}

func TestGenerate_StopsAtLimit(t *testing.T) {
	t.Parallel()

	p := Params{Seed: 1, Centers: defaultCenters, Radius: 10, Count: 64, Limit: 3}
	got := Generate(p, viewport.NewFilter(geo.WorldBounds, p.Limit))
	require.Len(t, got, 3)

	// world bounds keep every candidate, so the first three iterations win
	assert.Equal(t, "0", got[0].ID)
	assert.Equal(t, "1", got[1].ID)
	assert.Equal(t, "2", got[2].ID)
}

func TestGenerate_EmptyViewport(t *testing.T) {
	t.Parallel()

	p := Params{Seed: 1, Centers: defaultCenters, Radius: 10, Count: 64, Limit: 64}
	farAway := geo.Bounds{
		SouthWest: geo.LatLng{Lat: -80, Lng: -170},
		NorthEast: geo.LatLng{Lat: -70, Lng: -160},
	}
	assert.Empty(t, Generate(p, viewport.NewFilter(farAway, p.Limit)))
}

func TestParams_Validate(t *testing.T) {
	t.Parallel()

	valid := Params{Seed: 1, Centers: defaultCenters, Radius: 10, Count: 64, Limit: 64}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{name: "zero count", mutate: func(p *Params) { p.Count = 0 }},
		{name: "zero limit", mutate: func(p *Params) { p.Limit = 0 }},
		{name: "negative radius", mutate: func(p *Params) { p.Radius = -1 }},
		{name: "no centers", mutate: func(p *Params) { p.Centers = nil }},
		{name: "invalid center", mutate: func(p *Params) { p.Centers = []geo.LatLng{{Lat: 120}} }},
		{name: "zero seed", mutate: func(p *Params) { p.Seed = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := valid
			p.Centers = append([]geo.LatLng(nil), valid.Centers...)
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
