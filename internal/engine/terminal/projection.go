package terminal

import (
	"math"

	"github.com/arenarium/mapmarkers/internal/geo"
)

const (
	minSpanLat = 0.01
	minSpanLng = 0.02
	maxSpanLat = geo.MaxLat - geo.MinLat
	maxSpanLng = geo.MaxLng - geo.MinLng

	// panStep is the fraction of the visible span moved per pan key
	panStep = 0.1
	// ZoomStep is the span factor applied per zoom key
	ZoomStep = 1.5
)

// Viewport is the visible area of the terminal map, kept as a centre and a span so that
// panning and zooming never invert the bounds
type Viewport struct {
	Center  geo.LatLng
	SpanLat float64
	SpanLng float64
}

// ViewportFromBounds returns the viewport showing b
func ViewportFromBounds(b geo.Bounds) Viewport {
	spanLat, spanLng := b.Span()
	return Viewport{Center: b.Center(), SpanLat: spanLat, SpanLng: spanLng}.normalize()
}

// Bounds returns the visible rectangle
func (v Viewport) Bounds() geo.Bounds {
	return geo.AroundCenter(v.Center, v.SpanLat, v.SpanLng)
}

// Pan moves the centre by the given number of steps. Positive dLat moves north and
// positive dLng moves east.
func (v Viewport) Pan(dLat, dLng int) Viewport {
	v.Center.Lat += float64(dLat) * panStep * v.SpanLat
	v.Center.Lng += float64(dLng) * panStep * v.SpanLng
	return v.normalize()
}

// Zoom divides both spans by factor. A factor above 1 zooms in.
func (v Viewport) Zoom(factor float64) Viewport {
	if factor <= 0 || math.IsNaN(factor) {
		return v
	}
	v.SpanLat /= factor
	v.SpanLng /= factor
	return v.normalize()
}

func (v Viewport) normalize() Viewport {
	v.SpanLat = math.Min(math.Max(v.SpanLat, minSpanLat), maxSpanLat)
	v.SpanLng = math.Min(math.Max(v.SpanLng, minSpanLng), maxSpanLng)
	v.Center.Lat = math.Min(math.Max(v.Center.Lat, geo.MinLat), geo.MaxLat)
	v.Center.Lng = math.Min(math.Max(v.Center.Lng, geo.MinLng), geo.MaxLng)
	return v
}

// Project maps p to a cell of a w×h grid showing b with an equirectangular projection.
// ok is false when p lies outside b or the grid is empty.
func Project(b geo.Bounds, p geo.LatLng, w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 || !b.Contains(p) {
		return 0, 0, false
	}
	spanLat, spanLng := b.Span()

	if spanLng > 0 {
		x = int(math.Round((p.Lng - b.SouthWest.Lng) / spanLng * float64(w-1)))
	}
	if spanLat > 0 {
		y = int(math.Round((b.NorthEast.Lat - p.Lat) / spanLat * float64(h-1)))
	}
	return x, y, true
}
