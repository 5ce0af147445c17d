// Package geo provides the geographic primitives shared by the marker pipeline.
package geo

import (
	"fmt"
	"math"
)

const (
	// MinLat is the southern-most valid latitude
	MinLat = -90.0
	// MaxLat is the northern-most valid latitude
	MaxLat = 90.0
	// MinLng is the western-most valid longitude
	MinLng = -180.0
	// MaxLng is the eastern-most valid longitude
	MaxLng = 180.0
)

// LatLng is a WGS84 coordinate
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Bounds is the geographic rectangle currently visible in a map engine
type Bounds struct {
	SouthWest LatLng `json:"southWest" yaml:"southWest"`
	NorthEast LatLng `json:"northEast" yaml:"northEast"`
}

// WorldBounds covers every valid coordinate
var WorldBounds = Bounds{
	SouthWest: LatLng{Lat: MinLat, Lng: MinLng},
	NorthEast: LatLng{Lat: MaxLat, Lng: MaxLng},
}

// Contains reports whether p lies inside the bounds. Both axes are closed intervals.
func (b Bounds) Contains(p LatLng) bool {
	return p.Lat >= b.SouthWest.Lat && p.Lat <= b.NorthEast.Lat &&
		p.Lng >= b.SouthWest.Lng && p.Lng <= b.NorthEast.Lng
}

// Center returns the midpoint of the bounds
func (b Bounds) Center() LatLng {
	return LatLng{
		Lat: (b.SouthWest.Lat + b.NorthEast.Lat) / 2,
		Lng: (b.SouthWest.Lng + b.NorthEast.Lng) / 2,
	}
}

// Span returns the latitude and longitude extent of the bounds
func (b Bounds) Span() (lat, lng float64) {
	return b.NorthEast.Lat - b.SouthWest.Lat, b.NorthEast.Lng - b.SouthWest.Lng
}

// AroundCenter builds bounds of the given extent around center, clamped to WorldBounds.
func AroundCenter(center LatLng, spanLat, spanLng float64) Bounds {
	b := Bounds{
		SouthWest: LatLng{Lat: center.Lat - spanLat/2, Lng: center.Lng - spanLng/2},
		NorthEast: LatLng{Lat: center.Lat + spanLat/2, Lng: center.Lng + spanLng/2},
	}
	return b.Clamp()
}

// Clamp limits the bounds to the valid coordinate range
func (b Bounds) Clamp() Bounds {
	return Bounds{
		SouthWest: LatLng{Lat: math.Max(b.SouthWest.Lat, MinLat), Lng: math.Max(b.SouthWest.Lng, MinLng)},
		NorthEast: LatLng{Lat: math.Min(b.NorthEast.Lat, MaxLat), Lng: math.Min(b.NorthEast.Lng, MaxLng)},
	}
}

// Validate checks that the corners are valid coordinates and correctly ordered
func (b Bounds) Validate() error {
	if err := b.SouthWest.Validate(); err != nil {
		return fmt.Errorf("southWest: %w", err)
	}
	if err := b.NorthEast.Validate(); err != nil {
		return fmt.Errorf("northEast: %w", err)
	}
	if b.SouthWest.Lat > b.NorthEast.Lat {
		return fmt.Errorf("southWest.lat %f is north of northEast.lat %f", b.SouthWest.Lat, b.NorthEast.Lat)
	}
	if b.SouthWest.Lng > b.NorthEast.Lng {
		return fmt.Errorf("southWest.lng %f is east of northEast.lng %f", b.SouthWest.Lng, b.NorthEast.Lng)
	}
	return nil
}

// Validate checks that the coordinate is within the valid WGS84 range
func (p LatLng) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < MinLat || p.Lat > MaxLat {
		return fmt.Errorf("latitude %f out of range [%g, %g]", p.Lat, MinLat, MaxLat)
	}
	if math.IsNaN(p.Lng) || p.Lng < MinLng || p.Lng > MaxLng {
		return fmt.Errorf("longitude %f out of range [%g, %g]", p.Lng, MinLng, MaxLng)
	}
	return nil
}
