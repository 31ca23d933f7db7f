package domain

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/samirrijal/polylayer/internal/pkg/geospatial"
)

// Coordinate represents a geographic coordinate (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// LatLng is a raw (latitude, longitude) pair as supplied by callers.
type LatLng [2]float64

// Valid reports whether both latitude and longitude are within range.
func (c Coordinate) Valid() bool {
	return IsValidPoint(c.Lat, c.Lng)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%g, %g)", c.Lat, c.Lng)
}

// IsValidPoint reports whether lat is in [-90, 90] and lng in [-180, 180].
// Bounds are inclusive; NaN is rejected by the comparisons.
func IsValidPoint(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Coordinates normalizes raw pairs into Coordinates.
func Coordinates(points []LatLng) []Coordinate {
	out := make([]Coordinate, len(points))
	for i, p := range points {
		out[i] = Coordinate{Lat: p[0], Lng: p[1]}
	}
	return out
}

// MinPoints is the shortest sequence that describes a path.
const MinPoints = 2

// ValidatePoints checks the length and every coordinate of a point sequence.
func ValidatePoints(points []Coordinate) error {
	if len(points) < MinPoints {
		return fmt.Errorf("%w: got %d, need at least %d", ErrTooFewPoints, len(points), MinPoints)
	}
	for i, p := range points {
		if !p.Valid() {
			return &InvalidCoordinateError{Index: i, Point: p}
		}
	}
	return nil
}

// BoundingBox is the minimal axis-aligned rectangle around a point sequence.
// Min and Max are computed per axis, so neither needs to be an actual point.
type BoundingBox struct {
	Min Coordinate
	Max Coordinate
}

// ComputeBounds derives the bounding box of points from scratch.
func ComputeBounds(points []Coordinate) (BoundingBox, error) {
	if len(points) == 0 {
		return BoundingBox{}, ErrEmptySequence
	}
	b := BoundingBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.Lat = math.Min(b.Min.Lat, p.Lat)
		b.Min.Lng = math.Min(b.Min.Lng, p.Lng)
		b.Max.Lat = math.Max(b.Max.Lat, p.Lat)
		b.Max.Lng = math.Max(b.Max.Lng, p.Lng)
	}
	return b, nil
}

// Pad grows the box by meters on every side, clamped to valid ranges.
func (b BoundingBox) Pad(meters float64) BoundingBox {
	if meters <= 0 {
		return b
	}
	minLat, minLng, maxLat, maxLng := geospatial.Expand(b.Min.Lat, b.Min.Lng, b.Max.Lat, b.Max.Lng, meters)
	return BoundingBox{
		Min: Coordinate{Lat: math.Max(minLat, -90), Lng: math.Max(minLng, -180)},
		Max: Coordinate{Lat: math.Min(maxLat, 90), Lng: math.Min(maxLng, 180)},
	}
}

// MarshalJSON encodes the box as [[minLat, minLng], [maxLat, maxLng]].
func (b BoundingBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([2][2]float64{
		{b.Min.Lat, b.Min.Lng},
		{b.Max.Lat, b.Max.Lng},
	})
}

// UnmarshalJSON decodes the two-pair form written by MarshalJSON.
func (b *BoundingBox) UnmarshalJSON(data []byte) error {
	var pairs [][]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return err
	}
	if len(pairs) != 2 || len(pairs[0]) != 2 || len(pairs[1]) != 2 {
		return fmt.Errorf("bounds: expected two (lat, lng) pairs, got %v", pairs)
	}
	b.Min = Coordinate{Lat: pairs[0][0], Lng: pairs[0][1]}
	b.Max = Coordinate{Lat: pairs[1][0], Lng: pairs[1][1]}
	return nil
}
