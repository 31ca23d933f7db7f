package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/polylayer/internal/pkg/geospatial"
)

// Polyline is a map overlay drawing an ordered path between points.
//
// Data and Bounds only change together through SetData, so Bounds always
// describes the committed Data.
type Polyline struct {
	ID     string       `json:"id"`
	Data   []Coordinate `json:"data"`
	Bounds BoundingBox  `json:"data_bounds"`
	Style
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPolyline builds a validated layer from raw (lat, lng) pairs.
func NewPolyline(points []LatLng, opts ...StyleOption) (*Polyline, error) {
	style := DefaultStyle()
	for _, opt := range opts {
		opt(&style)
	}
	if err := style.Validate(); err != nil {
		return nil, err
	}

	p := &Polyline{ID: uuid.NewString(), Style: style}
	if err := p.SetData(Coordinates(points)); err != nil {
		return nil, err
	}
	p.CreatedAt = p.UpdatedAt
	return p, nil
}

// SetData validates points, commits a copy of them and recomputes the bounds.
// On error the polyline is left exactly as it was.
func (p *Polyline) SetData(points []Coordinate) error {
	if err := ValidatePoints(points); err != nil {
		return err
	}
	bounds, err := ComputeBounds(points)
	if err != nil {
		return err
	}

	data := make([]Coordinate, len(points))
	copy(data, points)

	p.Data = data
	p.Bounds = bounds
	p.touch()
	return nil
}

// SetStyle replaces the display attributes after range-checking them.
func (p *Polyline) SetStyle(style Style) error {
	if err := style.Validate(); err != nil {
		return err
	}
	p.Style = style
	p.touch()
	return nil
}

func (p *Polyline) touch() {
	p.Version++
	p.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy.
func (p *Polyline) Clone() *Polyline {
	c := *p
	c.Data = append([]Coordinate(nil), p.Data...)
	return &c
}

// LengthMeters is the great-circle length of the path.
func (p *Polyline) LengthMeters() float64 {
	pts := make([][2]float64, len(p.Data))
	for i, c := range p.Data {
		pts[i] = [2]float64{c.Lat, c.Lng}
	}
	return geospatial.PathLength(pts)
}
