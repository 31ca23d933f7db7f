package domain

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature exports the layer as a GeoJSON LineString. GeoJSON positions are
// (lng, lat), the reverse of Coordinate.
func (p *Polyline) Feature() *geojson.Feature {
	line := make(orb.LineString, len(p.Data))
	for i, c := range p.Data {
		line[i] = orb.Point{c.Lng, c.Lat}
	}

	f := geojson.NewFeature(line)
	f.ID = p.ID
	f.BBox = geojson.BBox{p.Bounds.Min.Lng, p.Bounds.Min.Lat, p.Bounds.Max.Lng, p.Bounds.Max.Lat}
	f.Properties["geodesic"] = p.Geodesic
	f.Properties["stroke_color"] = p.StrokeColor
	f.Properties["stroke_opacity"] = p.StrokeOpacity
	f.Properties["stroke_weight"] = p.StrokeWeight
	f.Properties["version"] = p.Version
	f.Properties["length_m"] = p.LengthMeters()
	return f
}
