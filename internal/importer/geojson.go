package importer

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/polylayer/internal/core/domain"
)

// ReadGeoJSON extracts lines from a FeatureCollection or a single Feature.
// LineStrings become one shape each, MultiLineStrings one per member line;
// other geometries are ignored. Style comes from the feature properties,
// either in the layer's own names (stroke_color, stroke_weight, ...) or in
// simplestyle form (stroke, stroke-width, stroke-opacity).
func ReadGeoJSON(data []byte) ([]Shape, error) {
	features, err := decodeFeatures(data)
	if err != nil {
		return nil, err
	}

	var shapes []Shape
	for i, f := range features {
		name := featureName(f, i)
		style := styleFromProperties(f.Properties)

		switch g := f.Geometry.(type) {
		case orb.LineString:
			shapes = append(shapes, Shape{Name: name, Points: lineCoordinates(g), Style: style})
		case orb.MultiLineString:
			for j, ls := range g {
				shapes = append(shapes, Shape{
					Name:   fmt.Sprintf("%s#%d", name, j),
					Points: lineCoordinates(ls),
					Style:  style,
				})
			}
		}
	}

	if len(shapes) == 0 {
		return nil, ErrNoShapes
	}
	return shapes, nil
}

func decodeFeatures(data []byte) ([]*geojson.Feature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err == nil && fc.Type == "FeatureCollection" {
		return fc.Features, nil
	}

	f, ferr := geojson.UnmarshalFeature(data)
	if ferr != nil {
		if err != nil {
			return nil, fmt.Errorf("decode geojson: %w", err)
		}
		return nil, fmt.Errorf("decode geojson: %w", ferr)
	}
	return []*geojson.Feature{f}, nil
}

// lineCoordinates converts GeoJSON [lng, lat] order to coordinates.
func lineCoordinates(ls orb.LineString) []domain.Coordinate {
	out := make([]domain.Coordinate, len(ls))
	for i, p := range ls {
		out[i] = domain.Coordinate{Lat: p.Lat(), Lng: p.Lon()}
	}
	return out
}

func featureName(f *geojson.Feature, i int) string {
	if name := f.Properties.MustString("name", ""); name != "" {
		return name
	}
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	return fmt.Sprintf("feature-%d", i)
}

func styleFromProperties(props geojson.Properties) domain.StylePatch {
	var patch domain.StylePatch
	if v, ok := props["geodesic"].(bool); ok {
		patch.Geodesic = &v
	}
	if v, ok := firstString(props, "stroke_color", "stroke"); ok {
		patch.StrokeColor = &v
	}
	if v, ok := firstNumber(props, "stroke_opacity", "stroke-opacity"); ok {
		patch.StrokeOpacity = &v
	}
	if v, ok := firstNumber(props, "stroke_weight", "stroke-width"); ok {
		patch.StrokeWeight = &v
	}
	return patch
}

func firstString(props geojson.Properties, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := props[k].(string); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func firstNumber(props geojson.Properties, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := props[k].(float64); ok {
			return v, true
		}
	}
	return 0, false
}
