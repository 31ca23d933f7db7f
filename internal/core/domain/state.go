package domain

// Identifiers of the front-end model and view that render a polyline layer.
const (
	ModelName   = "PolylineLayerModel"
	ViewName    = "PolylineLayerView"
	ModelModule = "jupyter-gmaps"
	ViewModule  = "jupyter-gmaps"
)

// WidgetState is the attribute set mirrored to a paired view. A view reads
// these fields and re-renders whenever a newer Version arrives.
type WidgetState struct {
	ModelName   string `json:"_model_name"`
	ModelModule string `json:"_model_module"`
	ViewName    string `json:"_view_name"`
	ViewModule  string `json:"_view_module"`

	ID      string `json:"id"`
	Version int64  `json:"version"`

	Geodesic      bool         `json:"geodesic"`
	StrokeColor   string       `json:"stroke_color"`
	StrokeOpacity float64      `json:"stroke_opacity"`
	StrokeWeight  float64      `json:"stroke_weight"`
	Data          []Coordinate `json:"data"`
	DataBounds    BoundingBox  `json:"data_bounds"`
}

// State snapshots the synchronized attributes of p.
func (p *Polyline) State() WidgetState {
	return WidgetState{
		ModelName:     ModelName,
		ModelModule:   ModelModule,
		ViewName:      ViewName,
		ViewModule:    ViewModule,
		ID:            p.ID,
		Version:       p.Version,
		Geodesic:      p.Geodesic,
		StrokeColor:   p.StrokeColor,
		StrokeOpacity: p.StrokeOpacity,
		StrokeWeight:  p.StrokeWeight,
		Data:          append([]Coordinate(nil), p.Data...),
		DataBounds:    p.Bounds,
	}
}
