package domain

import "math"

// Style defaults.
const (
	DefaultGeodesic      = true
	DefaultStrokeColor   = "#FF0000"
	DefaultStrokeOpacity = 1.0
	DefaultStrokeWeight  = 2.0

	MinStrokeOpacity = 0.0
	MaxStrokeOpacity = 1.0
	MinStrokeWeight  = 1.0
	MaxStrokeWeight  = 5.0
)

// Style holds the display attributes of a polyline layer.
type Style struct {
	Geodesic      bool    `json:"geodesic"`
	StrokeColor   string  `json:"stroke_color"`
	StrokeOpacity float64 `json:"stroke_opacity"`
	StrokeWeight  float64 `json:"stroke_weight"`
}

// DefaultStyle returns a red, opaque, geodesic stroke of weight 2.
func DefaultStyle() Style {
	return Style{
		Geodesic:      DefaultGeodesic,
		StrokeColor:   DefaultStrokeColor,
		StrokeOpacity: DefaultStrokeOpacity,
		StrokeWeight:  DefaultStrokeWeight,
	}
}

// Validate applies the range guards of every attribute.
func (s Style) Validate() error {
	if err := checkRange("stroke_opacity", s.StrokeOpacity, MinStrokeOpacity, MaxStrokeOpacity); err != nil {
		return err
	}
	if err := checkRange("stroke_weight", s.StrokeWeight, MinStrokeWeight, MaxStrokeWeight); err != nil {
		return err
	}
	return ValidateColor(s.StrokeColor)
}

func checkRange(field string, v, lo, hi float64) error {
	if math.IsNaN(v) || v < lo || v > hi {
		return &RangeError{Field: field, Value: v, Min: lo, Max: hi}
	}
	return nil
}

// StyleOption overrides one attribute of the default style.
type StyleOption func(*Style)

func WithGeodesic(geodesic bool) StyleOption {
	return func(s *Style) { s.Geodesic = geodesic }
}

func WithStrokeColor(color string) StyleOption {
	return func(s *Style) { s.StrokeColor = color }
}

func WithStrokeOpacity(opacity float64) StyleOption {
	return func(s *Style) { s.StrokeOpacity = opacity }
}

func WithStrokeWeight(weight float64) StyleOption {
	return func(s *Style) { s.StrokeWeight = weight }
}

// StylePatch is a partial style update; nil fields keep their current value.
type StylePatch struct {
	Geodesic      *bool    `json:"geodesic,omitempty"`
	StrokeColor   *string  `json:"stroke_color,omitempty"`
	StrokeOpacity *float64 `json:"stroke_opacity,omitempty"`
	StrokeWeight  *float64 `json:"stroke_weight,omitempty"`
}

// Options converts the set fields of the patch into style options.
func (p StylePatch) Options() []StyleOption {
	var opts []StyleOption
	if p.Geodesic != nil {
		opts = append(opts, WithGeodesic(*p.Geodesic))
	}
	if p.StrokeColor != nil {
		opts = append(opts, WithStrokeColor(*p.StrokeColor))
	}
	if p.StrokeOpacity != nil {
		opts = append(opts, WithStrokeOpacity(*p.StrokeOpacity))
	}
	if p.StrokeWeight != nil {
		opts = append(opts, WithStrokeWeight(*p.StrokeWeight))
	}
	return opts
}

// Apply returns s with the patch applied. The result is not validated.
func (p StylePatch) Apply(s Style) Style {
	for _, opt := range p.Options() {
		opt(&s)
	}
	return s
}
