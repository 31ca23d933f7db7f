package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseLocations decodes a JSON array of locations. Each element is either a
// [lat, lng] pair or a {"lat": .., "lng": ..} object; both forms may be mixed.
// Range checks are left to ValidatePoints.
func ParseLocations(raw []byte) ([]Coordinate, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	out := make([]Coordinate, 0, len(items))
	for i, item := range items {
		c, err := parseLocation(item)
		if err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", ErrInvalidLocation, i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseLocation(item json.RawMessage) (Coordinate, error) {
	item = bytes.TrimSpace(item)
	if len(item) == 0 {
		return Coordinate{}, fmt.Errorf("empty element")
	}

	switch item[0] {
	case '[':
		var pair []float64
		if err := json.Unmarshal(item, &pair); err != nil {
			return Coordinate{}, err
		}
		if len(pair) != 2 {
			return Coordinate{}, fmt.Errorf("expected (lat, lng) pair, got %d values", len(pair))
		}
		return Coordinate{Lat: pair[0], Lng: pair[1]}, nil
	case '{':
		var obj struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return Coordinate{}, err
		}
		if obj.Lat == nil || obj.Lng == nil {
			return Coordinate{}, fmt.Errorf("object needs both lat and lng")
		}
		return Coordinate{Lat: *obj.Lat, Lng: *obj.Lng}, nil
	}
	return Coordinate{}, fmt.Errorf("unsupported location %s", item)
}
