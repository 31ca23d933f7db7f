package domain_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/polylayer/internal/core/domain"
)

func TestParseLocations(t *testing.T) {
	got, err := domain.ParseLocations([]byte(`[[48.85, 2.35], {"lat": 50.85, "lng": 4.35}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.Coordinate{{Lat: 48.85, Lng: 2.35}, {Lat: 50.85, Lng: 4.35}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLocations_LeavesRangeChecksToValidation(t *testing.T) {
	got, err := domain.ParseLocations([]byte(`[[120, 0], [0, 0]]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := domain.ValidatePoints(got); !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestParseLocations_Malformed(t *testing.T) {
	inputs := []string{
		`{"lat": 1, "lng": 2}`,
		`[[1, 2, 3]]`,
		`[{"lat": 1}]`,
		`["1,2"]`,
		`not json`,
	}
	for _, in := range inputs {
		if _, err := domain.ParseLocations([]byte(in)); !errors.Is(err, domain.ErrInvalidLocation) {
			t.Errorf("%s: expected ErrInvalidLocation, got %v", in, err)
		}
	}
}
