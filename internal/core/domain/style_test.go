package domain_test

import (
	"errors"
	"testing"

	"github.com/samirrijal/polylayer/internal/core/domain"
)

func TestStyle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Style)
		wantErr error
	}{
		{"defaults", func(s *domain.Style) {}, nil},
		{"opacity zero", func(s *domain.Style) { s.StrokeOpacity = 0 }, nil},
		{"opacity above one", func(s *domain.Style) { s.StrokeOpacity = 1.01 }, domain.ErrOutOfRange},
		{"opacity negative", func(s *domain.Style) { s.StrokeOpacity = -0.1 }, domain.ErrOutOfRange},
		{"weight one", func(s *domain.Style) { s.StrokeWeight = 1 }, nil},
		{"weight five", func(s *domain.Style) { s.StrokeWeight = 5 }, nil},
		{"weight below one", func(s *domain.Style) { s.StrokeWeight = 0.5 }, domain.ErrOutOfRange},
		{"weight above five", func(s *domain.Style) { s.StrokeWeight = 6 }, domain.ErrOutOfRange},
		{"bad color", func(s *domain.Style) { s.StrokeColor = "not-a-color" }, domain.ErrInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := domain.DefaultStyle()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStyle_RangeErrorNamesField(t *testing.T) {
	s := domain.DefaultStyle()
	s.StrokeWeight = 9

	var re *domain.RangeError
	if !errors.As(s.Validate(), &re) {
		t.Fatal("expected *RangeError")
	}
	if re.Field != "stroke_weight" || re.Min != 1 || re.Max != 5 {
		t.Errorf("unexpected range error %+v", re)
	}
}

func TestValidateColor(t *testing.T) {
	valid := []string{"#FF0000", "#f00", "#ABC", "#00ff7F", "#0a0B0c", "red", "DarkSlateGray", "rgb(0, 128, 255)", "rgba(10,20,30,0.5)", "rgba(10,20,30,1)"}
	for _, c := range valid {
		if err := domain.ValidateColor(c); err != nil {
			t.Errorf("%q should be valid: %v", c, err)
		}
	}

	invalid := []string{"", "#", "#FF00", "#GG0000", "#12345z", "#12345", "#1234567", "#+1ffff", "#-10000", "#1 2345", "#ff", "#fg0", "rgb(256,0,0)", "rgb(1,2,3,0.5)", "rgba(1,2,3)", "rgba(1,2,3,1.5)", "blurple"}
	for _, c := range invalid {
		if err := domain.ValidateColor(c); !errors.Is(err, domain.ErrInvalidColor) {
			t.Errorf("%q should be rejected, got %v", c, err)
		}
	}
}

func TestStylePatch_Apply(t *testing.T) {
	geodesic := false
	weight := 4.0
	patch := domain.StylePatch{Geodesic: &geodesic, StrokeWeight: &weight}

	got := patch.Apply(domain.DefaultStyle())
	if got.Geodesic || got.StrokeWeight != 4 {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.StrokeColor != domain.DefaultStrokeColor || got.StrokeOpacity != domain.DefaultStrokeOpacity {
		t.Errorf("unset fields changed: %+v", got)
	}
}
