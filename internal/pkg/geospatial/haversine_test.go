package geospatial

import (
	"math"
	"testing"
)

func TestHaversine_OneDegreeOfLongitudeAtEquator(t *testing.T) {
	d := Haversine(0, 0, 0, 1)
	if math.Abs(d-111195) > 50 {
		t.Errorf("expected ~111195m, got %f", d)
	}
}

func TestPathLength(t *testing.T) {
	pts := [][2]float64{{0, 0}, {0, 1}, {0, 2}}
	want := 2 * Haversine(0, 0, 0, 1)
	if got := PathLength(pts); math.Abs(got-want) > 1e-6 {
		t.Errorf("expected %f, got %f", want, got)
	}
	if got := PathLength(pts[:1]); got != 0 {
		t.Errorf("single point should have zero length, got %f", got)
	}
}

func TestExpand_Pole(t *testing.T) {
	_, minLon, _, maxLon := Expand(89.9, 10, 90, 20, 1000)
	if minLon != -180 || maxLon != 180 {
		t.Errorf("expected full longitude span at the pole, got %f..%f", minLon, maxLon)
	}
}
