package importer_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/samirrijal/polylayer/internal/core/domain"
	"github.com/samirrijal/polylayer/internal/importer"
)

const shapesTxt = "\xef\xbb\xbfshape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence,shape_dist_traveled\n" +
	"B,43.30,-2.90,2,\n" +
	"A,43.26,-2.93,3,\n" +
	"A,43.25,-2.92,1,\n" +
	"A,43.27,-2.94,2,\n" +
	"B,43.31,-2.91,1,\n" +
	"C,43.00,-2.00,1,\n" +
	"A,not-a-number,-2.95,4,\n"

func TestReadGTFSShapes(t *testing.T) {
	shapes, err := importer.ReadGTFSShapes(strings.NewReader(shapesTxt))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []importer.Shape{
		{Name: "A", Points: []domain.Coordinate{
			{Lat: 43.25, Lng: -2.92},
			{Lat: 43.27, Lng: -2.94},
			{Lat: 43.26, Lng: -2.93},
		}},
		{Name: "B", Points: []domain.Coordinate{
			{Lat: 43.31, Lng: -2.91},
			{Lat: 43.30, Lng: -2.90},
		}},
	}
	if diff := cmp.Diff(want, shapes); diff != "" {
		t.Errorf("shapes mismatch (-want +got):\n%s", diff)
	}
}

func TestReadGTFSShapes_MissingColumn(t *testing.T) {
	_, err := importer.ReadGTFSShapes(strings.NewReader("shape_id,shape_pt_lat\nA,1\n"))
	if err == nil || !strings.Contains(err.Error(), "shape_pt_lon") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestReadGTFSShapes_OnlyShortShapes(t *testing.T) {
	_, err := importer.ReadGTFSShapes(strings.NewReader("shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\nA,1,1,1\n"))
	if !errors.Is(err, importer.ErrNoShapes) {
		t.Fatalf("expected ErrNoShapes, got %v", err)
	}
}

func gtfsZip(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadGTFSZip(t *testing.T) {
	data := gtfsZip(t, "feed/shapes.txt", shapesTxt)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}

	shapes, err := importer.ReadGTFSZip(zr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shapes) != 2 {
		t.Errorf("expected 2 shapes, got %d", len(shapes))
	}
}

func TestReadGTFSZip_NoShapesFile(t *testing.T) {
	data := gtfsZip(t, "stops.txt", "stop_id\n1\n")
	zr, _ := zip.NewReader(bytes.NewReader(data), int64(len(data)))

	if _, err := importer.ReadGTFSZip(zr); err == nil {
		t.Fatal("expected error for archive without shapes.txt")
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	files := map[string][]byte{
		"feed.zip":       gtfsZip(t, "shapes.txt", shapesTxt),
		"shapes.txt":     []byte(shapesTxt),
		"line.geojson":   []byte(lineFeature),
		"LINE.GeoJSON":   []byte(lineFeature),
		"gtfs.v2/shapes": []byte(shapesTxt),
	}
	wantCount := map[string]int{"feed.zip": 2, "shapes.txt": 2, "line.geojson": 1, "LINE.GeoJSON": 1, "gtfs.v2/shapes": 2}

	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
		shapes, err := importer.ReadFile(path)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if len(shapes) != wantCount[name] {
			t.Errorf("%s: expected %d shapes, got %d", name, wantCount[name], len(shapes))
		}
	}
}
