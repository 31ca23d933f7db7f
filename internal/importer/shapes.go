// Package importer turns GTFS shapes and GeoJSON line features into polyline
// layers. Every layer is created through the polyline service, so imported
// data passes the same validation as API writes.
package importer

import (
	"archive/zip"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/samirrijal/polylayer/internal/core/domain"
)

// Shape is a named point sequence read from a source file.
type Shape struct {
	Name   string
	Points []domain.Coordinate
	Style  domain.StylePatch
}

// ErrNoShapes is returned when a source holds no usable line.
var ErrNoShapes = errors.New("no shapes found")

const shapesFile = "shapes.txt"

// ReadGTFSShapes parses a GTFS shapes.txt stream. Points are ordered by
// shape_pt_sequence; shapes with fewer than two points are skipped, and so
// are rows whose numbers do not parse. Range checks are left to the service.
func ReadGTFSShapes(r io.Reader) ([]Shape, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	for _, required := range []string{"shape_id", "shape_pt_lat", "shape_pt_lon", "shape_pt_sequence"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", shapesFile, required)
		}
	}

	type shapePoint struct {
		coord domain.Coordinate
		seq   int
	}
	points := make(map[string][]shapePoint)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		shapeID := getField(record, cols, "shape_id")
		lat, errLat := strconv.ParseFloat(getField(record, cols, "shape_pt_lat"), 64)
		lon, errLon := strconv.ParseFloat(getField(record, cols, "shape_pt_lon"), 64)
		seq, errSeq := strconv.Atoi(getField(record, cols, "shape_pt_sequence"))
		if shapeID == "" || errLat != nil || errLon != nil || errSeq != nil {
			continue
		}

		points[shapeID] = append(points[shapeID], shapePoint{domain.Coordinate{Lat: lat, Lng: lon}, seq})
	}

	ids := make([]string, 0, len(points))
	for id := range points {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	shapes := make([]Shape, 0, len(ids))
	for _, id := range ids {
		pts := points[id]
		if len(pts) < domain.MinPoints {
			continue
		}
		sort.SliceStable(pts, func(i, j int) bool { return pts[i].seq < pts[j].seq })

		coords := make([]domain.Coordinate, len(pts))
		for i, p := range pts {
			coords[i] = p.coord
		}
		shapes = append(shapes, Shape{Name: id, Points: coords})
	}

	if len(shapes) == 0 {
		return nil, ErrNoShapes
	}
	return shapes, nil
}

// ReadGTFSZip reads shapes.txt from an opened GTFS archive.
func ReadGTFSZip(zr *zip.Reader) ([]Shape, error) {
	f, err := openCSV(zr, shapesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGTFSShapes(f)
}

// ReadFile reads shapes from a path: a GTFS zip, a bare shapes.txt or a
// GeoJSON document (.geojson / .json).
func ReadFile(path string) ([]Shape, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("open zip: %w", err)
		}
		defer zr.Close()
		return ReadGTFSZip(&zr.Reader)
	case ".geojson", ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ReadGeoJSON(data)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadGTFSShapes(f)
	}
}

func openCSV(zr *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if strings.EqualFold(f.Name, name) || strings.HasSuffix(strings.ToLower(f.Name), "/"+name) {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("file %s not found in zip", name)
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		// Strip BOM from first column
		col = strings.TrimPrefix(col, "\xef\xbb\xbf")
		m[strings.TrimSpace(col)] = i
	}
	return m
}

func getField(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
