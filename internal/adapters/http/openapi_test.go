package http_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

// findOpenAPIDocument locates the openapi.yaml file by walking up from the test directory.
func findOpenAPIDocument(t *testing.T) string {
	dir, _ := os.Getwd()

	// Look for api/openapi.yaml by going up directories
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

// TestOpenAPIDocument validates the OpenAPI document is valid.
func TestOpenAPIDocument(t *testing.T) {
	// Load the document
	docPath := findOpenAPIDocument(t)
	data, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	// Parse YAML
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI doc: %v", err)
	}

	// Validate
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI doc validation failed: %v", err)
	}

	// Check that key paths exist
	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/polylines",
		"/v1/polylines/{id}",
		"/v1/polylines/{id}/data",
		"/v1/polylines/{id}/style",
		"/v1/polylines/{id}/bounds",
		"/v1/polylines/{id}/state",
		"/v1/polylines/{id}/geojson",
		"/graphql",
	}

	for _, path := range expectedPaths {
		if item := doc.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in document", path)
		}
	}

	// Verify key schemas exist
	expectedSchemas := []string{
		"Coordinate",
		"BoundingBox",
		"Style",
		"Polyline",
		"WidgetState",
		"APIError",
		"Pagination",
	}

	for _, schema := range expectedSchemas {
		if doc.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	t.Logf("OpenAPI doc valid: %d paths, %d schemas", len(doc.Paths.Map()), len(doc.Components.Schemas))
}

// TestOpenAPIInfo verifies document metadata.
func TestOpenAPIInfo(t *testing.T) {
	docPath := findOpenAPIDocument(t)
	data, err := os.ReadFile(docPath)
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}

	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI doc: %v", err)
	}

	if doc.Info.Title != "Polylayer API" {
		t.Errorf("expected title 'Polylayer API', got %q", doc.Info.Title)
	}

	if doc.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", doc.Info.Version)
	}

	if doc.Info.Description == "" {
		t.Error("expected non-empty description")
	}

	if len(doc.Servers) == 0 {
		t.Error("expected at least one server")
	}

	t.Logf("OpenAPI Info: %s v%s @ %s", doc.Info.Title, doc.Info.Version, doc.Servers[0].URL)
}

// TestOpenAPIRoutesServed checks every documented REST path is routed.
func TestOpenAPIRoutesServed(t *testing.T) {
	data, err := os.ReadFile(findOpenAPIDocument(t))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := (&openapi3.Loader{}).LoadFromData(data)
	if err != nil {
		t.Fatal(err)
	}

	app := setupApp(makeDeps(newMockRepo()))
	routed := map[string]bool{}
	for _, r := range app.GetRoutes(true) {
		routed[r.Method+" "+r.Path] = true
	}

	for path, item := range doc.Paths.Map() {
		fiberPath := strings.ReplaceAll(path, "{id}", ":id")
		for method := range item.Operations() {
			if !routed[method+" "+fiberPath] {
				t.Errorf("%s %s documented but not routed", method, path)
			}
		}
	}
}
