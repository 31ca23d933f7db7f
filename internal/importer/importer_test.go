package importer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/samirrijal/polylayer/internal/core/domain"
	"github.com/samirrijal/polylayer/internal/core/usecases"
	"github.com/samirrijal/polylayer/internal/importer"
)

type mockCreator struct {
	mu       sync.Mutex
	createFn func(params usecases.CreateParams) (*domain.Polyline, error)
	calls    int
}

func (m *mockCreator) Create(ctx context.Context, params usecases.CreateParams) (*domain.Polyline, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.createFn(params)
}

// validatingCreator builds the layer the way the service does, without storage.
func validatingCreator(params usecases.CreateParams) (*domain.Polyline, error) {
	pairs := make([]domain.LatLng, len(params.Points))
	for i, c := range params.Points {
		pairs[i] = domain.LatLng{c.Lat, c.Lng}
	}
	return domain.NewPolyline(pairs, params.Style.Options()...)
}

func TestImporter_Run(t *testing.T) {
	storageDown := errors.New("storage down")
	creator := &mockCreator{createFn: func(params usecases.CreateParams) (*domain.Polyline, error) {
		if params.Points[0].Lat == 1 {
			return nil, storageDown
		}
		return validatingCreator(params)
	}}

	shapes := []importer.Shape{
		{Name: "ok", Points: []domain.Coordinate{{Lat: 43.2, Lng: -2.9}, {Lat: 43.3, Lng: -2.8}}},
		{Name: "bad-lat", Points: []domain.Coordinate{{Lat: 95, Lng: 0}, {Lat: 0, Lng: 0}}},
		{Name: "short", Points: []domain.Coordinate{{Lat: 10, Lng: 10}}},
		{Name: "db", Points: []domain.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}},
	}

	res := importer.New(creator, 2).Run(context.Background(), shapes)

	if res.Created != 1 || res.Rejected != 2 || res.Failed != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	if _, ok := res.IDs["ok"]; !ok {
		t.Error("expected ID for created shape")
	}
	if creator.calls != len(shapes) {
		t.Errorf("expected %d create calls, got %d", len(shapes), creator.calls)
	}
}

func TestImporter_CancelledContext(t *testing.T) {
	creator := &mockCreator{createFn: validatingCreator}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := importer.New(creator, 0).Run(ctx, []importer.Shape{
		{Name: "a", Points: []domain.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}},
	})
	if res.Created != 0 || creator.calls != 0 {
		t.Errorf("expected nothing imported after cancel, got %+v", res)
	}
}
