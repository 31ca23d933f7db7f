package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/polylayer/internal/core/domain"
	"github.com/samirrijal/polylayer/internal/core/ports"
	"github.com/samirrijal/polylayer/internal/pkg/metrics"
)

const (
	cacheTTLSeconds = 600
	defaultLimit    = 50
	maxLimit        = 200
)

// CreateParams describes a new layer. Unset style fields take the defaults.
type CreateParams struct {
	Points []domain.Coordinate
	Style  domain.StylePatch
}

// PolylineService validates, commits and synchronizes polyline layers.
type PolylineService struct {
	polylines ports.PolylineRepository
	cache     ports.CacheService
	publisher ports.StatePublisher
	tracer    trace.Tracer
}

// NewPolylineService creates a new PolylineService. cache and publisher may be nil.
func NewPolylineService(polylines ports.PolylineRepository, cache ports.CacheService, publisher ports.StatePublisher) *PolylineService {
	return &PolylineService{
		polylines: polylines,
		cache:     cache,
		publisher: publisher,
		tracer:    otel.Tracer("github.com/samirrijal/polylayer/usecases"),
	}
}

// Create validates and stores a new layer.
func (s *PolylineService) Create(ctx context.Context, params CreateParams) (*domain.Polyline, error) {
	ctx, span := s.tracer.Start(ctx, "PolylineService.Create")
	defer span.End()

	pairs := make([]domain.LatLng, len(params.Points))
	for i, c := range params.Points {
		pairs[i] = domain.LatLng{c.Lat, c.Lng}
	}

	p, err := domain.NewPolyline(pairs, params.Style.Options()...)
	if err != nil {
		return nil, s.rejected(ctx, span, "create", err)
	}
	span.SetAttributes(attribute.String("polyline.id", p.ID))

	if err := s.polylines.Create(ctx, p); err != nil {
		return nil, s.failed(span, fmt.Errorf("create polyline: %w", err))
	}

	s.committed(ctx, "create", p)
	return p, nil
}

// Get returns a layer by ID.
func (s *PolylineService) Get(ctx context.Context, id string) (*domain.Polyline, error) {
	ctx, span := s.tracer.Start(ctx, "PolylineService.Get", trace.WithAttributes(attribute.String("polyline.id", id)))
	defer span.End()

	if err := checkID(id); err != nil {
		return nil, s.failed(span, err)
	}

	cacheKey := cacheKey(id)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var p domain.Polyline
			if err := json.Unmarshal(data, &p); err == nil {
				metrics.CacheHits.WithLabelValues("polyline").Inc()
				return &p, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("polyline").Inc()
	}

	p, err := s.polylines.GetByID(ctx, id)
	if err != nil {
		return nil, s.failed(span, err)
	}

	s.cachePut(ctx, p)
	return p, nil
}

// List returns a page of layers and the total number stored.
func (s *PolylineService) List(ctx context.Context, offset, limit int) ([]domain.Polyline, int, error) {
	ctx, span := s.tracer.Start(ctx, "PolylineService.List")
	defer span.End()

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	total, err := s.polylines.Count(ctx)
	if err != nil {
		return nil, 0, s.failed(span, fmt.Errorf("count polylines: %w", err))
	}
	items, err := s.polylines.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, s.failed(span, fmt.Errorf("list polylines: %w", err))
	}
	return items, total, nil
}

// SetData replaces the point sequence of a layer. Invalid input leaves the
// stored layer untouched.
func (s *PolylineService) SetData(ctx context.Context, id string, points []domain.Coordinate) (*domain.Polyline, error) {
	ctx, span := s.tracer.Start(ctx, "PolylineService.SetData", trace.WithAttributes(
		attribute.String("polyline.id", id),
		attribute.Int("polyline.points", len(points)),
	))
	defer span.End()

	return s.mutate(ctx, span, id, "set_data", func(p *domain.Polyline) error {
		return p.SetData(points)
	})
}

// UpdateStyle applies a partial style change to a layer.
func (s *PolylineService) UpdateStyle(ctx context.Context, id string, patch domain.StylePatch) (*domain.Polyline, error) {
	ctx, span := s.tracer.Start(ctx, "PolylineService.UpdateStyle", trace.WithAttributes(attribute.String("polyline.id", id)))
	defer span.End()

	return s.mutate(ctx, span, id, "set_style", func(p *domain.Polyline) error {
		return p.SetStyle(patch.Apply(p.Style))
	})
}

// Delete removes a layer and tells views it is gone.
func (s *PolylineService) Delete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "PolylineService.Delete", trace.WithAttributes(attribute.String("polyline.id", id)))
	defer span.End()

	if err := checkID(id); err != nil {
		return s.failed(span, err)
	}
	if err := s.polylines.Delete(ctx, id); err != nil {
		return s.failed(span, err)
	}

	s.cacheDrop(ctx, id)
	if s.publisher != nil {
		if err := s.publisher.PublishRemoved(ctx, id); err != nil {
			slog.WarnContext(ctx, "publish removal failed", "id", id, "error", err)
		}
	}
	slog.InfoContext(ctx, "polyline deleted", "id", id)
	return nil
}

// mutate loads the stored layer, applies change and commits it with an
// optimistic version check.
func (s *PolylineService) mutate(ctx context.Context, span trace.Span, id, op string, change func(*domain.Polyline) error) (*domain.Polyline, error) {
	if err := checkID(id); err != nil {
		return nil, s.failed(span, err)
	}
	p, err := s.polylines.GetByID(ctx, id)
	if err != nil {
		return nil, s.failed(span, err)
	}

	prev := p.Version
	if err := change(p); err != nil {
		return nil, s.rejected(ctx, span, op, err)
	}

	if err := s.polylines.Update(ctx, p, prev); err != nil {
		if !errors.Is(err, domain.ErrConflict) && !errors.Is(err, domain.ErrNotFound) {
			err = fmt.Errorf("update polyline: %w", err)
		}
		return nil, s.failed(span, err)
	}

	s.committed(ctx, op, p)
	return p, nil
}

// committed runs the post-commit steps. Their failures are logged only: the
// write has already succeeded. The cache entry is dropped rather than
// rewritten so a slow write for an older version cannot outlive a newer one;
// the next Get repopulates it from the store.
func (s *PolylineService) committed(ctx context.Context, op string, p *domain.Polyline) {
	metrics.LayerCommits.WithLabelValues(op).Inc()
	s.cacheDrop(ctx, p.ID)

	if s.publisher != nil {
		if err := s.publisher.PublishState(ctx, p.State()); err != nil {
			slog.WarnContext(ctx, "publish state failed", "id", p.ID, "version", p.Version, "error", err)
		}
	}

	slog.InfoContext(ctx, "polyline committed",
		"operation", op,
		"id", p.ID,
		"version", p.Version,
		"points", len(p.Data),
	)
}

func (s *PolylineService) rejected(ctx context.Context, span trace.Span, op string, err error) error {
	metrics.LayerRejections.WithLabelValues(RejectionReason(err)).Inc()
	slog.InfoContext(ctx, "polyline rejected", "operation", op, "error", err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *PolylineService) failed(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *PolylineService) cachePut(ctx context.Context, p *domain.Polyline) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(p); err == nil {
		_ = s.cache.Set(ctx, cacheKey(p.ID), data, cacheTTLSeconds)
	}
}

func (s *PolylineService) cacheDrop(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(id)); err != nil {
		slog.WarnContext(ctx, "cache invalidation failed", "id", id, "error", err)
	}
}

// checkID rejects ids that cannot name a stored layer. Layer ids are UUIDs, so
// anything else is reported as not found without a round trip to the store.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrNotFound, id)
	}
	return nil
}

func cacheKey(id string) string { return "polylines:id:" + id }

// RejectionReason maps a validation error to a short label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate):
		return "invalid_coordinate"
	case errors.Is(err, domain.ErrTooFewPoints):
		return "too_few_points"
	case errors.Is(err, domain.ErrEmptySequence):
		return "empty_sequence"
	case errors.Is(err, domain.ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, domain.ErrInvalidColor):
		return "invalid_color"
	case errors.Is(err, domain.ErrInvalidLocation):
		return "invalid_location"
	default:
		return "other"
	}
}
