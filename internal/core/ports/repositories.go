package ports

import (
	"context"

	"github.com/samirrijal/polylayer/internal/core/domain"
)

// PolylineRepository persists polyline layers.
type PolylineRepository interface {
	Create(ctx context.Context, p *domain.Polyline) error
	// Update stores p only if the stored version still equals prevVersion,
	// otherwise it returns domain.ErrConflict.
	Update(ctx context.Context, p *domain.Polyline, prevVersion int64) error
	GetByID(ctx context.Context, id string) (*domain.Polyline, error)
	List(ctx context.Context, offset, limit int) ([]domain.Polyline, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
