package ports

import (
	"context"

	"github.com/samirrijal/polylayer/internal/core/domain"
)

// StatePublisher announces committed layer state to paired views.
type StatePublisher interface {
	PublishState(ctx context.Context, state domain.WidgetState) error
	PublishRemoved(ctx context.Context, id string) error
}

// StateFeed delivers published state messages for a subject pattern.
type StateFeed interface {
	Subscribe(subject string, handler func(data []byte)) (unsubscribe func(), err error)
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
