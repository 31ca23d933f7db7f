package http

import (
	"context"

	"github.com/samirrijal/polylayer/internal/core/ports"
	"github.com/samirrijal/polylayer/internal/core/usecases"
)

// Pinger is a backend that can be probed for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Broker reports message-broker connectivity.
type Broker interface {
	IsConnected() bool
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Polylines *usecases.PolylineService
	Feed      ports.StateFeed
	DB        Pinger
	Cache     Pinger
	NATS      Broker

	// OpenAPIPath overrides DefaultOpenAPIPath for /docs/openapi.yaml.
	OpenAPIPath string
}
