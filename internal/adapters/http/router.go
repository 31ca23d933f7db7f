package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/polylayer/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
		Next: func(c *fiber.Ctx) bool {
			// Long-lived view connections are not counted.
			return c.Path() == "/ws"
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout: fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, requestTimeout)
	}

	v1 := app.Group("/v1")
	v1.Post("/polylines", withTimeout(CreatePolylineHandler(deps)))
	v1.Get("/polylines", withTimeout(ListPolylinesHandler(deps)))
	v1.Get("/polylines/:id", withTimeout(GetPolylineHandler(deps)))
	v1.Delete("/polylines/:id", withTimeout(DeletePolylineHandler(deps)))
	v1.Put("/polylines/:id/data", withTimeout(SetDataHandler(deps)))
	v1.Patch("/polylines/:id/style", withTimeout(UpdateStyleHandler(deps)))
	v1.Get("/polylines/:id/bounds", withTimeout(BoundsHandler(deps)))
	v1.Get("/polylines/:id/state", withTimeout(StateHandler(deps)))
	v1.Get("/polylines/:id/geojson", withTimeout(GeoJSONHandler(deps)))

	app.Post("/graphql", withTimeout(GraphQLHandler(deps)))

	docPath := deps.OpenAPIPath
	if docPath == "" {
		docPath = DefaultOpenAPIPath
	}
	SetupDocs(app, docPath)

	// WebSocket view sync
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.Polylines, deps.Feed)))
}
