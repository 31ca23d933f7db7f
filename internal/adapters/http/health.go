package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// readinessCheck probes one backend. A required backend that is missing
// fails readiness; an optional one is reported as "not configured".
type readinessCheck struct {
	name     string
	required bool
	probe    func(ctx context.Context) (configured bool, err error)
}

func (d *Dependencies) readinessChecks() []readinessCheck {
	return []readinessCheck{
		{name: "database", required: true, probe: func(ctx context.Context) (bool, error) {
			if d.DB == nil {
				return false, nil
			}
			return true, d.DB.Ping(ctx)
		}},
		{name: "cache", probe: func(ctx context.Context) (bool, error) {
			if d.Cache == nil {
				return false, nil
			}
			return true, d.Cache.Ping(ctx)
		}},
		{name: "nats", probe: func(ctx context.Context) (bool, error) {
			if d.NATS == nil {
				return false, nil
			}
			if !d.NATS.IsConnected() {
				return true, errDisconnected
			}
			return true, nil
		}},
	}
}

type readinessError string

func (e readinessError) Error() string { return string(e) }

const errDisconnected = readinessError("disconnected")

// ReadyHandler reports whether the database, cache and broker are reachable.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		allOK := true

		for _, chk := range deps.readinessChecks() {
			configured, err := chk.probe(ctx)
			switch {
			case !configured:
				checks[chk.name] = "not configured"
				if chk.required {
					allOK = false
				}
			case err == errDisconnected:
				checks[chk.name] = err.Error()
				allOK = false
			case err != nil:
				checks[chk.name] = "error: " + err.Error()
				allOK = false
			default:
				checks[chk.name] = "ok"
			}
		}

		status, code := "ready", fiber.StatusOK
		if !allOK {
			status, code = "not ready", fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
