package http

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/samirrijal/polylayer/internal/core/domain"
	"github.com/samirrijal/polylayer/internal/core/usecases"
)

// createPolylineRequest is the body of POST /v1/polylines. Points accept
// either [[lat,lng],...] or [{"lat":..,"lng":..},...].
type createPolylineRequest struct {
	Points json.RawMessage `json:"points"`
	domain.StylePatch
}

// setDataRequest is the body of PUT /v1/polylines/:id/data.
type setDataRequest struct {
	Data json.RawMessage `json:"data"`
}

// BoundsResponse is the viewport of a layer, optionally padded.
type BoundsResponse struct {
	ID         string             `json:"id"`
	Version    int64              `json:"version"`
	DataBounds domain.BoundingBox `json:"data_bounds"`
	PadMeters  float64            `json:"pad_m,omitempty"`
}

const maxPadMeters = 1_000_000

// layerID reads and checks the :id path parameter.
func layerID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// CreatePolylineHandler validates and stores a new layer.
func CreatePolylineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req createPolylineRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Points) == 0 {
			return errBadRequest(c, "points is required")
		}
		points, err := domain.ParseLocations(req.Points)
		if err != nil {
			return errFromDomain(c, err)
		}

		p, err := deps.Polylines.Create(c.UserContext(), usecases.CreateParams{
			Points: points,
			Style:  req.StylePatch,
		})
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Location("/v1/polylines/" + p.ID)
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// ListPolylinesHandler returns a page of stored layers.
func ListPolylinesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c)

		items, total, err := deps.Polylines.List(c.UserContext(), offset, limit)
		if err != nil {
			return errFromDomain(c, err)
		}
		if items == nil {
			items = []domain.Polyline{}
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: items, Pagination: pg})
	}
}

// GetPolylineHandler returns a single layer.
func GetPolylineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := layerID(c)
		if !ok {
			return errBadRequest(c, "invalid polyline id")
		}
		p, err := deps.Polylines.Get(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(p)
	}
}

// DeletePolylineHandler removes a layer.
func DeletePolylineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := layerID(c)
		if !ok {
			return errBadRequest(c, "invalid polyline id")
		}
		if err := deps.Polylines.Delete(c.UserContext(), id); err != nil {
			return errFromDomain(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// SetDataHandler replaces the point sequence of a layer. A rejected sequence
// leaves the stored layer unchanged.
func SetDataHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := layerID(c)
		if !ok {
			return errBadRequest(c, "invalid polyline id")
		}

		var req setDataRequest
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Data) == 0 {
			return errBadRequest(c, "data is required")
		}
		points, err := domain.ParseLocations(req.Data)
		if err != nil {
			return errFromDomain(c, err)
		}

		p, err := deps.Polylines.SetData(c.UserContext(), id, points)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(p)
	}
}

// UpdateStyleHandler applies a partial style change.
func UpdateStyleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := layerID(c)
		if !ok {
			return errBadRequest(c, "invalid polyline id")
		}

		var patch domain.StylePatch
		if err := json.Unmarshal(c.Body(), &patch); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		p, err := deps.Polylines.UpdateStyle(c.UserContext(), id, patch)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(p)
	}
}

// BoundsHandler returns the layer's data_bounds, padded by ?pad=<meters>.
func BoundsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := layerID(c)
		if !ok {
			return errBadRequest(c, "invalid polyline id")
		}

		var pad float64
		if raw := c.Query("pad"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || v < 0 || v > maxPadMeters {
				return errBadRequest(c, "pad must be between 0 and 1000000 meters")
			}
			pad = v
		}

		p, err := deps.Polylines.Get(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}

		bounds := p.Bounds
		if pad > 0 {
			bounds = bounds.Pad(pad)
		}
		return c.JSON(BoundsResponse{
			ID:         p.ID,
			Version:    p.Version,
			DataBounds: bounds,
			PadMeters:  pad,
		})
	}
}

// StateHandler returns the synchronized view state of a layer.
func StateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := layerID(c)
		if !ok {
			return errBadRequest(c, "invalid polyline id")
		}
		p, err := deps.Polylines.Get(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(p.State())
	}
}

// GeoJSONHandler exports a layer as a GeoJSON LineString feature.
func GeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := layerID(c)
		if !ok {
			return errBadRequest(c, "invalid polyline id")
		}
		p, err := deps.Polylines.Get(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}

		body, err := p.Feature().MarshalJSON()
		if err != nil {
			return errInternal(c, "encode feature")
		}
		c.Set(fiber.HeaderContentType, "application/geo+json")
		return c.Send(body)
	}
}
