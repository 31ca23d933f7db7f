package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/polylayer/internal/core/domain"
	"github.com/samirrijal/polylayer/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to the polyline service.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	polylineType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Polyline",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.String},
			"version":        &graphql.Field{Type: graphql.Int},
			"geodesic":       &graphql.Field{Type: graphql.Boolean},
			"stroke_color":   &graphql.Field{Type: graphql.String},
			"stroke_opacity": &graphql.Field{Type: graphql.Float},
			"stroke_weight":  &graphql.Field{Type: graphql.Float},
			"data":           &graphql.Field{Type: graphql.NewList(coordinateType)},
			"data_bounds":    &graphql.Field{Type: graphql.NewList(graphql.NewList(graphql.Float))},
			"length_m":       &graphql.Field{Type: graphql.Float},
			"created_at":     &graphql.Field{Type: graphql.String},
			"updated_at":     &graphql.Field{Type: graphql.String},
		},
	})

	pointsArg := &graphql.ArgumentConfig{
		Type:        graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.Float))))),
		Description: "Ordered [lat, lng] pairs",
	}
	styleArgs := func(args graphql.FieldConfigArgument) graphql.FieldConfigArgument {
		args["geodesic"] = &graphql.ArgumentConfig{Type: graphql.Boolean}
		args["stroke_color"] = &graphql.ArgumentConfig{Type: graphql.String}
		args["stroke_opacity"] = &graphql.ArgumentConfig{Type: graphql.Float}
		args["stroke_weight"] = &graphql.ArgumentConfig{Type: graphql.Float}
		return args
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"polyline": &graphql.Field{
				Type:        polylineType,
				Description: "Get a polyline layer by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pl, err := deps.Polylines.Get(p.Context, p.Args["id"].(string))
					if err != nil {
						return nil, err
					}
					return polylineMap(pl), nil
				},
			},
			"polylines": &graphql.Field{
				Type:        graphql.NewList(polylineType),
				Description: "List polyline layers",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: defaultPageLimit},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items, _, err := deps.Polylines.List(p.Context, p.Args["offset"].(int), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					result := make([]map[string]interface{}, 0, len(items))
					for i := range items {
						result = append(result, polylineMap(&items[i]))
					}
					return result, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createPolyline": &graphql.Field{
				Type:        polylineType,
				Description: "Create a polyline layer",
				Args:        styleArgs(graphql.FieldConfigArgument{"points": pointsArg}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					points, err := pointsFromArg(p.Args["points"])
					if err != nil {
						return nil, err
					}
					pl, err := deps.Polylines.Create(p.Context, usecases.CreateParams{
						Points: points,
						Style:  stylePatchFromArgs(p.Args),
					})
					if err != nil {
						return nil, err
					}
					return polylineMap(pl), nil
				},
			},
			"setPolylineData": &graphql.Field{
				Type:        polylineType,
				Description: "Replace the point sequence of a layer",
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"points": pointsArg,
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					points, err := pointsFromArg(p.Args["points"])
					if err != nil {
						return nil, err
					}
					pl, err := deps.Polylines.SetData(p.Context, p.Args["id"].(string), points)
					if err != nil {
						return nil, err
					}
					return polylineMap(pl), nil
				},
			},
			"setPolylineStyle": &graphql.Field{
				Type:        polylineType,
				Description: "Change the style of a layer",
				Args: styleArgs(graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pl, err := deps.Polylines.UpdateStyle(p.Context, p.Args["id"].(string), stylePatchFromArgs(p.Args))
					if err != nil {
						return nil, err
					}
					return polylineMap(pl), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

func polylineMap(p *domain.Polyline) map[string]interface{} {
	return map[string]interface{}{
		"id":             p.ID,
		"version":        int(p.Version),
		"geodesic":       p.Geodesic,
		"stroke_color":   p.StrokeColor,
		"stroke_opacity": p.StrokeOpacity,
		"stroke_weight":  p.StrokeWeight,
		"data":           p.Data,
		"data_bounds": [][]float64{
			{p.Bounds.Min.Lat, p.Bounds.Min.Lng},
			{p.Bounds.Max.Lat, p.Bounds.Max.Lng},
		},
		"length_m":   p.LengthMeters(),
		"created_at": p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		"updated_at": p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func pointsFromArg(v interface{}) ([]domain.Coordinate, error) {
	list, _ := v.([]interface{})
	points := make([]domain.Coordinate, 0, len(list))
	for i, item := range list {
		pair, _ := item.([]interface{})
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: point %d must be a [lat, lng] pair", domain.ErrInvalidLocation, i)
		}
		lat, okLat := pair[0].(float64)
		lng, okLng := pair[1].(float64)
		if !okLat || !okLng {
			return nil, fmt.Errorf("%w: point %d is not numeric", domain.ErrInvalidLocation, i)
		}
		points = append(points, domain.Coordinate{Lat: lat, Lng: lng})
	}
	return points, nil
}

func stylePatchFromArgs(args map[string]interface{}) domain.StylePatch {
	var patch domain.StylePatch
	if v, ok := args["geodesic"].(bool); ok {
		patch.Geodesic = &v
	}
	if v, ok := args["stroke_color"].(string); ok {
		patch.StrokeColor = &v
	}
	if v, ok := args["stroke_opacity"].(float64); ok {
		patch.StrokeOpacity = &v
	}
	if v, ok := args["stroke_weight"].(float64); ok {
		patch.StrokeWeight = &v
	}
	return patch
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
