package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	lotType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ParkingLot",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.String},
			"name":      &graphql.Field{Type: graphql.String},
			"location":  &graphql.Field{Type: geoPointType},
			"capacity":  &graphql.Field{Type: graphql.Int},
			"available": &graphql.Field{Type: graphql.Int},
			"permits":   &graphql.Field{Type: graphql.NewList(graphql.String)},
			"source":    &graphql.Field{Type: graphql.String},
		},
	})

	rankedLotType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RankedLot",
		Fields: graphql.Fields{
			"id":           &graphql.Field{Type: graphql.String},
			"name":         &graphql.Field{Type: graphql.String},
			"location":     &graphql.Field{Type: geoPointType},
			"capacity":     &graphql.Field{Type: graphql.Int},
			"available":    &graphql.Field{Type: graphql.Int},
			"permits":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"distance_km":  &graphql.Field{Type: graphql.Float},
			"occupancy":    &graphql.Field{Type: graphql.String},
			"bike_minutes": &graphql.Field{Type: graphql.Float},
		},
	})

	destinationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Destination",
		Fields: graphql.Fields{
			"label":    &graphql.Field{Type: graphql.String},
			"location": &graphql.Field{Type: geoPointType},
		},
	})

	searchResultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SearchResult",
		Fields: graphql.Fields{
			"destination":    &graphql.Field{Type: destinationType},
			"lots":           &graphql.Field{Type: graphql.NewList(rankedLotType)},
			"recommendation": &graphql.Field{Type: rankedLotType},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"lot": &graphql.Field{
				Type:        lotType,
				Description: "Get a parking lot by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id := p.Args["id"].(string)
					return deps.Lots.GetByID(p.Context, id)
				},
			},
			"lots": &graphql.Field{
				Type:        graphql.NewList(lotType),
				Description: "List the lot catalog",
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 100},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := p.Args["limit"].(int)
					lots, err := deps.Lots.List(p.Context)
					if err != nil {
						return nil, err
					}
					if limit > 0 && len(lots) > limit {
						lots = lots[:limit]
					}
					return lots, nil
				},
			},
			"lotsNearby": &graphql.Field{
				Type:        graphql.NewList(lotType),
				Description: "Find lots near a location",
				Args: graphql.FieldConfigArgument{
					"lat":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radiusKm": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 1.2},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					radius := p.Args["radiusKm"].(float64)
					limit := p.Args["limit"].(int)
					return deps.Lots.FindNearby(p.Context, lat, lon, radius, limit)
				},
			},
			"search": &graphql.Field{
				Type:        searchResultType,
				Description: "Resolve a destination query and rank lots around it",
				Args: graphql.FieldConfigArgument{
					"q": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := p.Args["q"].(string)
					result, err := deps.Search.Search(p.Context, q, nil)
					if err != nil {
						return nil, err
					}
					return searchResultMap(result), nil
				},
			},
			"recommendation": &graphql.Field{
				Type:        searchResultType,
				Description: "Rank lots against an explicit coordinate",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					lat := p.Args["lat"].(float64)
					lon := p.Args["lon"].(float64)
					dest := domain.Destination{Location: domain.GeoPoint{Lat: lat, Lon: lon}}
					result, err := deps.Search.RankAt(p.Context, dest, nil)
					if err != nil {
						return nil, err
					}
					return searchResultMap(result), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// rankedLotMap flattens a RankedLot for the default resolver; embedded
// struct fields are not promoted by graphql-go's reflection.
func rankedLotMap(r domain.RankedLot) map[string]interface{} {
	return map[string]interface{}{
		"id":           r.ID,
		"name":         r.Name,
		"location":     r.Location,
		"capacity":     r.Capacity,
		"available":    r.Available,
		"permits":      r.Permits,
		"distance_km":  r.DistanceKm,
		"occupancy":    string(r.Occupancy),
		"bike_minutes": r.BikeMinutes,
	}
}

func searchResultMap(result *domain.SearchResult) map[string]interface{} {
	lots := make([]map[string]interface{}, 0, len(result.Lots))
	for _, r := range result.Lots {
		lots = append(lots, rankedLotMap(r))
	}
	m := map[string]interface{}{
		"destination": result.Destination,
		"lots":        lots,
	}
	if result.Recommended != nil {
		m["recommendation"] = rankedLotMap(*result.Recommended)
	}
	return m
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
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
