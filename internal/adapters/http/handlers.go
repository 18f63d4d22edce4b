package http

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/core/ports"
	"github.com/Phoen1xxz/stillpark/internal/pkg/metrics"
)

// rankOptionsFromQuery derives ranking options from the stored settings,
// overridden field by field with any query params the caller supplies.
func rankOptionsFromQuery(c *fiber.Ctx, deps *Dependencies) (*domain.RankOptions, error) {
	settings, err := deps.Settings.Get(c.Context())
	if err != nil {
		return nil, err
	}
	opts := settings.RankOptions()

	if raw := c.Query("permits"); raw != "" {
		var permits []string
		for _, p := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				permits = append(permits, trimmed)
			}
		}
		opts.Permits = permits
	}
	opts.AllPermits = c.QueryBool("all_permits", opts.AllPermits)
	opts.IncludeFull = c.QueryBool("include_full", opts.IncludeFull)
	opts.TopN = c.QueryInt("top", opts.TopN)
	if opts.TopN < 0 {
		opts.TopN = 0
	}
	return &opts, nil
}

func recommendationOutcome(result *domain.SearchResult) string {
	if result.Recommended != nil {
		return "recommended"
	}
	return "none"
}

// SearchHandler resolves a destination query and ranks lots around it.
func SearchHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		opts, err := rankOptionsFromQuery(c, deps)
		if err != nil {
			return errInternal(c, "settings unavailable")
		}

		result, err := deps.Search.Search(c.Context(), query, opts)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return errNotFound(c, "no campus place matches "+query)
			}
			return errInternal(c, "search failed")
		}

		metrics.SearchesTotal.Inc()
		metrics.RecommendationsTotal.WithLabelValues(recommendationOutcome(result)).Inc()
		LoggerFromCtx(c.UserContext()).Info("search resolved",
			"query", query,
			"destination", result.Destination.Label,
			"lots", len(result.Lots),
			"outcome", recommendationOutcome(result))
		return c.JSON(result)
	}
}

// RecommendationsHandler ranks lots against an explicit coordinate.
func RecommendationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if lat == 0 || lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}

		opts, err := rankOptionsFromQuery(c, deps)
		if err != nil {
			return errInternal(c, "settings unavailable")
		}

		dest := domain.Destination{
			Label:    c.Query("label"),
			Location: domain.GeoPoint{Lat: lat, Lon: lon},
		}
		result, err := deps.Search.RankAt(c.Context(), dest, opts)
		if err != nil {
			return errInternal(c, "ranking failed")
		}

		metrics.RecommendationsTotal.WithLabelValues(recommendationOutcome(result)).Inc()
		return c.JSON(result)
	}
}

// ListLotsHandler returns the paginated lot catalog.
func ListLotsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lots, err := deps.Lots.List(c.Context())
		if err != nil {
			return errInternal(c, "lot catalog unavailable")
		}

		offset, limit := parsePagination(c, 100, 200)
		page, pg := paginate(lots, offset, limit)
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetLotHandler returns a single lot by ID.
func GetLotHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "lot id is required")
		}
		lot, err := deps.Lots.GetByID(c.Context(), id)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return errNotFound(c, "lot not found")
			}
			return errInternal(c, "lot lookup failed")
		}
		return c.JSON(lot)
	}
}

// NearbyLotsHandler returns lots within a radius of a point, closest first.
func NearbyLotsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if lat == 0 || lon == 0 {
			return errBadRequest(c, "lat and lon are required")
		}

		radius := c.QueryFloat("radius_km", deps.nearbyRadius())
		if radius <= 0 || radius > 25 {
			return errBadRequest(c, "radius_km must be between 0 and 25")
		}
		limit := c.QueryInt("limit", deps.nearbyLimit())

		lots, err := deps.Lots.FindNearby(c.Context(), lat, lon, radius, limit)
		if err != nil {
			return errInternal(c, "nearby lookup failed")
		}
		return c.JSON(lots)
	}
}

// availabilityRequest is the PUT /v1/lots/:id/availability payload.
// Available is a pointer so an explicit 0 passes the required check.
type availabilityRequest struct {
	Available *int   `json:"available" validate:"required,gte=0"`
	Source    string `json:"source" validate:"omitempty,max=64"`
}

// UpdateAvailabilityHandler sets a lot's free-space count and publishes
// the change on the event bus.
func UpdateAvailabilityHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "lot id is required")
		}

		var req availabilityRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := validateStruct(req); err != nil {
			return errUnprocessable(c, err.Error())
		}

		source := req.Source
		if source == "" {
			source = "api"
		}
		update := &domain.AvailabilityUpdate{
			LotID:      id,
			Available:  *req.Available,
			Source:     source,
			ObservedAt: time.Now(),
		}

		lot, err := deps.Availability.ProcessUpdate(c.Context(), update)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return errNotFound(c, "lot not found")
			}
			return errInternal(c, "availability update failed")
		}

		metrics.AvailabilityUpdates.WithLabelValues(source).Inc()
		LoggerFromCtx(c.UserContext()).Info("availability updated",
			"lot_id", id,
			"available", *req.Available,
			"source", source)
		return c.JSON(lot)
	}
}

// GetSettingsHandler returns the stored permit selections and toggles.
func GetSettingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		settings, err := deps.Settings.Get(c.Context())
		if err != nil {
			return errInternal(c, "settings unavailable")
		}
		return c.JSON(settings)
	}
}

// UpdateSettingsHandler replaces the stored settings.
func UpdateSettingsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var settings domain.Settings
		if err := c.BodyParser(&settings); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := deps.Settings.Update(c.Context(), &settings); err != nil {
			return errInternal(c, "settings update failed")
		}
		return c.JSON(settings)
	}
}

// HistoryHandler returns recent searches, newest first.
func HistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", domain.MaxHistoryEntries)
		entries, err := deps.History.Recent(c.Context(), limit)
		if err != nil {
			return errInternal(c, "history unavailable")
		}
		if entries == nil {
			entries = []domain.HistoryEntry{}
		}
		return c.JSON(entries)
	}
}

// ClearHistoryHandler empties the search history.
func ClearHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.History.Clear(c.Context()); err != nil {
			return errInternal(c, "history clear failed")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PlacesHandler returns raw gazetteer matches for a query.
func PlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		limit := c.QueryInt("limit", 10)

		places, err := deps.Search.Places(c.Context(), query, limit)
		if err != nil {
			return errInternal(c, "place lookup failed")
		}
		if places == nil {
			places = []domain.Place{}
		}
		return c.JSON(places)
	}
}

// GetUserParamHandler returns one stored per-user parameter.
func GetUserParamHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Params("id")
		key := c.Params("key")

		value, err := deps.Settings.UserParam(c.Context(), userID, key)
		if err != nil {
			if errors.Is(err, ports.ErrNotFound) {
				return errNotFound(c, "param not found")
			}
			return errInternal(c, "param lookup failed")
		}
		return c.JSON(fiber.Map{"user_id": userID, "key": key, "value": value})
	}
}

// userParamRequest is the PUT /v1/users/:id/params/:key payload.
type userParamRequest struct {
	Value string `json:"value" validate:"required,max=256"`
}

// SetUserParamHandler stores one per-user parameter.
func SetUserParamHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Params("id")
		key := c.Params("key")

		var req userParamRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if err := validateStruct(req); err != nil {
			return errUnprocessable(c, err.Error())
		}

		if err := deps.Settings.SetUserParam(c.Context(), userID, key, req.Value); err != nil {
			return errInternal(c, "param update failed")
		}
		return c.JSON(fiber.Map{"user_id": userID, "key": key, "value": req.Value})
	}
}
