package http

import (
	"github.com/nats-io/nats.go"

	"github.com/Phoen1xxz/stillpark/internal/adapters/valkey"
	"github.com/Phoen1xxz/stillpark/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Lots         *usecases.LotService
	Search       *usecases.SearchService
	Availability *usecases.AvailabilityService
	History      *usecases.HistoryService
	Settings     *usecases.SettingsService

	// NATS is the raw connection used by the WebSocket relay and the
	// readiness probe. Nil when the bus is not configured.
	NATS  *nats.Conn
	Cache *valkey.Cache

	// DataDir is where the flat-file stores live; readiness stats it.
	DataDir string

	// Nearby query defaults, from config.
	DefaultRadiusKm float64
	NearbyLimit     int
}

func (d *Dependencies) nearbyRadius() float64 {
	if d.DefaultRadiusKm > 0 {
		return d.DefaultRadiusKm
	}
	return 1.2
}

func (d *Dependencies) nearbyLimit() int {
	if d.NearbyLimit > 0 {
		return d.NearbyLimit
	}
	return 20
}
