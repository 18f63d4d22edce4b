package ports

import (
	"context"
	"errors"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// LotRepository persists the parking lot catalog.
type LotRepository interface {
	List(ctx context.Context) ([]domain.ParkingLot, error)
	GetByID(ctx context.Context, id string) (*domain.ParkingLot, error)
	UpsertBatch(ctx context.Context, lots []domain.ParkingLot) error
	SetAvailability(ctx context.Context, update *domain.AvailabilityUpdate) (*domain.ParkingLot, error)
	FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.ParkingLot, error)
}

// PlaceRepository searches the campus gazetteer.
type PlaceRepository interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

// HistoryRepository persists recent search queries.
type HistoryRepository interface {
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	Save(ctx context.Context, entries []domain.HistoryEntry) error
	Clear(ctx context.Context) error
}

// SettingsRepository persists the saved permit selections and filter toggles.
type SettingsRepository interface {
	Load(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) error
}

// UserParamRepository persists free-form per-user parameters.
type UserParamRepository interface {
	Get(ctx context.Context, userID, key string) (string, error)
	Set(ctx context.Context, userID, key, value string) error
}
