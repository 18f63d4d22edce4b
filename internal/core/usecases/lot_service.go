package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/core/ports"
)

// LotService handles parking lot catalog reads.
type LotService struct {
	lots  ports.LotRepository
	cache ports.CacheService
}

// NewLotService creates a new LotService.
func NewLotService(lots ports.LotRepository, cache ports.CacheService) *LotService {
	return &LotService{lots: lots, cache: cache}
}

// List returns the full lot catalog.
func (s *LotService) List(ctx context.Context) ([]domain.ParkingLot, error) {
	cacheKey := "lots:all"
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var lots []domain.ParkingLot
			if err := json.Unmarshal(data, &lots); err == nil {
				return lots, nil
			}
		}
	}

	lots, err := s.lots.List(ctx)
	if err != nil {
		return nil, err
	}

	// Short TTL: availability moves with the live update feed.
	if s.cache != nil {
		if data, err := json.Marshal(lots); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 30)
		}
	}

	return lots, nil
}

// GetByID returns a single lot.
func (s *LotService) GetByID(ctx context.Context, id string) (*domain.ParkingLot, error) {
	if id == "" {
		return nil, fmt.Errorf("lot id must not be empty")
	}
	return s.lots.GetByID(ctx, id)
}

// FindNearby returns lots within radiusKm of the given point, closest first.
func (s *LotService) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.ParkingLot, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	cacheKey := fmt.Sprintf("lots:nearby:%.4f:%.4f:%.2f:%d", lat, lon, radiusKm, limit)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var lots []domain.ParkingLot
			if err := json.Unmarshal(data, &lots); err == nil {
				return lots, nil
			}
		}
	}

	lots, err := s.lots.FindNearby(ctx, lat, lon, radiusKm, limit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(lots); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 30)
		}
	}

	return lots, nil
}
