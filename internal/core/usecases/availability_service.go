package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/core/ports"
)

// AvailabilityService processes incoming lot availability updates.
type AvailabilityService struct {
	lots      ports.LotRepository
	publisher ports.EventPublisher
	cache     ports.CacheService
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(
	lots ports.LotRepository,
	publisher ports.EventPublisher,
	cache ports.CacheService,
) *AvailabilityService {
	return &AvailabilityService{lots: lots, publisher: publisher, cache: cache}
}

// ProcessUpdate stores an availability reading and publishes it on the
// event bus. The count is accepted as-is; it may exceed the lot's
// capacity.
func (s *AvailabilityService) ProcessUpdate(ctx context.Context, update *domain.AvailabilityUpdate) (*domain.ParkingLot, error) {
	if update.LotID == "" {
		return nil, fmt.Errorf("lot id must not be empty")
	}
	if update.Available < 0 {
		return nil, fmt.Errorf("available must not be negative")
	}
	if update.ObservedAt.IsZero() {
		update.ObservedAt = time.Now()
	}

	lot, err := s.lots.SetAvailability(ctx, update)
	if err != nil {
		return nil, fmt.Errorf("set availability: %w", err)
	}

	// Broadcast to live subscribers; readers tolerate a stale cache
	// until the short TTL expires, but drop it eagerly anyway.
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "lots:all")
	}
	if s.publisher != nil {
		_ = s.publisher.PublishAvailability(ctx, update)
	}

	return lot, nil
}

// Apply stores an availability reading that arrived from the bus
// without republishing it.
func (s *AvailabilityService) Apply(ctx context.Context, update *domain.AvailabilityUpdate) error {
	if update.LotID == "" {
		return fmt.Errorf("lot id must not be empty")
	}
	if _, err := s.lots.SetAvailability(ctx, update); err != nil {
		return fmt.Errorf("set availability: %w", err)
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "lots:all")
	}
	return nil
}
