package ports

import (
	"context"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishAvailability(ctx context.Context, update *domain.AvailabilityUpdate) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeAvailability(ctx context.Context, handler func(ctx context.Context, update *domain.AvailabilityUpdate) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
