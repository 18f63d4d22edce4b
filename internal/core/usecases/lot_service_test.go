package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/core/usecases"
)

var errCacheMiss = errors.New("cache miss")

// --- Mock LotRepository ---

type mockLotRepo struct {
	listFn            func(ctx context.Context) ([]domain.ParkingLot, error)
	getByIDFn         func(ctx context.Context, id string) (*domain.ParkingLot, error)
	setAvailabilityFn func(ctx context.Context, update *domain.AvailabilityUpdate) (*domain.ParkingLot, error)
	findNearbyFn      func(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.ParkingLot, error)
}

func (m *mockLotRepo) List(ctx context.Context) ([]domain.ParkingLot, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockLotRepo) GetByID(ctx context.Context, id string) (*domain.ParkingLot, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockLotRepo) UpsertBatch(ctx context.Context, lots []domain.ParkingLot) error { return nil }

func (m *mockLotRepo) SetAvailability(ctx context.Context, update *domain.AvailabilityUpdate) (*domain.ParkingLot, error) {
	if m.setAvailabilityFn != nil {
		return m.setAvailabilityFn(ctx, update)
	}
	return nil, nil
}

func (m *mockLotRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.ParkingLot, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radiusKm, limit)
	}
	return nil, nil
}

// --- Mock CacheService ---

type mockCache struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	setFn    func(ctx context.Context, key string, value []byte, ttlSeconds int) error
	deleteFn func(ctx context.Context, key string) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, errCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttlSeconds)
	}
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, key)
	}
	return nil
}

// --- Tests ---

func TestLotService_List(t *testing.T) {
	repo := &mockLotRepo{
		listFn: func(ctx context.Context) ([]domain.ParkingLot, error) {
			return []domain.ParkingLot{
				{ID: "1", Name: "Student Union Garage", Available: 75},
				{ID: "2", Name: "Drummond Hall Lot", Available: 12},
			}, nil
		},
	}

	svc := usecases.NewLotService(repo, nil)

	lots, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lots) != 2 {
		t.Fatalf("expected 2 lots, got %d", len(lots))
	}
	if lots[0].Name != "Student Union Garage" {
		t.Errorf("expected Student Union Garage, got %s", lots[0].Name)
	}
}

func TestLotService_List_CacheHit(t *testing.T) {
	cached, _ := json.Marshal([]domain.ParkingLot{{ID: "9", Name: "Cached Lot", Available: 5}})
	repoCalled := false

	repo := &mockLotRepo{
		listFn: func(ctx context.Context) ([]domain.ParkingLot, error) {
			repoCalled = true
			return nil, nil
		},
	}
	cache := &mockCache{
		getFn: func(ctx context.Context, key string) ([]byte, error) {
			return cached, nil
		},
	}

	svc := usecases.NewLotService(repo, cache)

	lots, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repoCalled {
		t.Error("repository must not be hit on a cache hit")
	}
	if len(lots) != 1 || lots[0].Name != "Cached Lot" {
		t.Errorf("expected the cached lot, got %v", lots)
	}
}

func TestLotService_FindNearby_ClampLimit(t *testing.T) {
	called := false
	repo := &mockLotRepo{
		findNearbyFn: func(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.ParkingLot, error) {
			called = true
			if limit != 50 {
				t.Errorf("expected limit clamped to 50, got %d", limit)
			}
			return nil, nil
		},
	}

	svc := usecases.NewLotService(repo, nil)
	_, _ = svc.FindNearby(context.Background(), 36.12, -97.07, 1.2, 999)
	if !called {
		t.Error("repo was not called")
	}
}

func TestLotService_GetByID_EmptyID(t *testing.T) {
	svc := usecases.NewLotService(&mockLotRepo{}, nil)
	if _, err := svc.GetByID(context.Background(), ""); err == nil {
		t.Error("expected error for empty id")
	}
}
