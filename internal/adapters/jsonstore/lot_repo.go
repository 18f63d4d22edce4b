package jsonstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/core/ports"
	"github.com/Phoen1xxz/stillpark/internal/pkg/geospatial"
)

const lotsFile = "lots.json"

// LotRepo implements ports.LotRepository over lots.json.
type LotRepo struct {
	store *Store

	mu   sync.RWMutex
	lots []domain.ParkingLot
}

// NewLotRepo loads the lot catalog from the store.
func NewLotRepo(store *Store) (*LotRepo, error) {
	r := &LotRepo{store: store}
	if err := store.readFile(lotsFile, &r.lots); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns a snapshot of the catalog in file order.
func (r *LotRepo) List(ctx context.Context) ([]domain.ParkingLot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ParkingLot, len(r.lots))
	copy(out, r.lots)
	return out, nil
}

// GetByID returns a single lot.
func (r *LotRepo) GetByID(ctx context.Context, id string) (*domain.ParkingLot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, lot := range r.lots {
		if lot.ID == id {
			out := lot
			return &out, nil
		}
	}
	return nil, fmt.Errorf("lot %s: %w", id, ports.ErrNotFound)
}

// UpsertBatch inserts or replaces lots by id and persists the catalog.
func (r *LotRepo) UpsertBatch(ctx context.Context, lots []domain.ParkingLot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := make(map[string]int, len(r.lots))
	for i, lot := range r.lots {
		index[lot.ID] = i
	}
	for _, lot := range lots {
		if i, ok := index[lot.ID]; ok {
			r.lots[i] = lot
		} else {
			index[lot.ID] = len(r.lots)
			r.lots = append(r.lots, lot)
		}
	}

	return r.store.writeFile(lotsFile, r.lots)
}

// SetAvailability updates one lot's free-space count. The count is
// stored as-is even when it exceeds capacity.
func (r *LotRepo) SetAvailability(ctx context.Context, update *domain.AvailabilityUpdate) (*domain.ParkingLot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.lots {
		if r.lots[i].ID != update.LotID {
			continue
		}
		r.lots[i].Available = update.Available
		r.lots[i].UpdatedAt = update.ObservedAt
		if err := r.store.writeFile(lotsFile, r.lots); err != nil {
			return nil, err
		}
		out := r.lots[i]
		return &out, nil
	}
	return nil, fmt.Errorf("lot %s: %w", update.LotID, ports.ErrNotFound)
}

// FindNearby returns lots within radiusKm of the point, closest first.
func (r *LotRepo) FindNearby(ctx context.Context, lat, lon, radiusKm float64, limit int) ([]domain.ParkingLot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, radiusKm)

	type hit struct {
		lot  domain.ParkingLot
		dist float64
	}
	var hits []hit
	for _, lot := range r.lots {
		p := lot.Location
		if p.Lat < minLat || p.Lat > maxLat || p.Lon < minLon || p.Lon > maxLon {
			continue
		}
		if d := geospatial.Haversine(lat, lon, p.Lat, p.Lon); d <= radiusKm {
			hits = append(hits, hit{lot: lot, dist: d})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	out := make([]domain.ParkingLot, len(hits))
	for i, h := range hits {
		out[i] = h.lot
	}
	return out, nil
}
