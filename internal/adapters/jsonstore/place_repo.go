package jsonstore

import (
	"context"
	"strings"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
)

const placesFile = "places.json"

// PlaceRepo implements ports.PlaceRepository over places.json. The
// gazetteer is read once and never written back.
type PlaceRepo struct {
	places []domain.Place
}

// NewPlaceRepo loads the campus gazetteer from the store.
func NewPlaceRepo(store *Store) (*PlaceRepo, error) {
	r := &PlaceRepo{}
	if err := store.readFile(placesFile, &r.places); err != nil {
		return nil, err
	}
	return r, nil
}

// Search returns places whose name or display name contains the query,
// case-insensitive, in file order.
func (r *PlaceRepo) Search(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var out []domain.Place
	for _, p := range r.places {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.DisplayName), q) {
			out = append(out, p)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}
