package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/core/ports"
)

// placeCandidates is how many gazetteer candidates a search considers
// before the best-match pick.
const placeCandidates = 5

// SearchService resolves destination text and ranks lots around it.
type SearchService struct {
	lots     ports.LotRepository
	places   ports.PlaceRepository
	history  ports.HistoryRepository
	settings ports.SettingsRepository
	cache    ports.CacheService
}

// NewSearchService creates a new SearchService.
func NewSearchService(
	lots ports.LotRepository,
	places ports.PlaceRepository,
	history ports.HistoryRepository,
	settings ports.SettingsRepository,
	cache ports.CacheService,
) *SearchService {
	return &SearchService{lots: lots, places: places, history: history, settings: settings, cache: cache}
}

// Search resolves query against the gazetteer, ranks the catalog around
// the match, and records the query in the history. A nil opts falls
// back to the saved settings.
func (s *SearchService) Search(ctx context.Context, query string, opts *domain.RankOptions) (*domain.SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}

	dest, err := s.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}

	result, err := s.RankAt(ctx, *dest, opts)
	if err != nil {
		return nil, err
	}

	// Best effort: a failed history write never fails the search.
	if entries, err := s.history.List(ctx); err == nil {
		_ = s.history.Save(ctx, domain.PushHistory(entries, query, time.Now()))
	}

	return result, nil
}

// RankAt ranks the catalog around an explicit destination. A nil opts
// falls back to the saved settings.
func (s *SearchService) RankAt(ctx context.Context, dest domain.Destination, opts *domain.RankOptions) (*domain.SearchResult, error) {
	if opts == nil {
		settings, err := s.settings.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load settings: %w", err)
		}
		derived := settings.RankOptions()
		opts = &derived
	}

	lots, err := s.lots.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lots: %w", err)
	}

	ranked := domain.Rank(dest.Location, lots, *opts)
	return &domain.SearchResult{
		Destination: dest,
		Lots:        ranked,
		Recommended: domain.Recommend(ranked),
	}, nil
}

// Places returns raw gazetteer matches without the best-match pick,
// for autocomplete-style callers.
func (s *SearchService) Places(ctx context.Context, query string, limit int) ([]domain.Place, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.places.Search(ctx, query, limit)
}

// Resolve maps search text to a destination using the gazetteer and
// the best-match heuristic.
func (s *SearchService) Resolve(ctx context.Context, query string) (*domain.Destination, error) {
	cacheKey := "places:resolve:" + query
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var dest domain.Destination
			if err := json.Unmarshal(data, &dest); err == nil {
				return &dest, nil
			}
		}
	}

	candidates, err := s.places.Search(ctx, query, placeCandidates)
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}

	match := domain.BestPlaceMatch(query, candidates)
	if match == nil {
		return nil, fmt.Errorf("no place matches %q: %w", query, ports.ErrNotFound)
	}

	label := match.DisplayName
	if label == "" {
		label = match.Name
	}
	dest := &domain.Destination{Label: label, Location: match.Location}

	// The gazetteer is static, so resolved destinations cache well.
	if s.cache != nil {
		if data, err := json.Marshal(dest); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 600)
		}
	}

	return dest, nil
}
