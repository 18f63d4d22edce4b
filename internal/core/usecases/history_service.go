package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/core/ports"
)

// HistoryService manages the recent-search list.
type HistoryService struct {
	history ports.HistoryRepository
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(history ports.HistoryRepository) *HistoryService {
	return &HistoryService{history: history}
}

// Recent returns up to limit entries, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 || limit > domain.MaxHistoryEntries {
		limit = domain.MaxHistoryEntries
	}

	entries, err := s.history.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Record remembers a query, deduplicating and trimming the list.
func (s *HistoryService) Record(ctx context.Context, query string) error {
	if query == "" {
		return fmt.Errorf("query must not be empty")
	}

	entries, err := s.history.List(ctx)
	if err != nil {
		return err
	}
	return s.history.Save(ctx, domain.PushHistory(entries, query, time.Now()))
}

// Clear erases the history.
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.history.Clear(ctx)
}
