package jsonstore

import (
	"context"
	"sync"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
)

const historyFile = "search_history.json"

// HistoryRepo implements ports.HistoryRepository over search_history.json.
type HistoryRepo struct {
	store *Store

	mu      sync.RWMutex
	entries []domain.HistoryEntry
}

// NewHistoryRepo loads the search history from the store.
func NewHistoryRepo(store *Store) (*HistoryRepo, error) {
	r := &HistoryRepo{store: store}
	if err := store.readFile(historyFile, &r.entries); err != nil {
		return nil, err
	}
	return r, nil
}

// List returns the history, newest first.
func (r *HistoryRepo) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.HistoryEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

// Save replaces the history and persists it.
func (r *HistoryRepo) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make([]domain.HistoryEntry, len(entries))
	copy(r.entries, entries)
	return r.store.writeFile(historyFile, r.entries)
}

// Clear erases the history.
func (r *HistoryRepo) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	return r.store.writeFile(historyFile, []domain.HistoryEntry{})
}
