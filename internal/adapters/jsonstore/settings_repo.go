package jsonstore

import (
	"context"
	"sync"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
)

const settingsFile = "parking_settings.json"

// SettingsRepo implements ports.SettingsRepository over
// parking_settings.json. A missing file yields the all-false default.
type SettingsRepo struct {
	store *Store

	mu       sync.RWMutex
	settings domain.Settings
}

// NewSettingsRepo loads the saved settings from the store.
func NewSettingsRepo(store *Store) (*SettingsRepo, error) {
	r := &SettingsRepo{store: store}
	if err := store.readFile(settingsFile, &r.settings); err != nil {
		return nil, err
	}
	return r, nil
}

// Load returns the current settings.
func (r *SettingsRepo) Load(ctx context.Context) (*domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := r.settings
	return &out, nil
}

// Save persists new settings.
func (r *SettingsRepo) Save(ctx context.Context, settings *domain.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings = *settings
	return r.store.writeFile(settingsFile, r.settings)
}
