package usecases

import (
	"context"
	"fmt"

	"github.com/Phoen1xxz/stillpark/internal/core/domain"
	"github.com/Phoen1xxz/stillpark/internal/core/ports"
)

// SettingsService manages saved permit selections and per-user parameters.
type SettingsService struct {
	settings ports.SettingsRepository
	params   ports.UserParamRepository
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settings ports.SettingsRepository, params ports.UserParamRepository) *SettingsService {
	return &SettingsService{settings: settings, params: params}
}

// Get returns the saved settings; a missing file yields the all-false default.
func (s *SettingsService) Get(ctx context.Context) (*domain.Settings, error) {
	return s.settings.Load(ctx)
}

// Update persists new settings.
func (s *SettingsService) Update(ctx context.Context, settings *domain.Settings) error {
	if settings == nil {
		return fmt.Errorf("settings must not be nil")
	}
	return s.settings.Save(ctx, settings)
}

// UserParam returns a stored per-user parameter.
func (s *SettingsService) UserParam(ctx context.Context, userID, key string) (string, error) {
	if userID == "" || key == "" {
		return "", fmt.Errorf("user id and key must not be empty")
	}
	return s.params.Get(ctx, userID, key)
}

// SetUserParam stores a per-user parameter.
func (s *SettingsService) SetUserParam(ctx context.Context, userID, key, value string) error {
	if userID == "" || key == "" {
		return fmt.Errorf("user id and key must not be empty")
	}
	return s.params.Set(ctx, userID, key, value)
}
