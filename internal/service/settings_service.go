package service

import (
	"context"

	"leadpilot/internal/models"
	"leadpilot/internal/repository"
)

// SettingsService manages per-user toggles and keeps automation enablement
// in sync with them
type SettingsService struct {
	settingsRepo   repository.SettingsRepository
	automationRepo repository.AutomationRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	settingsRepo repository.SettingsRepository,
	automationRepo repository.AutomationRepository,
) *SettingsService {
	return &SettingsService{
		settingsRepo:   settingsRepo,
		automationRepo: automationRepo,
	}
}

// GetSettings returns the user's settings, or the all-enabled defaults when
// no row exists yet
func (s *SettingsService) GetSettings(ctx context.Context, userID int) (*models.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return models.DefaultUserSettings(userID), nil
	}
	return settings, nil
}

// UpdateSettings persists the toggles and force-disables every automation
// whose type was switched off, so disabled work cannot keep firing.
// Re-enabling a type does not re-enable its automations; those are turned
// back on individually.
func (s *SettingsService) UpdateSettings(ctx context.Context, settings *models.UserSettings) error {
	if settings.UserID == 0 {
		return &ValidationError{Message: "settings owner is required"}
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return err
	}

	disabled := settings.DisabledTypes()
	if len(disabled) > 0 {
		if err := s.automationRepo.SetEnabledForTypes(ctx, settings.UserID, disabled, false); err != nil {
			return err
		}
	}

	return nil
}
