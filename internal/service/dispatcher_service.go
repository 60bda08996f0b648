package service

import (
	"context"
	"log"

	"leadpilot/internal/models"
	"leadpilot/internal/repository"
)

// DispatcherService fans one business event out to the owner's matching
// automations, applying the per-user settings filters.
type DispatcherService struct {
	automationRepo repository.AutomationRepository
	settingsRepo   repository.SettingsRepository
	executor       AutomationExecutor
}

// NewDispatcherService creates a new dispatcher service
func NewDispatcherService(
	automationRepo repository.AutomationRepository,
	settingsRepo repository.SettingsRepository,
	executor AutomationExecutor,
) *DispatcherService {
	return &DispatcherService{
		automationRepo: automationRepo,
		settingsRepo:   settingsRepo,
		executor:       executor,
	}
}

// Dispatch runs every enabled automation of the event's owner that listens
// on the trigger and returns how many fired. One automation failing never
// stops the rest.
func (s *DispatcherService) Dispatch(ctx context.Context, trigger models.Trigger, ec *EventContext) int {
	if ec == nil || ec.UserID == 0 {
		return 0
	}

	automations, err := s.automationRepo.ListEnabledByTrigger(ctx, ec.UserID, trigger)
	if err != nil {
		log.Printf("Failed to list automations for trigger %s: %v", trigger, err)
		return 0
	}
	if len(automations) == 0 {
		return 0
	}

	settings := s.loadSettings(ctx, ec.UserID)

	fired := 0
	for _, automation := range automations {
		if !settings.TypeEnabled(automation.Type) {
			continue
		}
		if !settings.ChannelEnabled(automation.Channel) {
			log.Printf("Skipping automation %d: channel %s disabled for user %d",
				automation.ID, automation.Channel, ec.UserID)
			continue
		}
		if s.executor.Execute(ctx, automation, ec) {
			fired++
		}
	}

	return fired
}

// loadSettings fetches the owner's settings, falling back to the all-enabled
// defaults when the row is missing or the lookup fails
func (s *DispatcherService) loadSettings(ctx context.Context, userID int) *models.UserSettings {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		log.Printf("Failed to load settings for user %d, using defaults: %v", userID, err)
		return models.DefaultUserSettings(userID)
	}
	if settings == nil {
		return models.DefaultUserSettings(userID)
	}
	return settings
}
