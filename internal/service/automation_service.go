package service

import (
	"context"

	"leadpilot/internal/models"
	"leadpilot/internal/repository"
)

// AutomationService handles automation rule management and on-demand runs
type AutomationService struct {
	automationRepo repository.AutomationRepository
	leadRepo       repository.LeadRepository
	executor       AutomationExecutor
}

// NewAutomationService creates a new automation service
func NewAutomationService(
	automationRepo repository.AutomationRepository,
	leadRepo repository.LeadRepository,
	executor AutomationExecutor,
) *AutomationService {
	return &AutomationService{
		automationRepo: automationRepo,
		leadRepo:       leadRepo,
		executor:       executor,
	}
}

// CreateAutomation validates and persists a new automation rule
func (s *AutomationService) CreateAutomation(ctx context.Context, automation *models.Automation) error {
	if err := automation.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return s.automationRepo.Create(ctx, automation)
}

// GetAutomation retrieves one automation owned by the user
func (s *AutomationService) GetAutomation(ctx context.Context, userID, id int) (*models.Automation, error) {
	automation, err := s.automationRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if automation == nil {
		return nil, &NotFoundError{Resource: "automation", ID: id}
	}
	return automation, nil
}

// ListAutomations retrieves all automations owned by the user
func (s *AutomationService) ListAutomations(ctx context.Context, userID int) ([]*models.Automation, error) {
	return s.automationRepo.List(ctx, userID)
}

// UpdateAutomation validates and persists changes to an existing rule
func (s *AutomationService) UpdateAutomation(ctx context.Context, automation *models.Automation) error {
	if err := automation.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	existing, err := s.automationRepo.GetByID(ctx, automation.UserID, automation.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return &NotFoundError{Resource: "automation", ID: automation.ID}
	}

	return s.automationRepo.Update(ctx, automation)
}

// DeleteAutomation removes an automation rule
func (s *AutomationService) DeleteAutomation(ctx context.Context, userID, id int) error {
	existing, err := s.automationRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return &NotFoundError{Resource: "automation", ID: id}
	}
	return s.automationRepo.Delete(ctx, userID, id)
}

// RunNow executes one automation immediately against an optional lead. The
// usual gates still apply, so a rule whose conditions or delay are not met
// reports fired=false without error.
func (s *AutomationService) RunNow(ctx context.Context, userID, id, leadID int) (bool, error) {
	automation, err := s.GetAutomation(ctx, userID, id)
	if err != nil {
		return false, err
	}

	ec := &EventContext{UserID: userID}
	if leadID != 0 {
		lead, err := s.leadRepo.GetByID(ctx, userID, leadID)
		if err != nil {
			return false, err
		}
		if lead == nil {
			return false, &NotFoundError{Resource: "lead", ID: leadID}
		}
		ec.Lead = lead
	}

	return s.executor.Execute(ctx, automation, ec), nil
}
