package service

import (
	"context"

	"leadpilot/internal/models"
	"leadpilot/internal/repository"
)

// CRMService provides the read side of leads, bookings, messages and the
// activity feed. Mutations that can fire automations live on EventService.
type CRMService struct {
	leadRepo     repository.LeadRepository
	bookingRepo  repository.BookingRepository
	messageRepo  repository.MessageRepository
	activityRepo repository.ActivityRepository
}

// NewCRMService creates a new CRM read service
func NewCRMService(
	leadRepo repository.LeadRepository,
	bookingRepo repository.BookingRepository,
	messageRepo repository.MessageRepository,
	activityRepo repository.ActivityRepository,
) *CRMService {
	return &CRMService{
		leadRepo:     leadRepo,
		bookingRepo:  bookingRepo,
		messageRepo:  messageRepo,
		activityRepo: activityRepo,
	}
}

// GetLead retrieves one lead owned by the user
func (s *CRMService) GetLead(ctx context.Context, userID, id int) (*models.Lead, error) {
	lead, err := s.leadRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, &NotFoundError{Resource: "lead", ID: id}
	}
	return lead, nil
}

// ListLeads retrieves the user's leads with pagination
func (s *CRMService) ListLeads(ctx context.Context, userID, limit, offset int) ([]*models.Lead, error) {
	return s.leadRepo.List(ctx, userID, limit, offset)
}

// GetBooking retrieves one booking owned by the user
func (s *CRMService) GetBooking(ctx context.Context, userID, id int) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, &NotFoundError{Resource: "booking", ID: id}
	}
	return booking, nil
}

// ListMessagesByLead retrieves the message history with one lead
func (s *CRMService) ListMessagesByLead(ctx context.Context, userID, leadID, limit, offset int) ([]*models.Message, error) {
	return s.messageRepo.ListByLead(ctx, userID, leadID, limit, offset)
}

// ListActivities retrieves the user's audit trail, newest first
func (s *CRMService) ListActivities(ctx context.Context, userID, limit, offset int) ([]*models.Activity, error) {
	return s.activityRepo.List(ctx, userID, limit, offset)
}
