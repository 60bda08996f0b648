package service

import (
	"context"
	"log"

	"leadpilot/internal/models"
	"leadpilot/internal/queue"
	"leadpilot/internal/repository"
)

// TriggerDispatcher fans a trigger out to matching automations
type TriggerDispatcher interface {
	Dispatch(ctx context.Context, trigger models.Trigger, ec *EventContext) int
}

// TriggerPublisher hands a trigger job to the queue for asynchronous
// processing by the worker
type TriggerPublisher interface {
	PublishTrigger(job *queue.TriggerJob) error
}

// EventService owns every state change that can fire automations. Each
// mutation persists first, then emits its trigger exactly once. Emission
// prefers the queue; if no publisher is configured or publishing fails, the
// event is dispatched synchronously so it is never lost.
type EventService struct {
	leadRepo    repository.LeadRepository
	bookingRepo repository.BookingRepository
	messageRepo repository.MessageRepository
	dispatcher  TriggerDispatcher
	publisher   TriggerPublisher
}

// NewEventService creates a new event service. The publisher may be nil, in
// which case all triggers dispatch synchronously.
func NewEventService(
	leadRepo repository.LeadRepository,
	bookingRepo repository.BookingRepository,
	messageRepo repository.MessageRepository,
	dispatcher TriggerDispatcher,
	publisher TriggerPublisher,
) *EventService {
	return &EventService{
		leadRepo:    leadRepo,
		bookingRepo: bookingRepo,
		messageRepo: messageRepo,
		dispatcher:  dispatcher,
		publisher:   publisher,
	}
}

// CreateLead persists a new lead and emits the new_lead trigger
func (s *EventService) CreateLead(ctx context.Context, lead *models.Lead) error {
	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}
	if err := lead.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return err
	}

	s.emit(ctx, models.TriggerNewLead, &EventContext{
		UserID: lead.UserID,
		Lead:   lead,
		Extras: map[string]string{
			"source": lead.Source,
			"status": string(lead.Status),
		},
	})
	return nil
}

// TransitionLeadStatus moves a lead to a new status and emits
// lead_status_changed. Transitioning to the current status is a no-op and
// emits nothing.
func (s *EventService) TransitionLeadStatus(ctx context.Context, userID, leadID int, newStatus models.LeadStatus) (*models.Lead, error) {
	if !newStatus.Valid() {
		return nil, &ValidationError{Message: "invalid lead status: " + string(newStatus)}
	}

	lead, err := s.leadRepo.GetByID(ctx, userID, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, &NotFoundError{Resource: "lead", ID: leadID}
	}

	if lead.Status == newStatus {
		return lead, nil
	}

	oldStatus := lead.Status
	lead.Status = newStatus
	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}

	s.emit(ctx, models.TriggerLeadStatusChanged, &EventContext{
		UserID: userID,
		Lead:   lead,
		Extras: map[string]string{
			"old_status": string(oldStatus),
			"new_status": string(newStatus),
		},
	})
	return lead, nil
}

// CreateBooking persists a new booking and emits the booking_created trigger
func (s *EventService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if booking.Status == "" {
		booking.Status = models.BookingStatusScheduled
	}
	if err := booking.Validate(); err != nil {
		return &ValidationError{Message: err.Error()}
	}

	lead, err := s.leadRepo.GetByID(ctx, booking.UserID, booking.LeadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return &NotFoundError{Resource: "lead", ID: booking.LeadID}
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return err
	}

	s.emit(ctx, models.TriggerBookingCreated, &EventContext{
		UserID:  booking.UserID,
		Lead:    lead,
		Booking: booking,
	})
	return nil
}

// TransitionBookingStatus moves a booking to a new status and emits the
// matching trigger, if any. Confirming a booking emits nothing. Transitioning
// to the current status is a no-op and emits nothing.
func (s *EventService) TransitionBookingStatus(ctx context.Context, userID, bookingID int, newStatus models.BookingStatus) (*models.Booking, error) {
	if !newStatus.Valid() {
		return nil, &ValidationError{Message: "invalid booking status: " + string(newStatus)}
	}

	booking, err := s.bookingRepo.GetByID(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, &NotFoundError{Resource: "booking", ID: bookingID}
	}

	if booking.Status == newStatus {
		return booking, nil
	}

	oldStatus := booking.Status
	booking.Status = newStatus
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, err
	}

	lead, err := s.leadRepo.GetByID(ctx, userID, booking.LeadID)
	if err != nil || lead == nil {
		log.Printf("Could not load lead %d for booking %d: %v", booking.LeadID, booking.ID, err)
	}

	ec := &EventContext{
		UserID:  userID,
		Lead:    lead,
		Booking: booking,
		Extras: map[string]string{
			"old_status": string(oldStatus),
			"new_status": string(newStatus),
		},
	}

	switch newStatus {
	case models.BookingStatusCompleted:
		s.emit(ctx, models.TriggerSessionCompleted, ec)
	case models.BookingStatusCancelled:
		s.emit(ctx, models.TriggerBookingCancelled, ec)
	case models.BookingStatusNoShow:
		s.emit(ctx, models.TriggerNoShow, ec)
	}

	return booking, nil
}

// RecordInboundMessage stores a message received from a lead and emits the
// message_received trigger. Inbound messages are already delivered, so they
// are stored with status sent.
func (s *EventService) RecordInboundMessage(ctx context.Context, message *models.Message) error {
	if message.UserID == 0 {
		return &ValidationError{Message: "message owner is required"}
	}
	if message.LeadID == 0 {
		return &ValidationError{Message: "message lead is required"}
	}
	if !message.Channel.Valid() {
		return &ValidationError{Message: "invalid channel: " + string(message.Channel)}
	}
	if message.Content == "" {
		return &ValidationError{Message: "message content is required"}
	}

	lead, err := s.leadRepo.GetByID(ctx, message.UserID, message.LeadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return &NotFoundError{Resource: "lead", ID: message.LeadID}
	}

	message.Direction = models.DirectionInbound
	message.Status = models.MessageStatusSent
	message.AIGenerated = false
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return err
	}

	s.emit(ctx, models.TriggerMessageReceived, &EventContext{
		UserID:  message.UserID,
		Lead:    lead,
		Message: message,
		Extras: map[string]string{
			"channel": string(message.Channel),
		},
	})
	return nil
}

// emit publishes the trigger to the queue, falling back to a synchronous
// dispatch when publishing is unavailable or fails
func (s *EventService) emit(ctx context.Context, trigger models.Trigger, ec *EventContext) {
	if s.publisher != nil {
		job := &queue.TriggerJob{
			Trigger: string(trigger),
			UserID:  ec.UserID,
			Extras:  ec.Extras,
		}
		if ec.Lead != nil {
			job.LeadID = ec.Lead.ID
		}
		if ec.Booking != nil {
			job.BookingID = ec.Booking.ID
		}
		if ec.Message != nil {
			job.MessageID = ec.Message.ID
		}

		err := s.publisher.PublishTrigger(job)
		if err == nil {
			return
		}
		log.Printf("Failed to publish trigger %s, dispatching synchronously: %v", trigger, err)
	}

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, trigger, ec)
	}
}
