package service

import (
	"context"
	"log"
	"time"

	"leadpilot/internal/models"
	"leadpilot/internal/repository"
)

// AutomationExecutor runs one automation against one event context and
// reports whether it fired
type AutomationExecutor interface {
	Execute(ctx context.Context, automation *models.Automation, ec *EventContext) bool
}

// ExecutorService runs a single automation end to end: gate checks, message
// composition, delivery, audit trail, and stats.
type ExecutorService struct {
	leadRepo       repository.LeadRepository
	messageRepo    repository.MessageRepository
	automationRepo repository.AutomationRepository
	activityRepo   repository.ActivityRepository
	templates      *TemplateService
	sender         ChannelSender
}

// NewExecutorService creates a new executor service
func NewExecutorService(
	leadRepo repository.LeadRepository,
	messageRepo repository.MessageRepository,
	automationRepo repository.AutomationRepository,
	activityRepo repository.ActivityRepository,
	templates *TemplateService,
	sender ChannelSender,
) *ExecutorService {
	return &ExecutorService{
		leadRepo:       leadRepo,
		messageRepo:    messageRepo,
		automationRepo: automationRepo,
		activityRepo:   activityRepo,
		templates:      templates,
		sender:         sender,
	}
}

// Execute runs one automation against the event context. It returns true
// only when the automation actually performed its action. A panic inside an
// automation is contained here and reported as not fired.
func (s *ExecutorService) Execute(ctx context.Context, automation *models.Automation, ec *EventContext) (fired bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Automation %d panicked: %v", automation.ID, r)
			fired = false
		}
	}()

	if automation == nil || ec == nil {
		return false
	}

	if !automation.ShouldTrigger(ec.Extras) {
		return false
	}

	if !s.delayElapsed(automation, ec) {
		return false
	}

	switch automation.Type {
	case models.AutomationLeadFollowup:
		return s.runMessageAutomation(ctx, automation, ec, "follow-up", true)
	case models.AutomationBookingReminder:
		return s.runMessageAutomation(ctx, automation, ec, "booking reminder", false)
	case models.AutomationConfirmation:
		return s.runMessageAutomation(ctx, automation, ec, "confirmation", false)
	case models.AutomationPostSession:
		return s.runMessageAutomation(ctx, automation, ec, "post-session follow-up", false)
	case models.AutomationNoShowFollowup:
		return s.runMessageAutomation(ctx, automation, ec, "no-show follow-up", false)
	case models.AutomationCRMUpdate:
		return s.runCRMUpdate(ctx, automation, ec)
	default:
		log.Printf("Automation %d has unknown type %s, skipping", automation.ID, automation.Type)
		return false
	}
}

// delayElapsed checks the configured delay against the trigger's reference
// time. Scheduled booking reminders enforce their window in the scanner, so
// they always pass here.
func (s *ExecutorService) delayElapsed(automation *models.Automation, ec *EventContext) bool {
	if !automation.HasDelay() {
		return true
	}

	now := time.Now()
	reference := now

	switch automation.Trigger {
	case models.TriggerNewLead:
		if ec.Lead != nil {
			reference = ec.Lead.CreatedAt
		}
	case models.TriggerNoContactDays:
		if ec.Lead != nil {
			if ec.Lead.LastContacted != nil {
				reference = *ec.Lead.LastContacted
			} else {
				reference = ec.Lead.CreatedAt
			}
		}
	case models.TriggerBookingReminderHours:
		return true
	}

	return now.Sub(reference) >= automation.Delay()
}

// runMessageAutomation creates a pending outbound message, attempts delivery,
// records the final status and audit entry, and bumps stats. The lead's
// last_contacted timestamp moves on every follow-up attempt, delivered or
// not, so the stale-lead scan does not pick the same lead again next cycle.
func (s *ExecutorService) runMessageAutomation(ctx context.Context, automation *models.Automation, ec *EventContext, kind string, touchContact bool) bool {
	lead := ec.Lead
	if lead == nil {
		log.Printf("Automation %d needs a lead, skipping", automation.ID)
		return false
	}

	content, aiGenerated := s.templates.Compose(ctx, automation, lead, kind)

	message := &models.Message{
		UserID:      automation.UserID,
		LeadID:      lead.ID,
		Channel:     automation.Channel,
		Direction:   models.DirectionOutbound,
		Content:     content,
		Status:      models.MessageStatusPending,
		AIGenerated: aiGenerated,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		log.Printf("Automation %d failed to create message: %v", automation.ID, err)
		return false
	}

	recipient := lead.Email
	if automation.Channel != models.ChannelEmail {
		recipient = lead.PhoneNumber()
	}

	delivered := s.sender.Send(ctx, automation.UserID, automation.Channel, recipient, content)

	status := models.MessageStatusSent
	if !delivered {
		status = models.MessageStatusFailed
	}
	if err := s.messageRepo.UpdateStatus(ctx, message.ID, status); err != nil {
		log.Printf("Failed to update message %d status: %v", message.ID, err)
	}

	if touchContact {
		if err := s.leadRepo.TouchLastContacted(ctx, automation.UserID, lead.ID, time.Now()); err != nil {
			log.Printf("Failed to touch last_contacted for lead %d: %v", lead.ID, err)
		}
	}

	details := models.Details{
		"automation_id":   automation.ID,
		"automation_name": automation.Name,
		"message_id":      message.ID,
		"delivered":       delivered,
	}
	if ec.Booking != nil {
		details["booking_id"] = ec.Booking.ID
	}
	s.recordActivity(ctx, &models.Activity{
		UserID:      automation.UserID,
		Type:        models.ActivityAutomationRan,
		Description: "Automation '" + automation.Name + "' sent a " + kind + " message",
		Channel:     automation.Channel,
		LeadID:      &lead.ID,
		Details:     details,
	})

	s.recordTriggered(ctx, automation)
	return true
}

// runCRMUpdate records a CRM-side change in the audit trail. No message is
// sent for this type.
func (s *ExecutorService) runCRMUpdate(ctx context.Context, automation *models.Automation, ec *EventContext) bool {
	lead := ec.Lead
	if lead == nil {
		log.Printf("Automation %d needs a lead, skipping", automation.ID)
		return false
	}

	details := models.Details{
		"automation_id":   automation.ID,
		"automation_name": automation.Name,
	}
	for key, value := range ec.Extras {
		details[key] = value
	}
	s.recordActivity(ctx, &models.Activity{
		UserID:      automation.UserID,
		Type:        models.ActivityCRMUpdated,
		Description: "Automation '" + automation.Name + "' logged a CRM update",
		LeadID:      &lead.ID,
		Details:     details,
	})

	s.recordTriggered(ctx, automation)
	return true
}

func (s *ExecutorService) recordActivity(ctx context.Context, activity *models.Activity) {
	if err := s.activityRepo.Create(ctx, activity); err != nil {
		log.Printf("Failed to record activity: %v", err)
	}
}

func (s *ExecutorService) recordTriggered(ctx context.Context, automation *models.Automation) {
	if err := s.automationRepo.RecordTriggered(ctx, automation.ID, time.Now()); err != nil {
		log.Printf("Failed to record trigger stats for automation %d: %v", automation.ID, err)
	}
}
