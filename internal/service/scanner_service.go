package service

import (
	"context"
	"log"
	"time"

	"leadpilot/internal/models"
	"leadpilot/internal/repository"
)

// contactableStatuses are the lead statuses the stale-lead scan considers.
// Converted and lost leads are never re-contacted automatically.
var contactableStatuses = []models.LeadStatus{
	models.LeadStatusNew,
	models.LeadStatusContacted,
	models.LeadStatusQualified,
}

// ScannerService finds work for the time-driven triggers: stale leads for
// no_contact_days rules and upcoming bookings for booking_reminder_hours
// rules. It is meant to run on a fixed interval from the worker.
type ScannerService struct {
	automationRepo repository.AutomationRepository
	leadRepo       repository.LeadRepository
	bookingRepo    repository.BookingRepository
	executor       AutomationExecutor
}

// NewScannerService creates a new scanner service
func NewScannerService(
	automationRepo repository.AutomationRepository,
	leadRepo repository.LeadRepository,
	bookingRepo repository.BookingRepository,
	executor AutomationExecutor,
) *ScannerService {
	return &ScannerService{
		automationRepo: automationRepo,
		leadRepo:       leadRepo,
		bookingRepo:    bookingRepo,
		executor:       executor,
	}
}

// Scan runs one pass over all scheduled automations across all users and
// returns how many fired
func (s *ScannerService) Scan(ctx context.Context) int {
	automations, err := s.automationRepo.ListEnabledByTriggers(ctx, models.ScheduledTriggers)
	if err != nil {
		log.Printf("Scan failed to list scheduled automations: %v", err)
		return 0
	}

	fired := 0
	for _, automation := range automations {
		switch automation.Trigger {
		case models.TriggerNoContactDays:
			fired += s.scanStaleLeads(ctx, automation)
		case models.TriggerBookingReminderHours:
			fired += s.scanUpcomingBookings(ctx, automation)
		}
	}

	if fired > 0 {
		log.Printf("Scan fired %d automation(s)", fired)
	}
	return fired
}

// scanStaleLeads fires the automation for each lead of the owner that has
// gone quiet for at least the configured delay. The cutoff has whole-day
// granularity; a sub-day rule scans with a cutoff of now and relies on the
// executor's delay gate to enforce the hour window. A rule with no delay at
// all is skipped.
func (s *ScannerService) scanStaleLeads(ctx context.Context, automation *models.Automation) int {
	if !automation.HasDelay() {
		return 0
	}

	delayDays := automation.DelayDays
	if delayDays == 0 {
		delayDays = automation.DelayHours / 24
	}

	cutoff := time.Now().AddDate(0, 0, -delayDays)
	leads, err := s.leadRepo.ListNotContactedSince(ctx, automation.UserID, contactableStatuses, cutoff)
	if err != nil {
		log.Printf("Scan failed to list stale leads for automation %d: %v", automation.ID, err)
		return 0
	}

	fired := 0
	for _, lead := range leads {
		ec := &EventContext{
			UserID: automation.UserID,
			Lead:   lead,
		}
		if s.executor.Execute(ctx, automation, ec) {
			fired++
		}
	}
	return fired
}

// scanUpcomingBookings fires the automation for each booking starting within
// the configured reminder window that has not been reminded yet. The
// reminder_sent flag keeps each booking to a single reminder across scans.
func (s *ScannerService) scanUpcomingBookings(ctx context.Context, automation *models.Automation) int {
	window := automation.Delay()
	if window <= 0 {
		return 0
	}

	now := time.Now()
	bookings, err := s.bookingRepo.ListUpcomingUnreminded(ctx, automation.UserID, now, now.Add(window))
	if err != nil {
		log.Printf("Scan failed to list upcoming bookings for automation %d: %v", automation.ID, err)
		return 0
	}

	fired := 0
	for _, booking := range bookings {
		lead, err := s.leadRepo.GetByID(ctx, automation.UserID, booking.LeadID)
		if err != nil || lead == nil {
			log.Printf("Scan could not load lead %d for booking %d: %v", booking.LeadID, booking.ID, err)
			continue
		}

		ec := &EventContext{
			UserID:  automation.UserID,
			Lead:    lead,
			Booking: booking,
		}
		if s.executor.Execute(ctx, automation, ec) {
			if err := s.bookingRepo.MarkReminderSent(ctx, booking.ID, time.Now()); err != nil {
				log.Printf("Failed to mark reminder sent for booking %d: %v", booking.ID, err)
			}
			fired++
		}
	}
	return fired
}
