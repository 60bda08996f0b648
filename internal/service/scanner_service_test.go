package service

import (
	"context"
	"testing"
	"time"

	"leadpilot/internal/models"
)

func newScannerForTest(executor AutomationExecutor) (*ScannerService, *MockAutomationRepository, *MockLeadRepository, *MockBookingRepository) {
	automations := NewMockAutomationRepository()
	leads := NewMockLeadRepository()
	bookings := NewMockBookingRepository()
	return NewScannerService(automations, leads, bookings, executor), automations, leads, bookings
}

func TestScanFiresStaleLeadRule(t *testing.T) {
	executor := &MockExecutor{}
	scanner, automations, leads, _ := newScannerForTest(executor)

	rule := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNoContactDays)
	rule.DelayDays = 3
	automations.ListEnabledByTriggersFunc = func(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
		return []*models.Automation{rule}, nil
	}

	stale := newTestLead()
	stale.Status = models.LeadStatusContacted
	stale.LastContacted = timePtr(time.Now().Add(-5 * 24 * time.Hour))

	var gotCutoff time.Time
	var gotStatuses []models.LeadStatus
	leads.ListNotContactedSinceFunc = func(ctx context.Context, userID int, statuses []models.LeadStatus, cutoff time.Time) ([]*models.Lead, error) {
		gotCutoff = cutoff
		gotStatuses = statuses
		return []*models.Lead{stale}, nil
	}

	fired := scanner.Scan(context.Background())

	AssertEqual(t, fired, 1)
	AssertEqual(t, len(gotStatuses), 3)

	wantCutoff := time.Now().AddDate(0, 0, -3)
	if gotCutoff.Sub(wantCutoff) > time.Minute || wantCutoff.Sub(gotCutoff) > time.Minute {
		t.Errorf("Expected cutoff near %v but got %v", wantCutoff, gotCutoff)
	}
}

func TestScanSubDayRuleScansWithCutoffNow(t *testing.T) {
	executor := &MockExecutor{}
	scanner, automations, leads, _ := newScannerForTest(executor)

	rule := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNoContactDays)
	rule.DelayHours = 12
	automations.ListEnabledByTriggersFunc = func(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
		return []*models.Automation{rule}, nil
	}

	var gotCutoff time.Time
	leads.ListNotContactedSinceFunc = func(ctx context.Context, userID int, statuses []models.LeadStatus, cutoff time.Time) ([]*models.Lead, error) {
		gotCutoff = cutoff
		return []*models.Lead{}, nil
	}

	scanner.Scan(context.Background())

	AssertEqual(t, leads.Calls["ListNotContactedSince"], 1)
	now := time.Now()
	if now.Sub(gotCutoff) > time.Minute || gotCutoff.Sub(now) > time.Minute {
		t.Errorf("Expected a sub-day rule to use a cutoff of now, got %v", gotCutoff)
	}
}

func TestScanSubDayRuleGatedByExecutorDelay(t *testing.T) {
	// The scan lists every contacted lead for a 12h rule; the executor's
	// delay gate decides which of them have actually been quiet long enough.
	leads := NewMockLeadRepository()
	messages := NewMockMessageRepository()
	automations := NewMockAutomationRepository()
	activities := NewMockActivityRepository()
	executor := NewExecutorService(leads, messages, automations, activities, NewTemplateService(nil), &MockSender{})
	bookings := NewMockBookingRepository()
	scanner := NewScannerService(automations, leads, bookings, executor)

	rule := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNoContactDays)
	rule.DelayHours = 12
	automations.ListEnabledByTriggersFunc = func(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
		return []*models.Automation{rule}, nil
	}

	quiet := newTestLead()
	quiet.Status = models.LeadStatusContacted
	quiet.LastContacted = timePtr(time.Now().Add(-5 * 24 * time.Hour))

	recent := newTestLead()
	recent.ID = 2
	recent.Status = models.LeadStatusContacted
	recent.LastContacted = timePtr(time.Now().Add(-6 * time.Hour))

	leads.ListNotContactedSinceFunc = func(ctx context.Context, userID int, statuses []models.LeadStatus, cutoff time.Time) ([]*models.Lead, error) {
		return []*models.Lead{quiet, recent}, nil
	}

	AssertEqual(t, scanner.Scan(context.Background()), 1)
	AssertEqual(t, len(messages.Created), 1)
	AssertEqual(t, messages.Created[0].LeadID, quiet.ID)
}

func TestScanStaleLeadRuleWithoutDelayDoesNothing(t *testing.T) {
	executor := &MockExecutor{}
	scanner, automations, leads, _ := newScannerForTest(executor)

	rule := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNoContactDays)
	automations.ListEnabledByTriggersFunc = func(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
		return []*models.Automation{rule}, nil
	}

	fired := scanner.Scan(context.Background())

	AssertEqual(t, fired, 0)
	AssertEqual(t, leads.Calls["ListNotContactedSince"], 0)
}

func TestScanHoursConvertToWholeDays(t *testing.T) {
	executor := &MockExecutor{}
	scanner, automations, leads, _ := newScannerForTest(executor)

	rule := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNoContactDays)
	rule.DelayHours = 72
	automations.ListEnabledByTriggersFunc = func(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
		return []*models.Automation{rule}, nil
	}

	var gotCutoff time.Time
	leads.ListNotContactedSinceFunc = func(ctx context.Context, userID int, statuses []models.LeadStatus, cutoff time.Time) ([]*models.Lead, error) {
		gotCutoff = cutoff
		return []*models.Lead{}, nil
	}

	scanner.Scan(context.Background())

	wantCutoff := time.Now().AddDate(0, 0, -3)
	if gotCutoff.Sub(wantCutoff) > time.Minute || wantCutoff.Sub(gotCutoff) > time.Minute {
		t.Errorf("Expected 72h rule to use a 3-day cutoff, got %v", gotCutoff)
	}
}

func TestScanBookingReminderWindow(t *testing.T) {
	executor := &MockExecutor{}
	scanner, automations, leads, bookings := newScannerForTest(executor)

	rule := newTestAutomation(models.AutomationBookingReminder, models.TriggerBookingReminderHours)
	rule.DelayHours = 24
	automations.ListEnabledByTriggersFunc = func(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
		return []*models.Automation{rule}, nil
	}

	upcoming := newTestBooking()
	var gotFrom, gotUntil time.Time
	bookings.ListUpcomingUnremindedFunc = func(ctx context.Context, userID int, from, until time.Time) ([]*models.Booking, error) {
		gotFrom = from
		gotUntil = until
		return []*models.Booking{upcoming}, nil
	}

	fired := scanner.Scan(context.Background())

	AssertEqual(t, fired, 1)
	AssertEqual(t, leads.Calls["GetByID"], 1)
	AssertEqual(t, bookings.Calls["MarkReminderSent"], 1)

	if window := gotUntil.Sub(gotFrom); window != 24*time.Hour {
		t.Errorf("Expected a 24h window but got %v", window)
	}
}

func TestScanBookingReminderSkippedWhenNotFired(t *testing.T) {
	executor := &MockExecutor{}
	executor.ExecuteFunc = func(ctx context.Context, automation *models.Automation, ec *EventContext) bool {
		return false
	}
	scanner, automations, _, bookings := newScannerForTest(executor)

	rule := newTestAutomation(models.AutomationBookingReminder, models.TriggerBookingReminderHours)
	rule.DelayHours = 24
	automations.ListEnabledByTriggersFunc = func(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
		return []*models.Automation{rule}, nil
	}
	bookings.ListUpcomingUnremindedFunc = func(ctx context.Context, userID int, from, until time.Time) ([]*models.Booking, error) {
		return []*models.Booking{newTestBooking()}, nil
	}

	fired := scanner.Scan(context.Background())

	AssertEqual(t, fired, 0)
	AssertEqual(t, bookings.Calls["MarkReminderSent"], 0)
}

func TestScanBookingReminderWithoutWindowDoesNothing(t *testing.T) {
	executor := &MockExecutor{}
	scanner, automations, _, bookings := newScannerForTest(executor)

	rule := newTestAutomation(models.AutomationBookingReminder, models.TriggerBookingReminderHours)
	automations.ListEnabledByTriggersFunc = func(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
		return []*models.Automation{rule}, nil
	}

	fired := scanner.Scan(context.Background())

	AssertEqual(t, fired, 0)
	AssertEqual(t, bookings.Calls["ListUpcomingUnreminded"], 0)
}

func TestScanDedupViaExecutorBump(t *testing.T) {
	// End to end through the real executor: firing a no_contact_days rule
	// bumps last_contacted, so the lead drops out of the next scan window.
	leads := NewMockLeadRepository()
	messages := NewMockMessageRepository()
	automations := NewMockAutomationRepository()
	activities := NewMockActivityRepository()
	executor := NewExecutorService(leads, messages, automations, activities, NewTemplateService(nil), &MockSender{})
	bookings := NewMockBookingRepository()
	scanner := NewScannerService(automations, leads, bookings, executor)

	rule := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNoContactDays)
	rule.DelayDays = 3
	automations.ListEnabledByTriggersFunc = func(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
		return []*models.Automation{rule}, nil
	}

	stale := newTestLead()
	stale.Status = models.LeadStatusContacted
	stale.LastContacted = timePtr(time.Now().Add(-5 * 24 * time.Hour))

	leads.ListNotContactedSinceFunc = func(ctx context.Context, userID int, statuses []models.LeadStatus, cutoff time.Time) ([]*models.Lead, error) {
		if stale.LastContacted != nil && stale.LastContacted.Before(cutoff) {
			return []*models.Lead{stale}, nil
		}
		return []*models.Lead{}, nil
	}
	leads.TouchLastContactedFunc = func(ctx context.Context, userID, id int, at time.Time) error {
		stale.LastContacted = &at
		return nil
	}

	AssertEqual(t, scanner.Scan(context.Background()), 1)
	AssertEqual(t, scanner.Scan(context.Background()), 0)
}
