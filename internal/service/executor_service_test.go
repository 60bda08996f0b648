package service

import (
	"context"
	"testing"
	"time"

	"leadpilot/internal/models"
)

func TestExecuteSkipsDisabledAutomation(t *testing.T) {
	executor, _, messages, automations, _, sender := newExecutorForTest()

	automation := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNewLead)
	automation.Enabled = false

	fired := executor.Execute(context.Background(), automation, &EventContext{UserID: 1, Lead: newTestLead()})

	AssertFalse(t, fired, "disabled automation should not fire")
	AssertEqual(t, sender.SendCount, 0)
	AssertEqual(t, messages.Calls["Create"], 0)
	AssertEqual(t, automations.Calls["RecordTriggered"], 0)
}

func TestExecuteChecksConditionsExactly(t *testing.T) {
	executor, _, _, _, _, sender := newExecutorForTest()

	automation := newTestAutomation(models.AutomationLeadFollowup, models.TriggerLeadStatusChanged)
	automation.Conditions = models.Conditions{"new_status": "qualified"}

	ec := &EventContext{
		UserID: 1,
		Lead:   newTestLead(),
		Extras: map[string]string{"old_status": "new", "new_status": "contacted"},
	}
	AssertFalse(t, executor.Execute(context.Background(), automation, ec), "mismatched condition should not fire")
	AssertEqual(t, sender.SendCount, 0)

	ec.Extras["new_status"] = "qualified"
	AssertTrue(t, executor.Execute(context.Background(), automation, ec), "matching condition should fire")
	AssertEqual(t, sender.SendCount, 1)
}

func TestExecuteConditionMissingFromContext(t *testing.T) {
	executor, _, _, _, _, _ := newExecutorForTest()

	automation := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNewLead)
	automation.Conditions = models.Conditions{"source": "website"}

	ec := &EventContext{UserID: 1, Lead: newTestLead(), Extras: map[string]string{}}
	AssertFalse(t, executor.Execute(context.Background(), automation, ec), "absent condition key should not fire")
}

func TestExecuteDelayGateOnNewLead(t *testing.T) {
	executor, _, _, _, _, _ := newExecutorForTest()

	automation := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNewLead)
	automation.DelayDays = 3

	young := newTestLead()
	young.CreatedAt = time.Now().Add(-2 * 24 * time.Hour)
	AssertFalse(t, executor.Execute(context.Background(), automation, &EventContext{UserID: 1, Lead: young}),
		"delay not elapsed for a 2-day-old lead")

	old := newTestLead()
	old.CreatedAt = time.Now().Add(-4 * 24 * time.Hour)
	AssertTrue(t, executor.Execute(context.Background(), automation, &EventContext{UserID: 1, Lead: old}),
		"delay elapsed for a 4-day-old lead")
}

func TestExecuteDelayGateUsesLastContacted(t *testing.T) {
	executor, _, _, _, _, _ := newExecutorForTest()

	automation := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNoContactDays)
	automation.DelayDays = 3

	lead := newTestLead()
	lead.CreatedAt = time.Now().Add(-30 * 24 * time.Hour)
	lead.LastContacted = timePtr(time.Now().Add(-24 * time.Hour))

	AssertFalse(t, executor.Execute(context.Background(), automation, &EventContext{UserID: 1, Lead: lead}),
		"recently contacted lead should not fire despite old creation date")

	lead.LastContacted = timePtr(time.Now().Add(-5 * 24 * time.Hour))
	AssertTrue(t, executor.Execute(context.Background(), automation, &EventContext{UserID: 1, Lead: lead}),
		"lead quiet for 5 days should fire a 3-day rule")
}

func TestExecuteFollowupHappyPath(t *testing.T) {
	executor, leads, messages, automations, activities, sender := newExecutorForTest()

	automation := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNewLead)
	lead := newTestLead()

	fired := executor.Execute(context.Background(), automation, &EventContext{UserID: 1, Lead: lead})

	AssertTrue(t, fired, "follow-up should fire")
	AssertEqual(t, len(messages.Created), 1)

	msg := messages.Created[0]
	AssertEqual(t, msg.Status, models.MessageStatusPending)
	AssertEqual(t, msg.Direction, models.DirectionOutbound)
	AssertEqual(t, msg.Content, "Hi Ana Torres!")
	AssertFalse(t, msg.AIGenerated, "template content is not AI generated")

	AssertEqual(t, messages.Statuses[msg.ID], models.MessageStatusSent)
	AssertEqual(t, sender.LastRecipient, "ana@example.com")
	AssertEqual(t, leads.Calls["TouchLastContacted"], 1)
	AssertEqual(t, automations.Calls["RecordTriggered"], 1)

	AssertEqual(t, len(activities.Created), 1)
	AssertEqual(t, activities.Created[0].Type, models.ActivityAutomationRan)
	AssertContains(t, activities.Created[0].Description, automation.Name)
}

func TestExecuteFollowupDeliveryFailure(t *testing.T) {
	executor, leads, messages, _, _, sender := newExecutorForTest()
	sender.SendFunc = func(ctx context.Context, userID int, channel models.Channel, recipient, content string) bool {
		return false
	}

	automation := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNewLead)

	fired := executor.Execute(context.Background(), automation, &EventContext{UserID: 1, Lead: newTestLead()})

	AssertTrue(t, fired, "automation ran even though delivery failed")
	AssertEqual(t, messages.Statuses[messages.Created[0].ID], models.MessageStatusFailed)
	AssertEqual(t, leads.Calls["TouchLastContacted"], 1)
}

func TestExecuteSMSUsesPhoneRecipient(t *testing.T) {
	executor, _, _, _, _, sender := newExecutorForTest()

	automation := newTestAutomation(models.AutomationNoShowFollowup, models.TriggerNoShow)
	automation.Channel = models.ChannelSMS

	lead := newTestLead()
	fired := executor.Execute(context.Background(), automation, &EventContext{UserID: 1, Lead: lead})

	AssertTrue(t, fired, "no-show follow-up should fire")
	AssertEqual(t, sender.LastChannel, models.ChannelSMS)
	AssertEqual(t, sender.LastRecipient, "+254700100101")
}

func TestExecuteBookingReminderDoesNotTouchLead(t *testing.T) {
	executor, leads, messages, _, activities, _ := newExecutorForTest()

	automation := newTestAutomation(models.AutomationBookingReminder, models.TriggerBookingReminderHours)
	automation.DelayHours = 24

	ec := &EventContext{UserID: 1, Lead: newTestLead(), Booking: newTestBooking()}
	fired := executor.Execute(context.Background(), automation, ec)

	AssertTrue(t, fired, "booking reminder should fire regardless of delay gate")
	AssertEqual(t, leads.Calls["TouchLastContacted"], 0)
	AssertEqual(t, len(messages.Created), 1)
	AssertEqual(t, activities.Created[0].Details["booking_id"], newTestBooking().ID)
}

func TestExecuteCRMUpdate(t *testing.T) {
	executor, _, messages, automations, activities, sender := newExecutorForTest()

	automation := newTestAutomation(models.AutomationCRMUpdate, models.TriggerLeadStatusChanged)
	ec := &EventContext{
		UserID: 1,
		Lead:   newTestLead(),
		Extras: map[string]string{"old_status": "new", "new_status": "qualified"},
	}

	fired := executor.Execute(context.Background(), automation, ec)

	AssertTrue(t, fired, "crm_update should fire")
	AssertEqual(t, sender.SendCount, 0)
	AssertEqual(t, len(messages.Created), 0)
	AssertEqual(t, automations.Calls["RecordTriggered"], 1)

	AssertEqual(t, len(activities.Created), 1)
	AssertEqual(t, activities.Created[0].Type, models.ActivityCRMUpdated)
	AssertEqual(t, activities.Created[0].Details["new_status"], "qualified")
}

func TestExecuteRequiresLead(t *testing.T) {
	executor, _, messages, _, _, _ := newExecutorForTest()

	automation := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNewLead)
	fired := executor.Execute(context.Background(), automation, &EventContext{UserID: 1})

	AssertFalse(t, fired, "message automation without a lead should not fire")
	AssertEqual(t, len(messages.Created), 0)
}

func TestExecuteUnknownTypeSkipped(t *testing.T) {
	executor, _, messages, automations, _, _ := newExecutorForTest()

	automation := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNewLead)
	automation.Type = "mystery_type"

	fired := executor.Execute(context.Background(), automation, &EventContext{UserID: 1, Lead: newTestLead()})

	AssertFalse(t, fired, "unknown type should be skipped")
	AssertEqual(t, len(messages.Created), 0)
	AssertEqual(t, automations.Calls["RecordTriggered"], 0)
}

func TestExecuteContainsPanic(t *testing.T) {
	executor, _, messages, _, _, _ := newExecutorForTest()
	messages.CreateFunc = func(ctx context.Context, message *models.Message) error {
		panic("repository blew up")
	}

	automation := newTestAutomation(models.AutomationLeadFollowup, models.TriggerNewLead)
	fired := executor.Execute(context.Background(), automation, &EventContext{UserID: 1, Lead: newTestLead()})

	AssertFalse(t, fired, "panicking automation must report not fired")
}
