package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// AutomationType represents the kind of reaction an automation performs
type AutomationType string

const (
	AutomationLeadFollowup    AutomationType = "lead_followup"
	AutomationBookingReminder AutomationType = "booking_reminder"
	AutomationConfirmation    AutomationType = "confirmation"
	AutomationPostSession     AutomationType = "post_session"
	AutomationCRMUpdate       AutomationType = "crm_update"
	AutomationNoShowFollowup  AutomationType = "no_show_followup"
)

// Valid checks if the automation type is one of the known values
func (t AutomationType) Valid() bool {
	switch t {
	case AutomationLeadFollowup, AutomationBookingReminder, AutomationConfirmation,
		AutomationPostSession, AutomationCRMUpdate, AutomationNoShowFollowup:
		return true
	}
	return false
}

// Trigger represents a named business event that can fire automations
type Trigger string

const (
	TriggerNewLead              Trigger = "new_lead"
	TriggerLeadStatusChanged    Trigger = "lead_status_changed"
	TriggerNoContactDays        Trigger = "no_contact_days"
	TriggerBookingCreated       Trigger = "booking_created"
	TriggerBookingReminderHours Trigger = "booking_reminder_hours"
	TriggerBookingCancelled     Trigger = "booking_cancelled"
	TriggerSessionCompleted     Trigger = "session_completed"
	TriggerNoShow               Trigger = "no_show"
	TriggerMessageReceived      Trigger = "message_received"
)

// Valid checks if the trigger is one of the known values
func (t Trigger) Valid() bool {
	switch t {
	case TriggerNewLead, TriggerLeadStatusChanged, TriggerNoContactDays,
		TriggerBookingCreated, TriggerBookingReminderHours, TriggerBookingCancelled,
		TriggerSessionCompleted, TriggerNoShow, TriggerMessageReceived:
		return true
	}
	return false
}

// ScheduledTriggers are the time-driven triggers handled by the scanner
// rather than by a direct business event.
var ScheduledTriggers = []Trigger{TriggerNoContactDays, TriggerBookingReminderHours}

// Channel represents valid messaging channels
type Channel string

const (
	ChannelEmail     Channel = "email"
	ChannelSMS       Channel = "sms"
	ChannelWhatsApp  Channel = "whatsapp"
	ChannelFacebook  Channel = "facebook"
	ChannelInstagram Channel = "instagram"
)

// Valid checks if the channel is one of the known values
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp, ChannelFacebook, ChannelInstagram:
		return true
	}
	return false
}

// Conditions is a mapping of context key to required value. All entries must
// match the event context exactly for the automation to fire.
type Conditions map[string]string

// Value implements driver.Valuer so conditions persist as JSONB
func (c Conditions) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner for reading JSONB conditions
func (c *Conditions) Scan(src interface{}) error {
	if src == nil {
		*c = Conditions{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan conditions from %T", src)
	}
	return json.Unmarshal(data, c)
}

// Automation represents one configured reaction to a trigger
type Automation struct {
	ID              int            `json:"id" db:"id"`
	UserID          int            `json:"user_id" db:"user_id"`
	Name            string         `json:"name" db:"name"`
	Type            AutomationType `json:"type" db:"type"`
	Enabled         bool           `json:"enabled" db:"enabled"`
	Trigger         Trigger        `json:"trigger" db:"trigger"`
	DelayHours      int            `json:"delay_hours" db:"delay_hours"`
	DelayDays       int            `json:"delay_days" db:"delay_days"`
	Channel         Channel        `json:"channel" db:"channel"`
	MessageTemplate string         `json:"message_template" db:"message_template"`
	Conditions      Conditions     `json:"conditions" db:"conditions"`
	LastTriggered   *time.Time     `json:"last_triggered,omitempty" db:"last_triggered"`
	TimesTriggered  int            `json:"times_triggered" db:"times_triggered"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// Validate checks if the automation fields are valid
func (a *Automation) Validate() error {
	if a.UserID == 0 {
		return fmt.Errorf("automation owner is required")
	}
	if a.Name == "" {
		return fmt.Errorf("automation name is required")
	}
	if !a.Type.Valid() {
		return fmt.Errorf("invalid automation type: %s", a.Type)
	}
	if !a.Trigger.Valid() {
		return fmt.Errorf("invalid trigger: %s", a.Trigger)
	}
	if !a.Channel.Valid() {
		return fmt.Errorf("invalid channel: %s", a.Channel)
	}
	if a.DelayHours < 0 || a.DelayDays < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	return nil
}

// ShouldTrigger checks enablement and conditions against the event context
// extras. Every condition key must be present with an exactly equal value.
func (a *Automation) ShouldTrigger(extras map[string]string) bool {
	if !a.Enabled {
		return false
	}
	for key, want := range a.Conditions {
		if got, ok := extras[key]; !ok || got != want {
			return false
		}
	}
	return true
}

// Delay returns the configured delay as a duration (hours and days are additive)
func (a *Automation) Delay() time.Duration {
	return time.Duration(a.DelayDays)*24*time.Hour + time.Duration(a.DelayHours)*time.Hour
}

// HasDelay checks if the automation has any delay configured
func (a *Automation) HasDelay() bool {
	return a.DelayHours != 0 || a.DelayDays != 0
}
