package models

// UserSettings holds per-user channel and automation-type toggles.
// A missing settings row means everything is enabled; callers should
// substitute DefaultUserSettings rather than branching on nil.
type UserSettings struct {
	UserID                 int  `json:"user_id" db:"user_id"`
	EmailEnabled           bool `json:"email_enabled" db:"email_enabled"`
	SMSEnabled             bool `json:"sms_enabled" db:"sms_enabled"`
	WhatsAppEnabled        bool `json:"whatsapp_enabled" db:"whatsapp_enabled"`
	FacebookEnabled        bool `json:"facebook_enabled" db:"facebook_enabled"`
	InstagramEnabled       bool `json:"instagram_enabled" db:"instagram_enabled"`
	LeadFollowupEnabled    bool `json:"lead_followup_enabled" db:"lead_followup_enabled"`
	BookingReminderEnabled bool `json:"booking_reminder_enabled" db:"booking_reminder_enabled"`
	ConfirmationEnabled    bool `json:"confirmation_enabled" db:"confirmation_enabled"`
	PostSessionEnabled     bool `json:"post_session_enabled" db:"post_session_enabled"`
}

// DefaultUserSettings returns the fail-open defaults used when no settings
// row exists for a user: every channel and automation type enabled.
func DefaultUserSettings(userID int) *UserSettings {
	return &UserSettings{
		UserID:                 userID,
		EmailEnabled:           true,
		SMSEnabled:             true,
		WhatsAppEnabled:        true,
		FacebookEnabled:        true,
		InstagramEnabled:       true,
		LeadFollowupEnabled:    true,
		BookingReminderEnabled: true,
		ConfirmationEnabled:    true,
		PostSessionEnabled:     true,
	}
}

// ChannelEnabled reports whether the given channel is enabled.
// Unknown channels default to enabled.
func (s *UserSettings) ChannelEnabled(ch Channel) bool {
	switch ch {
	case ChannelEmail:
		return s.EmailEnabled
	case ChannelSMS:
		return s.SMSEnabled
	case ChannelWhatsApp:
		return s.WhatsAppEnabled
	case ChannelFacebook:
		return s.FacebookEnabled
	case ChannelInstagram:
		return s.InstagramEnabled
	}
	return true
}

// TypeEnabled reports whether the given automation type is enabled.
// Only the four toggleable types are affected; others are always enabled.
func (s *UserSettings) TypeEnabled(t AutomationType) bool {
	switch t {
	case AutomationLeadFollowup:
		return s.LeadFollowupEnabled
	case AutomationBookingReminder:
		return s.BookingReminderEnabled
	case AutomationConfirmation:
		return s.ConfirmationEnabled
	case AutomationPostSession:
		return s.PostSessionEnabled
	}
	return true
}

// DisabledTypes returns the automation types whose toggle is off
func (s *UserSettings) DisabledTypes() []AutomationType {
	var disabled []AutomationType
	if !s.LeadFollowupEnabled {
		disabled = append(disabled, AutomationLeadFollowup)
	}
	if !s.BookingReminderEnabled {
		disabled = append(disabled, AutomationBookingReminder)
	}
	if !s.ConfirmationEnabled {
		disabled = append(disabled, AutomationConfirmation)
	}
	if !s.PostSessionEnabled {
		disabled = append(disabled, AutomationPostSession)
	}
	return disabled
}
