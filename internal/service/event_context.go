package service

import "leadpilot/internal/models"

// EventContext carries the entities involved in one business event. Only the
// fields relevant to the trigger are set; the rest stay nil.
type EventContext struct {
	UserID  int
	Lead    *models.Lead
	Booking *models.Booking
	Message *models.Message
	// Extras holds string facts about the event (old_status, new_status, ...)
	// matched against automation conditions.
	Extras map[string]string
}

// Extra returns the named extra or empty string
func (ec *EventContext) Extra(key string) string {
	if ec.Extras == nil {
		return ""
	}
	return ec.Extras[key]
}
