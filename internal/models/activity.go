package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType represents the kind of an audit trail entry
type ActivityType string

const (
	ActivityAutomationRan ActivityType = "automation_ran"
	ActivityCRMUpdated    ActivityType = "crm_updated"
)

// Details holds structured activity metadata (automation id, message id, etc.)
type Details map[string]interface{}

// Value implements driver.Valuer so details persist as JSONB
func (d Details) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for reading JSONB details
func (d *Details) Scan(src interface{}) error {
	if src == nil {
		*d = Details{}
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan details from %T", src)
	}
	return json.Unmarshal(data, d)
}

// Activity represents an append-only audit entry. Entries are never mutated
// after creation.
type Activity struct {
	ID          int          `json:"id" db:"id"`
	UserID      int          `json:"user_id" db:"user_id"`
	Type        ActivityType `json:"type" db:"type"`
	Description string       `json:"description" db:"description"`
	Channel     Channel      `json:"channel,omitempty" db:"channel"`
	LeadID      *int         `json:"lead_id,omitempty" db:"lead_id"`
	Details     Details      `json:"details" db:"details"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}
