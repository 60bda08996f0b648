package models

import (
	"fmt"
	"time"
)

// LeadStatus represents valid lead statuses
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// Valid checks if the lead status is one of the known values
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// Lead represents a lead in the system
type Lead struct {
	ID            int        `json:"id" db:"id"`
	UserID        int        `json:"user_id" db:"user_id"`
	Name          string     `json:"name" db:"name"`
	Email         string     `json:"email" db:"email"`
	Phone         *string    `json:"phone,omitempty" db:"phone"`
	Status        LeadStatus `json:"status" db:"status"`
	Source        string     `json:"source" db:"source"`
	Notes         string     `json:"notes" db:"notes"`
	LastContacted *time.Time `json:"last_contacted,omitempty" db:"last_contacted"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// Validate checks if the lead fields are valid
func (l *Lead) Validate() error {
	if l.UserID == 0 {
		return fmt.Errorf("lead owner is required")
	}
	if l.Name == "" {
		return fmt.Errorf("lead name is required")
	}
	if l.Email == "" {
		return fmt.Errorf("lead email is required")
	}
	if l.Status != "" && !l.Status.Valid() {
		return fmt.Errorf("invalid lead status: %s", l.Status)
	}
	return nil
}

// PhoneNumber returns the lead's phone number or empty string
func (l *Lead) PhoneNumber() string {
	if l.Phone != nil {
		return *l.Phone
	}
	return ""
}
