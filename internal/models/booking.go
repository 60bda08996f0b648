package models

import (
	"fmt"
	"time"
)

// BookingStatus represents valid booking statuses
type BookingStatus string

const (
	BookingStatusScheduled BookingStatus = "scheduled"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusNoShow    BookingStatus = "no_show"
)

// Valid checks if the booking status is one of the known values
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusScheduled, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// Booking represents a scheduled session with a lead
type Booking struct {
	ID             int           `json:"id" db:"id"`
	UserID         int           `json:"user_id" db:"user_id"`
	LeadID         int           `json:"lead_id" db:"lead_id"`
	Title          string        `json:"title" db:"title"`
	Status         BookingStatus `json:"status" db:"status"`
	StartTime      time.Time     `json:"start_time" db:"start_time"`
	EndTime        time.Time     `json:"end_time" db:"end_time"`
	Location       string        `json:"location" db:"location"`
	ReminderSent   bool          `json:"reminder_sent" db:"reminder_sent"`
	ReminderSentAt *time.Time    `json:"reminder_sent_at,omitempty" db:"reminder_sent_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// Validate checks if the booking fields are valid
func (b *Booking) Validate() error {
	if b.UserID == 0 {
		return fmt.Errorf("booking owner is required")
	}
	if b.LeadID == 0 {
		return fmt.Errorf("booking lead is required")
	}
	if b.Title == "" {
		return fmt.Errorf("booking title is required")
	}
	if b.StartTime.IsZero() {
		return fmt.Errorf("booking start time is required")
	}
	if b.Status != "" && !b.Status.Valid() {
		return fmt.Errorf("invalid booking status: %s", b.Status)
	}
	return nil
}

// IsUpcoming checks if the booking is in the future
func (b *Booking) IsUpcoming() bool {
	return b.StartTime.After(time.Now())
}
