package models

import "time"

// User represents an account that owns leads, bookings and automations.
// Authentication lives outside this service; the row exists for ownership
// scoping and referential integrity.
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	BusinessName string    `json:"business_name" db:"business_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
