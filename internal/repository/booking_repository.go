package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"leadpilot/internal/models"
)

type bookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sql.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// Create creates a new booking
func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (user_id, lead_id, title, status, start_time, end_time, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if booking.Status == "" {
		booking.Status = models.BookingStatusScheduled
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		booking.UserID,
		booking.LeadID,
		booking.Title,
		booking.Status,
		booking.StartTime,
		booking.EndTime,
		booking.Location,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by ID scoped to its owner
func (r *bookingRepository) GetByID(ctx context.Context, userID, id int) (*models.Booking, error) {
	query := `
		SELECT id, user_id, lead_id, title, status, start_time, end_time, location,
			reminder_sent, reminder_sent_at, created_at, updated_at
		FROM bookings
		WHERE id = $1 AND user_id = $2
	`

	booking := &models.Booking{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.LeadID,
		&booking.Title,
		&booking.Status,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Location,
		&booking.ReminderSent,
		&booking.ReminderSentAt,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}

// Update updates a booking's mutable fields
func (r *bookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET title = $1, status = $2, start_time = $3, end_time = $4, location = $5,
			updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		booking.Title,
		booking.Status,
		booking.StartTime,
		booking.EndTime,
		booking.Location,
		booking.ID,
		booking.UserID,
	).Scan(&booking.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("booking not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	return nil
}

// ListUpcomingUnreminded retrieves bookings starting inside the given window
// that have not had a reminder sent yet. Only scheduled and confirmed
// bookings qualify.
func (r *bookingRepository) ListUpcomingUnreminded(ctx context.Context, userID int, from, until time.Time) ([]*models.Booking, error) {
	query := `
		SELECT id, user_id, lead_id, title, status, start_time, end_time, location,
			reminder_sent, reminder_sent_at, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
			AND status IN ('scheduled', 'confirmed')
			AND reminder_sent = FALSE
			AND start_time > $2
			AND start_time <= $3
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, from, until)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming bookings: %w", err)
	}
	defer rows.Close()

	bookings := []*models.Booking{}
	for rows.Next() {
		booking := &models.Booking{}
		err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.LeadID,
			&booking.Title,
			&booking.Status,
			&booking.StartTime,
			&booking.EndTime,
			&booking.Location,
			&booking.ReminderSent,
			&booking.ReminderSentAt,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return bookings, nil
}

// MarkReminderSent records that a reminder went out for the booking
func (r *bookingRepository) MarkReminderSent(ctx context.Context, id int, at time.Time) error {
	query := `
		UPDATE bookings
		SET reminder_sent = TRUE, reminder_sent_at = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	return nil
}
