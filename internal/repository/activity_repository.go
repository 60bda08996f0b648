package repository

import (
	"context"
	"database/sql"
	"fmt"

	"leadpilot/internal/models"
)

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create appends an audit trail entry
func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	query := `
		INSERT INTO activities (user_id, type, description, channel, lead_id, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if activity.Details == nil {
		activity.Details = models.Details{}
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		activity.UserID,
		activity.Type,
		activity.Description,
		activity.Channel,
		activity.LeadID,
		activity.Details,
	).Scan(&activity.ID, &activity.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}

	return nil
}

// List retrieves activities for an owner, newest first
func (r *activityRepository) List(ctx context.Context, userID, limit, offset int) ([]*models.Activity, error) {
	query := `
		SELECT id, user_id, type, description, channel, lead_id, details, created_at
		FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []*models.Activity{}
	for rows.Next() {
		activity := &models.Activity{}
		err := rows.Scan(
			&activity.ID,
			&activity.UserID,
			&activity.Type,
			&activity.Description,
			&activity.Channel,
			&activity.LeadID,
			&activity.Details,
			&activity.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return activities, nil
}
