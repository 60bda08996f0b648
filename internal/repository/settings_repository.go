package repository

import (
	"context"
	"database/sql"
	"fmt"

	"leadpilot/internal/models"
)

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

// GetByUserID retrieves settings for a user. A missing row is not an error:
// it returns (nil, nil) and callers fall back to the all-enabled defaults.
func (r *settingsRepository) GetByUserID(ctx context.Context, userID int) (*models.UserSettings, error) {
	query := `
		SELECT user_id, email_enabled, sms_enabled, whatsapp_enabled, facebook_enabled, instagram_enabled,
			lead_followup_enabled, booking_reminder_enabled, confirmation_enabled, post_session_enabled
		FROM user_settings
		WHERE user_id = $1
	`

	settings := &models.UserSettings{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.EmailEnabled,
		&settings.SMSEnabled,
		&settings.WhatsAppEnabled,
		&settings.FacebookEnabled,
		&settings.InstagramEnabled,
		&settings.LeadFollowupEnabled,
		&settings.BookingReminderEnabled,
		&settings.ConfirmationEnabled,
		&settings.PostSessionEnabled,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return settings, nil
}

// Upsert creates or replaces a user's settings row
func (r *settingsRepository) Upsert(ctx context.Context, settings *models.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, email_enabled, sms_enabled, whatsapp_enabled,
			facebook_enabled, instagram_enabled, lead_followup_enabled, booking_reminder_enabled,
			confirmation_enabled, post_session_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id) DO UPDATE SET
			email_enabled = EXCLUDED.email_enabled,
			sms_enabled = EXCLUDED.sms_enabled,
			whatsapp_enabled = EXCLUDED.whatsapp_enabled,
			facebook_enabled = EXCLUDED.facebook_enabled,
			instagram_enabled = EXCLUDED.instagram_enabled,
			lead_followup_enabled = EXCLUDED.lead_followup_enabled,
			booking_reminder_enabled = EXCLUDED.booking_reminder_enabled,
			confirmation_enabled = EXCLUDED.confirmation_enabled,
			post_session_enabled = EXCLUDED.post_session_enabled
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		settings.UserID,
		settings.EmailEnabled,
		settings.SMSEnabled,
		settings.WhatsAppEnabled,
		settings.FacebookEnabled,
		settings.InstagramEnabled,
		settings.LeadFollowupEnabled,
		settings.BookingReminderEnabled,
		settings.ConfirmationEnabled,
		settings.PostSessionEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}

	return nil
}
