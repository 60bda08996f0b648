package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"leadpilot/internal/models"
)

type automationRepository struct {
	db *sql.DB
}

// NewAutomationRepository creates a new automation repository
func NewAutomationRepository(db *sql.DB) AutomationRepository {
	return &automationRepository{db: db}
}

const automationColumns = `id, user_id, name, type, enabled, trigger, delay_hours, delay_days,
	channel, message_template, conditions, last_triggered, times_triggered, created_at, updated_at`

// Create creates a new automation rule
func (r *automationRepository) Create(ctx context.Context, automation *models.Automation) error {
	query := `
		INSERT INTO automations (user_id, name, type, enabled, trigger, delay_hours, delay_days,
			channel, message_template, conditions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	if automation.Conditions == nil {
		automation.Conditions = models.Conditions{}
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		automation.UserID,
		automation.Name,
		automation.Type,
		automation.Enabled,
		automation.Trigger,
		automation.DelayHours,
		automation.DelayDays,
		automation.Channel,
		automation.MessageTemplate,
		automation.Conditions,
	).Scan(&automation.ID, &automation.CreatedAt, &automation.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create automation: %w", err)
	}

	return nil
}

// GetByID retrieves an automation by ID scoped to its owner
func (r *automationRepository) GetByID(ctx context.Context, userID, id int) (*models.Automation, error) {
	query := `
		SELECT ` + automationColumns + `
		FROM automations
		WHERE id = $1 AND user_id = $2
	`

	automation := &models.Automation{}
	err := scanAutomation(r.db.QueryRowContext(ctx, query, id, userID), automation)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get automation: %w", err)
	}

	return automation, nil
}

// List retrieves all automations for an owner in creation order
func (r *automationRepository) List(ctx context.Context, userID int) ([]*models.Automation, error) {
	query := `
		SELECT ` + automationColumns + `
		FROM automations
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list automations: %w", err)
	}
	defer rows.Close()

	return scanAutomations(rows)
}

// Update updates an automation's configuration fields
func (r *automationRepository) Update(ctx context.Context, automation *models.Automation) error {
	query := `
		UPDATE automations
		SET name = $1, type = $2, enabled = $3, trigger = $4, delay_hours = $5, delay_days = $6,
			channel = $7, message_template = $8, conditions = $9, updated_at = NOW()
		WHERE id = $10 AND user_id = $11
		RETURNING updated_at
	`

	if automation.Conditions == nil {
		automation.Conditions = models.Conditions{}
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		automation.Name,
		automation.Type,
		automation.Enabled,
		automation.Trigger,
		automation.DelayHours,
		automation.DelayDays,
		automation.Channel,
		automation.MessageTemplate,
		automation.Conditions,
		automation.ID,
		automation.UserID,
	).Scan(&automation.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("automation not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update automation: %w", err)
	}

	return nil
}

// Delete removes an automation scoped to its owner
func (r *automationRepository) Delete(ctx context.Context, userID, id int) error {
	query := `DELETE FROM automations WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete automation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("automation not found")
	}

	return nil
}

// ListEnabledByTrigger retrieves enabled rules for one owner and trigger.
// Ordered by id so dispatch order is deterministic per run.
func (r *automationRepository) ListEnabledByTrigger(ctx context.Context, userID int, trigger models.Trigger) ([]*models.Automation, error) {
	query := `
		SELECT ` + automationColumns + `
		FROM automations
		WHERE user_id = $1 AND trigger = $2 AND enabled = TRUE
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID, trigger)
	if err != nil {
		return nil, fmt.Errorf("failed to list automations by trigger: %w", err)
	}
	defer rows.Close()

	return scanAutomations(rows)
}

// ListEnabledByTriggers retrieves enabled rules across owners whose trigger
// is in the given set
func (r *automationRepository) ListEnabledByTriggers(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error) {
	query := `
		SELECT ` + automationColumns + `
		FROM automations
		WHERE enabled = TRUE AND trigger = ANY($1)
		ORDER BY id
	`

	triggerValues := make([]string, len(triggers))
	for i, t := range triggers {
		triggerValues[i] = string(t)
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(triggerValues))
	if err != nil {
		return nil, fmt.Errorf("failed to list automations by triggers: %w", err)
	}
	defer rows.Close()

	return scanAutomations(rows)
}

// RecordTriggered bumps the usage counters after a successful fire.
// The increment happens in SQL so concurrent schedulers cannot lose updates.
func (r *automationRepository) RecordTriggered(ctx context.Context, id int, at time.Time) error {
	query := `
		UPDATE automations
		SET times_triggered = times_triggered + 1, last_triggered = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("failed to record trigger: %w", err)
	}

	return nil
}

// SetEnabledForTypes flips the enabled flag for all of an owner's rules of
// the given types. Used to sync rules when a settings toggle changes.
func (r *automationRepository) SetEnabledForTypes(ctx context.Context, userID int, types []models.AutomationType, enabled bool) error {
	if len(types) == 0 {
		return nil
	}

	query := `
		UPDATE automations
		SET enabled = $1, updated_at = NOW()
		WHERE user_id = $2 AND type = ANY($3)
	`

	typeValues := make([]string, len(types))
	for i, t := range types {
		typeValues[i] = string(t)
	}

	_, err := r.db.ExecContext(ctx, query, enabled, userID, pq.Array(typeValues))
	if err != nil {
		return fmt.Errorf("failed to sync automation enablement: %w", err)
	}

	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAutomation scans a single automation row
func scanAutomation(row rowScanner, automation *models.Automation) error {
	return row.Scan(
		&automation.ID,
		&automation.UserID,
		&automation.Name,
		&automation.Type,
		&automation.Enabled,
		&automation.Trigger,
		&automation.DelayHours,
		&automation.DelayDays,
		&automation.Channel,
		&automation.MessageTemplate,
		&automation.Conditions,
		&automation.LastTriggered,
		&automation.TimesTriggered,
		&automation.CreatedAt,
		&automation.UpdatedAt,
	)
}

// scanAutomations scans automation rows into models
func scanAutomations(rows *sql.Rows) ([]*models.Automation, error) {
	automations := []*models.Automation{}
	for rows.Next() {
		automation := &models.Automation{}
		if err := scanAutomation(rows, automation); err != nil {
			return nil, fmt.Errorf("failed to scan automation: %w", err)
		}
		automations = append(automations, automation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate automations: %w", err)
	}

	return automations, nil
}
