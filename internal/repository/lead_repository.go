package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"leadpilot/internal/models"
)

type leadRepository struct {
	db *sql.DB
}

// NewLeadRepository creates a new lead repository
func NewLeadRepository(db *sql.DB) LeadRepository {
	return &leadRepository{db: db}
}

// Create creates a new lead
func (r *leadRepository) Create(ctx context.Context, lead *models.Lead) error {
	query := `
		INSERT INTO leads (user_id, name, email, phone, status, source, notes, last_contacted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	if lead.Status == "" {
		lead.Status = models.LeadStatusNew
	}

	err := r.db.QueryRowContext(
		ctx,
		query,
		lead.UserID,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Status,
		lead.Source,
		lead.Notes,
		lead.LastContacted,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

// GetByID retrieves a lead by ID scoped to its owner
func (r *leadRepository) GetByID(ctx context.Context, userID, id int) (*models.Lead, error) {
	query := `
		SELECT id, user_id, name, email, phone, status, source, notes, last_contacted, created_at, updated_at
		FROM leads
		WHERE id = $1 AND user_id = $2
	`

	lead := &models.Lead{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&lead.ID,
		&lead.UserID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Status,
		&lead.Source,
		&lead.Notes,
		&lead.LastContacted,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return lead, nil
}

// List retrieves leads for an owner with pagination
func (r *leadRepository) List(ctx context.Context, userID, limit, offset int) ([]*models.Lead, error) {
	query := `
		SELECT id, user_id, name, email, phone, status, source, notes, last_contacted, created_at, updated_at
		FROM leads
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// Update updates a lead's mutable fields
func (r *leadRepository) Update(ctx context.Context, lead *models.Lead) error {
	query := `
		UPDATE leads
		SET name = $1, email = $2, phone = $3, status = $4, source = $5, notes = $6,
			last_contacted = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		lead.Name,
		lead.Email,
		lead.Phone,
		lead.Status,
		lead.Source,
		lead.Notes,
		lead.LastContacted,
		lead.ID,
		lead.UserID,
	).Scan(&lead.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("lead not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update lead: %w", err)
	}

	return nil
}

// TouchLastContacted sets the lead's last contacted timestamp
func (r *leadRepository) TouchLastContacted(ctx context.Context, userID, id int, at time.Time) error {
	query := `
		UPDATE leads
		SET last_contacted = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`

	_, err := r.db.ExecContext(ctx, query, at, id, userID)
	if err != nil {
		return fmt.Errorf("failed to touch last contacted: %w", err)
	}

	return nil
}

// ListNotContactedSince retrieves leads in the given statuses whose last
// contact is strictly older than the cutoff. Leads never contacted are
// excluded; the first contact attempt is event-driven, not scan-driven.
func (r *leadRepository) ListNotContactedSince(ctx context.Context, userID int, statuses []models.LeadStatus, cutoff time.Time) ([]*models.Lead, error) {
	query := `
		SELECT id, user_id, name, email, phone, status, source, notes, last_contacted, created_at, updated_at
		FROM leads
		WHERE user_id = $1
			AND status = ANY($2)
			AND last_contacted IS NOT NULL
			AND last_contacted < $3
		ORDER BY id
	`

	statusValues := make([]string, len(statuses))
	for i, s := range statuses {
		statusValues[i] = string(s)
	}

	rows, err := r.db.QueryContext(ctx, query, userID, pq.Array(statusValues), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// scanLeads scans lead rows into models
func scanLeads(rows *sql.Rows) ([]*models.Lead, error) {
	leads := []*models.Lead{}
	for rows.Next() {
		lead := &models.Lead{}
		err := rows.Scan(
			&lead.ID,
			&lead.UserID,
			&lead.Name,
			&lead.Email,
			&lead.Phone,
			&lead.Status,
			&lead.Source,
			&lead.Notes,
			&lead.LastContacted,
			&lead.CreatedAt,
			&lead.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leads: %w", err)
	}

	return leads, nil
}
