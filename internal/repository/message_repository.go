package repository

import (
	"context"
	"database/sql"
	"fmt"

	"leadpilot/internal/models"
)

type messageRepository struct {
	db *sql.DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create creates a new message
func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (user_id, lead_id, channel, direction, content, status, ai_generated)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		message.UserID,
		message.LeadID,
		message.Channel,
		message.Direction,
		message.Content,
		message.Status,
		message.AIGenerated,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// GetByID retrieves a message by ID scoped to its owner
func (r *messageRepository) GetByID(ctx context.Context, userID, id int) (*models.Message, error) {
	query := `
		SELECT id, user_id, lead_id, channel, direction, content, status, ai_generated, created_at
		FROM messages
		WHERE id = $1 AND user_id = $2
	`

	message := &models.Message{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&message.ID,
		&message.UserID,
		&message.LeadID,
		&message.Channel,
		&message.Direction,
		&message.Content,
		&message.Status,
		&message.AIGenerated,
		&message.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return message, nil
}

// UpdateStatus updates a message's delivery status
func (r *messageRepository) UpdateStatus(ctx context.Context, id int, status models.MessageStatus) error {
	query := `
		UPDATE messages
		SET status = $1
		WHERE id = $2
	`

	_, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update message status: %w", err)
	}

	return nil
}

// ListByLead retrieves messages for a lead with pagination
func (r *messageRepository) ListByLead(ctx context.Context, userID, leadID, limit, offset int) ([]*models.Message, error) {
	query := `
		SELECT id, user_id, lead_id, channel, direction, content, status, ai_generated, created_at
		FROM messages
		WHERE user_id = $1 AND lead_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.QueryContext(ctx, query, userID, leadID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		message := &models.Message{}
		err := rows.Scan(
			&message.ID,
			&message.UserID,
			&message.LeadID,
			&message.Channel,
			&message.Direction,
			&message.Content,
			&message.Status,
			&message.AIGenerated,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}
