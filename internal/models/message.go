package models

import "time"

// MessageStatus represents valid message delivery statuses
type MessageStatus string

const (
	MessageStatusPending MessageStatus = "pending"
	MessageStatusSent    MessageStatus = "sent"
	MessageStatusFailed  MessageStatus = "failed"
)

// Direction represents the direction of a message
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// Message represents a message exchanged with a lead over a channel
type Message struct {
	ID          int           `json:"id" db:"id"`
	UserID      int           `json:"user_id" db:"user_id"`
	LeadID      int           `json:"lead_id" db:"lead_id"`
	Channel     Channel       `json:"channel" db:"channel"`
	Direction   Direction     `json:"direction" db:"direction"`
	Content     string        `json:"content" db:"content"`
	Status      MessageStatus `json:"status" db:"status"`
	AIGenerated bool          `json:"ai_generated" db:"ai_generated"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
