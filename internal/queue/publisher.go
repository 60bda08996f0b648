package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// TriggerJob is the wire form of one business event. The worker rebuilds the
// full event context from the referenced entities before dispatching.
type TriggerJob struct {
	Trigger   string            `json:"trigger"`
	UserID    int               `json:"user_id"`
	LeadID    int               `json:"lead_id,omitempty"`
	BookingID int               `json:"booking_id,omitempty"`
	MessageID int               `json:"message_id,omitempty"`
	Extras    map[string]string `json:"extras,omitempty"`
}

// Publisher publishes trigger jobs to RabbitMQ
type Publisher struct {
	conn      *Connection
	queueName string
}

// NewPublisher creates a publisher and declares the durable trigger queue
func NewPublisher(conn *Connection, queueName string) (*Publisher, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Publisher{
		conn:      conn,
		queueName: queueName,
	}, nil
}

// PublishTrigger publishes one trigger job as a persistent message
func (p *Publisher) PublishTrigger(job *TriggerJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal trigger job: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	err = ch.Publish(
		"",          // exchange (default)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish trigger: %w", err)
	}

	return nil
}
