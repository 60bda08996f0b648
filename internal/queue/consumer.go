package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// TriggerHandler processes one trigger job
type TriggerHandler func(job *TriggerJob) error

// Consumer consumes trigger jobs from the queue
type Consumer struct {
	conn      *Connection
	queueName string
	handler   TriggerHandler
	stopChan  chan struct{}
	doneChan  chan struct{}
}

// NewConsumer creates a consumer for the trigger queue
func NewConsumer(conn *Connection, queueName string, handler TriggerHandler) (*Consumer, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}
	if handler == nil {
		return nil, errors.New("handler cannot be nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	// Same settings as the publisher side
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

	return &Consumer{
		conn:      conn,
		queueName: queueName,
		handler:   handler,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}, nil
}

// Start begins consuming trigger jobs. The engine is single-writer by
// design, so prefetch is 1 and jobs are processed one at a time.
func (c *Consumer) Start() error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	err = ch.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName,
		"",    // consumer tag (auto-generated)
		false, // auto-ack (manual acknowledgement)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		defer close(c.doneChan)

		for {
			select {
			case <-c.stopChan:
				log.Println("Trigger consumer stopping...")
				return
			case d, ok := <-msgs:
				if !ok {
					log.Println("Delivery channel closed")
					return
				}

				if err := c.processDelivery(d); err != nil {
					log.Printf("Error processing trigger: %v", err)
					d.Nack(false, true)
				} else {
					d.Ack(false)
				}
			}
		}
	}()

	log.Printf("Trigger consumer started, listening on queue: %s", c.queueName)
	return nil
}

// Stop stops consuming gracefully
func (c *Consumer) Stop() error {
	close(c.stopChan)
	<-c.doneChan

	log.Println("Trigger consumer stopped")
	return nil
}

// processDelivery decodes and handles a single delivery
func (c *Consumer) processDelivery(d amqp.Delivery) error {
	var job TriggerJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		return fmt.Errorf("failed to unmarshal trigger job: %w", err)
	}

	if err := c.handler(&job); err != nil {
		return fmt.Errorf("handler failed: %w", err)
	}

	return nil
}
