package service

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"leadpilot/internal/models"
)

// ChannelSender delivers one message over an external channel and reports
// whether delivery succeeded. Send must never panic; delivery problems are
// an expected outcome, not an error.
type ChannelSender interface {
	Send(ctx context.Context, userID int, channel models.Channel, recipient, content string) bool
}

// SenderService simulates channel delivery until real provider integrations
// land. Each send succeeds with the configured probability after a short
// simulated latency, and is bounded by the configured timeout.
type SenderService struct {
	successRate float64
	timeout     time.Duration
	mu          sync.Mutex
	rng         *rand.Rand
}

// NewSenderService creates a simulated sender with the given success rate
// (clamped to [0, 1]) and per-send timeout
func NewSenderService(successRate float64, timeout time.Duration) *SenderService {
	if successRate < 0 {
		successRate = 0
	}
	if successRate > 1 {
		successRate = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SenderService{
		successRate: successRate,
		timeout:     timeout,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Send simulates delivery over the given channel. It fails closed on an
// empty recipient or unknown channel, and when the timeout elapses before
// the channel responds.
func (s *SenderService) Send(ctx context.Context, userID int, channel models.Channel, recipient, content string) bool {
	if recipient == "" {
		log.Printf("Send skipped for user %d: no recipient for channel %s", userID, channel)
		return false
	}
	if !channel.Valid() {
		log.Printf("Send skipped for user %d: unknown channel %s", userID, channel)
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	select {
	case <-ctx.Done():
		log.Printf("Send timed out for %s message to %s", channel, recipient)
		return false
	case <-time.After(s.latency(channel)):
	}

	s.mu.Lock()
	ok := s.rng.Float64() < s.successRate
	s.mu.Unlock()

	if ok {
		log.Printf("Sent %s message to %s (%d chars)", channel, recipient, len(content))
	} else {
		log.Printf("Delivery failed for %s message to %s", channel, recipient)
	}
	return ok
}

// latency returns a per-channel simulated delivery time
func (s *SenderService) latency(channel models.Channel) time.Duration {
	switch channel {
	case models.ChannelEmail:
		return 50 * time.Millisecond
	case models.ChannelSMS:
		return 30 * time.Millisecond
	default:
		return 80 * time.Millisecond
	}
}
