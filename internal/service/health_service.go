package service

import (
	"context"
	"database/sql"
	"time"

	"leadpilot/internal/queue"
)

// Health status constants
const (
	StatusHealthy      = "healthy"
	StatusDegraded     = "degraded"
	StatusUnhealthy    = "unhealthy"
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
)

// HealthStatus represents the overall health status of the application
type HealthStatus struct {
	Status    string            `json:"status"`
	Services  map[string]string `json:"services"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version,omitempty"`
}

// HealthChecker reports connectivity of the engine's dependencies. The queue
// connection may be nil when the API runs without asynchronous dispatch; the
// engine still works synchronously, so that only degrades the status.
type HealthChecker struct {
	db      *sql.DB
	conn    *queue.Connection
	version string
}

// NewHealthService creates a new HealthChecker instance
func NewHealthService(db *sql.DB, conn *queue.Connection, version string) *HealthChecker {
	return &HealthChecker{
		db:      db,
		conn:    conn,
		version: version,
	}
}

// checkDatabase verifies PostgreSQL connectivity with a timeout
func (h *HealthChecker) checkDatabase() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return StatusDisconnected
	}

	return StatusConnected
}

// checkQueue verifies RabbitMQ connectivity
func (h *HealthChecker) checkQueue() string {
	if h.conn == nil || !h.conn.IsConnected() {
		return StatusDisconnected
	}
	return StatusConnected
}

// CheckHealth performs health checks on all dependencies and returns the
// overall status. A dead database is unhealthy; a dead queue alone is only
// degraded because triggers fall back to synchronous dispatch.
func (h *HealthChecker) CheckHealth() (*HealthStatus, error) {
	services := map[string]string{
		"database": h.checkDatabase(),
		"queue":    h.checkQueue(),
	}

	status := StatusHealthy
	if services["queue"] == StatusDisconnected {
		status = StatusDegraded
	}
	if services["database"] == StatusDisconnected {
		status = StatusUnhealthy
	}

	return &HealthStatus{
		Status:    status,
		Services:  services,
		Timestamp: time.Now().UTC(),
		Version:   h.version,
	}, nil
}
