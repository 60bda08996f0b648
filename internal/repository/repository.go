package repository

import (
	"context"
	"database/sql"
	"time"

	"leadpilot/internal/models"
)

// LeadRepository defines lead data access operations. Every query is scoped
// to the owning user.
type LeadRepository interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, userID, id int) (*models.Lead, error)
	List(ctx context.Context, userID, limit, offset int) ([]*models.Lead, error)
	Update(ctx context.Context, lead *models.Lead) error
	TouchLastContacted(ctx context.Context, userID, id int, at time.Time) error
	ListNotContactedSince(ctx context.Context, userID int, statuses []models.LeadStatus, cutoff time.Time) ([]*models.Lead, error)
}

// BookingRepository defines booking data access operations
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, userID, id int) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	ListUpcomingUnreminded(ctx context.Context, userID int, from, until time.Time) ([]*models.Booking, error)
	MarkReminderSent(ctx context.Context, id int, at time.Time) error
}

// MessageRepository defines message data access operations
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, userID, id int) (*models.Message, error)
	UpdateStatus(ctx context.Context, id int, status models.MessageStatus) error
	ListByLead(ctx context.Context, userID, leadID, limit, offset int) ([]*models.Message, error)
}

// AutomationRepository defines automation rule data access operations
type AutomationRepository interface {
	Create(ctx context.Context, automation *models.Automation) error
	GetByID(ctx context.Context, userID, id int) (*models.Automation, error)
	List(ctx context.Context, userID int) ([]*models.Automation, error)
	Update(ctx context.Context, automation *models.Automation) error
	Delete(ctx context.Context, userID, id int) error
	// ListEnabledByTrigger returns enabled rules for one owner and trigger
	// in stable creation order.
	ListEnabledByTrigger(ctx context.Context, userID int, trigger models.Trigger) ([]*models.Automation, error)
	// ListEnabledByTriggers returns enabled rules across all owners whose
	// trigger is in the given set, in stable creation order.
	ListEnabledByTriggers(ctx context.Context, triggers []models.Trigger) ([]*models.Automation, error)
	// RecordTriggered bumps times_triggered atomically and sets last_triggered.
	RecordTriggered(ctx context.Context, id int, at time.Time) error
	// SetEnabledForTypes flips the enabled flag for every rule of the owner
	// whose type is in the given set.
	SetEnabledForTypes(ctx context.Context, userID int, types []models.AutomationType, enabled bool) error
}

// ActivityRepository defines audit trail data access operations.
// Activities are append-only; there is no update.
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	List(ctx context.Context, userID, limit, offset int) ([]*models.Activity, error)
}

// SettingsRepository defines user settings data access operations
type SettingsRepository interface {
	// GetByUserID returns (nil, nil) when no settings row exists; callers
	// substitute models.DefaultUserSettings for the fail-open default.
	GetByUserID(ctx context.Context, userID int) (*models.UserSettings, error)
	Upsert(ctx context.Context, settings *models.UserSettings) error
}

// DB is a wrapper around *sql.DB to allow passing in transaction
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
