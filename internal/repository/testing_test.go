package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// newMockDB creates a sqlmock-backed database for repository tests
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	return db, mock
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Expected no error but got: %v", err)
	}
}

// AssertEqual fails the test if got != want
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("Expected %v but got %v", want, got)
	}
}

var automationRowColumns = []string{
	"id", "user_id", "name", "type", "enabled", "trigger", "delay_hours", "delay_days",
	"channel", "message_template", "conditions", "last_triggered", "times_triggered",
	"created_at", "updated_at",
}

var leadRowColumns = []string{
	"id", "user_id", "name", "email", "phone", "status", "source", "notes",
	"last_contacted", "created_at", "updated_at",
}

func testTime() time.Time {
	return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
}
