package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// NewMockDB creates a sqlmock-backed database for handler tests
func NewMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}
	return db, mock
}

// NewJSONRequest creates an HTTP request with a JSON body and owner header
func NewJSONRequest(t *testing.T, method, path string, body interface{}, userID string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	return req
}

// ParseJSONResponse decodes the recorded response body into target
func ParseJSONResponse(t *testing.T, resp *httptest.ResponseRecorder, target interface{}) {
	t.Helper()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		t.Fatalf("Failed to parse JSON response: %v", err)
	}
}

// AssertStatusCode fails the test if the response status does not match
func AssertStatusCode(t *testing.T, resp *httptest.ResponseRecorder, want int) {
	t.Helper()

	if resp.Code != want {
		t.Errorf("Expected status %d but got %d (body: %s)", want, resp.Code, resp.Body.String())
	}
}

// AssertErrorCode fails the test if the structured error code does not match
func AssertErrorCode(t *testing.T, resp *httptest.ResponseRecorder, want string) {
	t.Helper()

	var errResp ErrorResponse
	ParseJSONResponse(t, resp, &errResp)
	if errResp.Error.Code != want {
		t.Errorf("Expected error code %s but got %s", want, errResp.Error.Code)
	}
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Errorf("Expected no error but got: %v", err)
	}
}
