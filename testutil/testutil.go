// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/votepoll/server/cliparse"
	"github.com/votepoll/server/db"
	"github.com/votepoll/server/models"
)

// TestSessionSecret signs session tokens in tests.
const TestSessionSecret = "test-session-secret"

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each test gets its own database, named after the test so
// shared-cache connections never cross tests.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	conn, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// One connection keeps the in-memory database alive and serializes
	// access, which SQLite needs under the concurrency tests.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          8080,
		DatabaseURL:   "file::memory:",
		DatabaseType:  "sqlite",
		SessionSecret: TestSessionSecret,
	}
}

// MakeToken mints a session token for the given user, the way the
// external auth service would.
func MakeToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestSessionSecret))
	if err != nil {
		t.Fatalf("Failed to sign test token: %v", err)
	}
	return token
}

// CreateTestUser inserts a profile and returns the user ID.
func CreateTestUser(t *testing.T, dbc *sql.DB, username string) string {
	t.Helper()

	id := uuid.NewString()
	_, err := dbc.Exec(`
		INSERT INTO profiles (id, username, created_at)
		VALUES ($1, $2, $3)
	`, id, username, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return id
}

// GrantAdmin gives the user the admin role.
func GrantAdmin(t *testing.T, dbc *sql.DB, userID string) {
	t.Helper()

	_, err := dbc.Exec(`
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
	`, userID, models.RoleAdmin)
	if err != nil {
		t.Fatalf("Failed to grant admin role: %v", err)
	}
}

// InsertPoll inserts a poll row directly. A zero CreatedAt defaults to
// now; IsActive should be set explicitly. Returns the poll ID.
func InsertPoll(t *testing.T, dbc *sql.DB, poll models.Poll) string {
	t.Helper()

	if poll.ID == "" {
		poll.ID = uuid.NewString()
	}
	if poll.Title == "" {
		poll.Title = "Test Poll"
	}
	if poll.CreatedAt.IsZero() {
		poll.CreatedAt = time.Now().UTC()
	}

	_, err := dbc.Exec(`
		INSERT INTO polls (id, title, description, created_by, result_password, expires_at, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, poll.ID, poll.Title, poll.Description, poll.CreatedBy, poll.ResultPassword, poll.ExpiresAt, poll.IsActive, poll.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll.ID
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, dbc *sql.DB, pollID, text string, position int) string {
	t.Helper()

	optionID := uuid.NewString()
	_, err := dbc.Exec(`
		INSERT INTO poll_options (id, poll_id, option_text, position, votes_count)
		VALUES ($1, $2, $3, $4, 0)
	`, optionID, pollID, text, position)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}
	return optionID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
