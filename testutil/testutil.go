// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/evote/auth"
	"github.com/danielhkuo/evote/cliparse"
	"github.com/danielhkuo/evote/db"
)

// SetupTestDB creates a fresh sqlite database file with the full schema.
// It is closed automatically when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "evote_test.db")
	conn, err := db.Open(db.TypeSQLite, "file:"+path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(t *testing.T) cliparse.Config {
	return cliparse.Config{
		Port:              3318,
		DatabaseType:      db.TypeSQLite,
		DatabaseURL:       "file::memory:",
		VoterTokenSalt:    "test-voter-salt",
		VoteEncryptionKey: "test-vote-key",
		JWTSecret:         "test-jwt-secret",
		MediaDir:          t.TempDir(),
		PercentScope:      "election",
	}
}

// CreateTestElection inserts an election with the given window and returns its ID
func CreateTestElection(t *testing.T, conn *sql.DB, title string, start, end time.Time) string {
	t.Helper()

	electionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO election (id, title, description, start_time, end_time, created_at)
		VALUES ($1, $2, 'A test election', $3, $4, $5)
	`, electionID, title, start.UTC(), end.UTC(), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID
}

// CreateOpenElection inserts an election that opened an hour ago and closes in an hour
func CreateOpenElection(t *testing.T, conn *sql.DB) string {
	t.Helper()
	now := time.Now()
	return CreateTestElection(t, conn, "Test Election", now.Add(-time.Hour), now.Add(time.Hour))
}

// CreateClosedElection inserts an election whose window ended a minute ago
func CreateClosedElection(t *testing.T, conn *sql.DB) string {
	t.Helper()
	now := time.Now()
	return CreateTestElection(t, conn, "Closed Election", now.Add(-2*time.Hour), now.Add(-time.Minute))
}

// AddTestPosition adds a position to an election and returns the position ID
func AddTestPosition(t *testing.T, conn *sql.DB, electionID, title string) string {
	t.Helper()

	positionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO position (id, election_id, title)
		VALUES ($1, $2, $3)
	`, positionID, electionID, title)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return positionID
}

// AddTestCandidate adds a candidate to a position and returns the candidate ID
func AddTestCandidate(t *testing.T, conn *sql.DB, positionID, name string) string {
	t.Helper()

	candidateID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO candidate (id, position_id, name, manifesto)
		VALUES ($1, $2, $3, '')
	`, candidateID, positionID, name)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// InsertTestBallot writes a ballot row directly, bypassing the voting workflow
func InsertTestBallot(t *testing.T, conn *sql.DB, electionID, voterToken, encodedChoice string) string {
	t.Helper()

	ballotID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO ballot (id, election_id, voter_token, encoded_choice, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, electionID, voterToken, encodedChoice, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	return ballotID
}

// CountBallots returns the number of stored ballots for an election
func CountBallots(t *testing.T, conn *sql.DB, electionID string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM ballot WHERE election_id = $1", electionID).Scan(&n); err != nil {
		t.Fatalf("Failed to count ballots: %v", err)
	}
	return n
}

// BearerHeader returns an Authorization header value for p
func BearerHeader(t *testing.T, cfg cliparse.Config, p auth.Principal) string {
	t.Helper()

	token, err := auth.IssueToken(cfg.JWTSecret, p, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return "Bearer " + token
}

// Voter returns a voter principal with the given identity
func Voter(identity string) auth.Principal {
	return auth.Principal{Identity: identity, Role: auth.RoleVoter}
}

// Admin returns an approved admin principal
func Admin() auth.Principal {
	return auth.Principal{Identity: "admin-1", Role: auth.RoleAdmin, Approved: true}
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
