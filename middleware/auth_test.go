// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/evote/auth"
)

const testSecret = "test-jwt-secret"

func issue(t *testing.T, secret string, p auth.Principal, ttl time.Duration) string {
	t.Helper()
	token, err := auth.IssueToken(secret, p, ttl, time.Now())
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	return token
}

func TestRequireVoter(t *testing.T) {
	voter := auth.Principal{Identity: "student-42", Role: auth.RoleVoter}

	testCases := []struct {
		name       string
		header     string
		query      string
		wantStatus int
	}{
		{"valid bearer", "Bearer " + issue(t, testSecret, voter, time.Hour), "", http.StatusOK},
		{"lowercase scheme", "bearer " + issue(t, testSecret, voter, time.Hour), "", http.StatusOK},
		{"query token", "", issue(t, testSecret, voter, time.Hour), http.StatusOK},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + issue(t, "other", voter, time.Hour), "", http.StatusUnauthorized},
		{"expired", "Bearer " + issue(t, testSecret, voter, -time.Minute), "", http.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got auth.Principal
			handler := RequireVoter(testSecret, func(w http.ResponseWriter, r *http.Request) {
				got, _ = PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			target := "/elections/e1/ballot"
			if tc.query != "" {
				target += "?token=" + tc.query
			}
			req := httptest.NewRequest("GET", target, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.wantStatus {
				t.Fatalf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
			if tc.wantStatus == http.StatusOK && got.Identity != "student-42" {
				t.Errorf("principal identity = %q, want student-42", got.Identity)
			}
		})
	}
}

func TestRequireCapability(t *testing.T) {
	testCases := []struct {
		name       string
		principal  auth.Principal
		wantStatus int
	}{
		{"approved admin", auth.Principal{Identity: "a1", Role: auth.RoleAdmin, Approved: true}, http.StatusOK},
		{"unapproved admin", auth.Principal{Identity: "a2", Role: auth.RoleAdmin}, http.StatusForbidden},
		{"voter", auth.Principal{Identity: "v1", Role: auth.RoleVoter, Approved: true}, http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireCapability(testSecret, auth.IsAdminAndApproved, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("POST", "/admin/elections", nil)
			req.Header.Set("Authorization", "Bearer "+issue(t, testSecret, tc.principal, time.Hour))
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, w.Code)
			}
		})
	}

	t.Run("no token", func(t *testing.T) {
		handler := RequireCapability(testSecret, auth.IsAdminAndApproved, func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached without a token")
		})
		w := httptest.NewRecorder()
		handler(w, httptest.NewRequest("POST", "/admin/elections", nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", w.Code)
		}
	})
}

// captureLogs routes the default logger into a buffer for the rest of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestRequireCapabilityDoesNotLogIdentity(t *testing.T) {
	logs := captureLogs(t)

	voter := auth.Principal{Identity: "alice@example.com", Role: auth.RoleVoter}
	handler := RequireCapability(testSecret, auth.IsAdminAndApproved, func(w http.ResponseWriter, r *http.Request) {
		t.Error("voter reached an admin handler")
	})

	req := httptest.NewRequest("POST", "/admin/elections", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, testSecret, voter, time.Hour))
	w := httptest.NewRecorder()
	WithLogging(handler)(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("Expected status 403, got %d", w.Code)
	}
	if !strings.Contains(logs.String(), "capability check failed") {
		t.Fatalf("expected a capability warning, got:\n%s", logs.String())
	}
	if strings.Contains(logs.String(), "alice@example.com") {
		t.Errorf("log output contains the voter identity:\n%s", logs.String())
	}
}

func TestPrincipalFromContextMissing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := PrincipalFromContext(req.Context()); ok {
		t.Error("expected no principal on a bare request")
	}
}
