// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/evote/models"
	"github.com/danielhkuo/evote/testutil"
)

func TestListElections(t *testing.T) {
	env := newTestEnv(t)
	open := testutil.CreateOpenElection(t, env.db)
	closed := testutil.CreateClosedElection(t, env.db)

	w := httptest.NewRecorder()
	env.elections.ListElections(w, httptest.NewRequest("GET", "/elections", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var list []models.ElectionSummary
	testutil.AssertJSON(t, w, &list)
	if len(list) != 2 {
		t.Fatalf("Expected 2 elections, got %d", len(list))
	}

	byID := map[string]models.ElectionSummary{}
	for _, s := range list {
		byID[s.ID] = s
	}

	if !byID[open].IsActive || !strings.HasSuffix(byID[open].Closes, "from now") {
		t.Errorf("open election summary = %+v", byID[open])
	}
	if byID[closed].IsActive || !strings.HasSuffix(byID[closed].Closes, "ago") {
		t.Errorf("closed election summary = %+v", byID[closed])
	}
}

func TestListElectionsEmpty(t *testing.T) {
	env := newTestEnv(t)

	w := httptest.NewRecorder()
	env.elections.ListElections(w, httptest.NewRequest("GET", "/elections", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("Expected empty JSON array, got %s", body)
	}
}

func TestClosesText(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		end  time.Time
		want string
	}{
		{now.Add(3 * time.Hour), "3 hours from now"},
		{now.Add(-2 * 24 * time.Hour), "2 days ago"},
	}
	for _, tc := range testCases {
		if got := closesText(models.Election{EndTime: tc.end}, now); got != tc.want {
			t.Errorf("closesText(%v) = %q, want %q", tc.end, got, tc.want)
		}
	}
}

func TestGetElection(t *testing.T) {
	env := newTestEnv(t)
	electionID := testutil.CreateOpenElection(t, env.db)
	pos := testutil.AddTestPosition(t, env.db, electionID, "President")
	testutil.AddTestCandidate(t, env.db, pos, "Alice")

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections/"+electionID, nil)
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		env.elections.GetElection(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var detail models.ElectionDetail
		testutil.AssertJSON(t, w, &detail)
		if detail.Election.ID != electionID || !detail.IsActive {
			t.Errorf("detail = %+v", detail)
		}
		if len(detail.Positions) != 1 || detail.Positions[0].Candidates[0].Name != "Alice" {
			t.Errorf("positions = %+v", detail.Positions)
		}
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/elections/missing", nil)
		req.SetPathValue("id", "missing")
		w := httptest.NewRecorder()
		env.elections.GetElection(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
