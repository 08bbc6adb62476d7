// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/evote/live"
	"github.com/danielhkuo/evote/middleware"
	"github.com/danielhkuo/evote/models"
	"github.com/danielhkuo/evote/testutil"
)

func TestGetResults(t *testing.T) {
	env := newTestEnv(t)

	electionID := testutil.CreateOpenElection(t, env.db)
	pos := testutil.AddTestPosition(t, env.db, electionID, "President")
	alice := testutil.AddTestCandidate(t, env.db, pos, "Alice")
	bob := testutil.AddTestCandidate(t, env.db, pos, "Bob")

	castVote(env.voting, electionID, "u1", alice)
	castVote(env.voting, electionID, "u1", bob)
	castVote(env.voting, electionID, "u2", bob)

	req := voterRequest("GET", "/elections/"+electionID+"/results", "u1", nil)
	req.SetPathValue("id", electionID)
	w := httptest.NewRecorder()
	env.results.GetResults(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var results models.ElectionResults
	testutil.AssertJSON(t, w, &results)

	if results.TotalVotes != 2 {
		t.Errorf("total_votes = %d, want 2", results.TotalVotes)
	}
	for _, c := range results.Positions[0].Candidates {
		if c.Count != 1 || c.Percentage != 50 {
			t.Errorf("%s: count=%d percentage=%v, want 1 and 50", c.Candidate.Name, c.Count, c.Percentage)
		}
	}

	// Results must not leak ballot internals
	body := w.Body.String()
	for _, field := range []string{"voter_token", "encoded_choice"} {
		if strings.Contains(body, field) {
			t.Errorf("results expose %s", field)
		}
	}
}

func TestGetResultsUnknownElection(t *testing.T) {
	env := newTestEnv(t)

	req := voterRequest("GET", "/elections/missing/results", "u1", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	env.results.GetResults(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestTurnout(t *testing.T) {
	env := newTestEnv(t)
	electionID := testutil.CreateOpenElection(t, env.db)
	pos := testutil.AddTestPosition(t, env.db, electionID, "President")
	alice := testutil.AddTestCandidate(t, env.db, pos, "Alice")

	for _, voter := range []string{"u1", "u2", "u3"} {
		castVote(env.voting, electionID, voter, alice)
	}

	req := httptest.NewRequest("GET", "/elections/"+electionID+"/turnout", nil)
	req.SetPathValue("id", electionID)
	w := httptest.NewRecorder()
	env.results.Turnout(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var resp models.TurnoutResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TotalVotes != 3 || resp.ElectionID != electionID {
		t.Errorf("turnout = %+v", resp)
	}
}

func TestLiveFeedReceivesTurnout(t *testing.T) {
	env := newTestEnv(t)
	electionID := testutil.CreateOpenElection(t, env.db)
	pos := testutil.AddTestPosition(t, env.db, electionID, "President")
	alice := testutil.AddTestCandidate(t, env.db, pos, "Alice")
	castVote(env.voting, electionID, "early", alice)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /elections/{id}/live", middleware.RequireVoter(env.cfg.JWTSecret, env.results.Live))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	header := http.Header{}
	header.Set("Authorization", testutil.BearerHeader(t, env.cfg, testutil.Voter("watcher")))
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/elections/" + electionID + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	read := func() live.TurnoutEvent {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var ev live.TurnoutEvent
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		return ev
	}

	if ev := read(); ev.TotalVotes != 1 {
		t.Errorf("initial turnout = %d, want 1", ev.TotalVotes)
	}

	deadline := time.Now().Add(5 * time.Second)
	for env.hub.Subscribers(electionID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	testutil.AssertStatus(t, castVote(env.voting, electionID, "u2", alice), http.StatusCreated)

	ev := read()
	if ev.TotalVotes != 2 || ev.ElectionID != electionID {
		t.Errorf("event = %+v, want total 2 for %s", ev, electionID)
	}
}

func TestLiveFeedUnknownElection(t *testing.T) {
	env := newTestEnv(t)

	req := voterRequest("GET", "/elections/missing/live", "u1", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()
	env.results.Live(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}
