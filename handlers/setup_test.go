// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/evote/auth"
	"github.com/danielhkuo/evote/ballot"
	"github.com/danielhkuo/evote/catalog"
	"github.com/danielhkuo/evote/cliparse"
	"github.com/danielhkuo/evote/live"
	"github.com/danielhkuo/evote/media"
	"github.com/danielhkuo/evote/middleware"
	"github.com/danielhkuo/evote/testutil"
	"github.com/danielhkuo/evote/voting"
)

type testEnv struct {
	db        *sql.DB
	cfg       cliparse.Config
	hub       *live.Hub
	catalog   *catalog.Store
	svc       *voting.Service
	elections *ElectionHandler
	voting    *VotingHandler
	results   *ResultsHandler
	admin     *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)

	hub := live.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cat := catalog.NewStore(db)
	svc := voting.NewService(cat, ballot.NewStore(db), ballot.NewEncoder(cfg.VoteEncryptionKey), cfg.VoterTokenSalt, nil)

	return &testEnv{
		db:        db,
		cfg:       cfg,
		hub:       hub,
		catalog:   cat,
		svc:       svc,
		elections: NewElectionHandler(cat, nil),
		voting:    NewVotingHandler(svc, hub),
		results:   NewResultsHandler(svc, hub),
		admin:     NewAdminHandler(cat, media.NewStore(cfg.MediaDir), svc),
	}
}

// asPrincipal attaches p to the request as RequireVoter would.
func asPrincipal(req *http.Request, p auth.Principal) *http.Request {
	return req.WithContext(middleware.WithPrincipal(req.Context(), p))
}

func voterRequest(method, path, identity string, body interface{}) *http.Request {
	return asPrincipal(testutil.MakeRequest(method, path, body, nil), testutil.Voter(identity))
}

func adminRequest(method, path string, body interface{}) *http.Request {
	return asPrincipal(testutil.MakeRequest(method, path, body, nil), testutil.Admin())
}

func castVote(h *VotingHandler, electionID, identity, candidateID string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"candidate_id": candidateID})
	req := httptest.NewRequest("POST", "/elections/"+electionID+"/votes", bytes.NewReader(body))
	req.SetPathValue("id", electionID)
	req = asPrincipal(req, testutil.Voter(identity))

	w := httptest.NewRecorder()
	h.CastVote(w, req)
	return w
}
