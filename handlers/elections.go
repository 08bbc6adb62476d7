// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/evote/catalog"
	"github.com/danielhkuo/evote/middleware"
	"github.com/danielhkuo/evote/models"
	"github.com/danielhkuo/evote/voting"
)

// ElectionHandler serves the public election listing.
type ElectionHandler struct {
	catalog *catalog.Store
	clock   voting.Clock
}

func NewElectionHandler(c *catalog.Store, clock voting.Clock) *ElectionHandler {
	if clock == nil {
		clock = voting.SystemClock{}
	}
	return &ElectionHandler{catalog: c, clock: clock}
}

// closesText renders the end time relative to now, e.g. "3 hours from now"
// or "2 days ago".
func closesText(e models.Election, now time.Time) string {
	return humanize.RelTime(e.EndTime, now, "ago", "from now")
}

// ListElections handles GET /elections
func (h *ElectionHandler) ListElections(w http.ResponseWriter, r *http.Request) {
	elections, err := h.catalog.ListElections(r.Context())
	if err != nil {
		writeError(w, err, "Elections")
		return
	}

	now := h.clock.Now()
	summaries := make([]models.ElectionSummary, 0, len(elections))
	for _, e := range elections {
		summaries = append(summaries, models.ElectionSummary{
			Election: e,
			IsActive: e.IsActive(now),
			Closes:   closesText(e, now),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, summaries)
}

// GetElection handles GET /elections/{id}
func (h *ElectionHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	election, err := h.catalog.GetElection(r.Context(), electionID)
	if err != nil {
		writeError(w, err, "Election")
		return
	}

	positions, err := h.catalog.Ballot(r.Context(), electionID)
	if err != nil {
		writeError(w, err, "Election")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionDetail{
		Election:  election,
		IsActive:  election.IsActive(h.clock.Now()),
		Positions: positions,
	})
}
