// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/evote/live"
	"github.com/danielhkuo/evote/middleware"
	"github.com/danielhkuo/evote/models"
	"github.com/danielhkuo/evote/voting"
)

type ResultsHandler struct {
	svc *voting.Service
	hub *live.Hub
}

func NewResultsHandler(svc *voting.Service, hub *live.Hub) *ResultsHandler {
	return &ResultsHandler{svc: svc, hub: hub}
}

// GetResults handles GET /elections/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.GetResults(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "Election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

// Turnout handles GET /elections/{id}/turnout
func (h *ResultsHandler) Turnout(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	total, err := h.svc.Turnout(r.Context(), electionID)
	if err != nil {
		writeError(w, err, "Election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.TurnoutResponse{
		ElectionID: electionID,
		TotalVotes: total,
	})
}

// Live handles GET /elections/{id}/live, upgrading to a websocket that
// receives turnout events.
func (h *ResultsHandler) Live(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	total, err := h.svc.Turnout(r.Context(), electionID)
	if err != nil {
		writeError(w, err, "Election")
		return
	}

	// After the upgrade the response belongs to the websocket
	if err := h.hub.ServeWS(w, r, electionID, live.TurnoutEvent{TotalVotes: total}); err != nil {
		slog.Warn("live feed not started", "election_id", electionID, "error", err)
	}
}
