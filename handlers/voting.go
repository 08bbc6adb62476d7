// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/evote/live"
	"github.com/danielhkuo/evote/middleware"
	"github.com/danielhkuo/evote/models"
	"github.com/danielhkuo/evote/voting"
)

// Messages shown to the voter
const (
	msgRecorded       = "Your vote has been recorded."
	msgAlreadyVoted   = "You have already voted in this election."
	msgEnded          = "This election has ended. You can no longer cast a vote."
	msgClosedOnSubmit = "Submission failed: The polls closed before you submitted your vote."
	msgInvalidChoice  = "Invalid candidate selection."
	msgNotFound       = "Election not found."
)

// VotingHandler serves the voter's side of an election.
type VotingHandler struct {
	svc *voting.Service
	hub *live.Hub
}

func NewVotingHandler(svc *voting.Service, hub *live.Hub) *VotingHandler {
	return &VotingHandler{svc: svc, hub: hub}
}

// rejection maps a rejected VoteResult to a status code and message.
// submitting selects the wording for a closed poll.
func rejection(res voting.VoteResult, submitting bool) (int, string) {
	switch res.Reason {
	case voting.ReasonNotFound:
		return http.StatusNotFound, msgNotFound
	case voting.ReasonAlreadyVoted:
		return http.StatusConflict, msgAlreadyVoted
	case voting.ReasonPollsClosed:
		if submitting {
			return http.StatusForbidden, msgClosedOnSubmit
		}
		return http.StatusForbidden, msgEnded
	case voting.ReasonInvalidChoice:
		return http.StatusBadRequest, msgInvalidChoice
	default:
		return http.StatusInternalServerError, "Unexpected vote outcome"
	}
}

// Ballot handles GET /elections/{id}/ballot
func (h *VotingHandler) Ballot(w http.ResponseWriter, r *http.Request) {
	form, res, err := h.svc.PrepareBallot(r.Context(), r.PathValue("id"), identity(r))
	if err != nil {
		writeError(w, err, "Election")
		return
	}
	if res.Reason != "" {
		code, msg := rejection(res, false)
		middleware.JSONResponse(w, code, models.CastVoteResponse{
			Status:  models.StatusRejected,
			Reason:  string(res.Reason),
			Message: msg,
		})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, form)
}

// CastVote handles POST /elections/{id}/votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req.CandidateID = strings.TrimSpace(req.CandidateID)
	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	res, err := h.svc.CastVote(r.Context(), electionID, identity(r), req.CandidateID)
	if err != nil {
		writeError(w, err, "Election")
		return
	}

	if !res.Recorded {
		code, msg := rejection(res, true)
		middleware.JSONResponse(w, code, models.CastVoteResponse{
			Status:  models.StatusRejected,
			Reason:  string(res.Reason),
			Message: msg,
		})
		return
	}

	h.publishTurnout(r.Context(), electionID)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Status:  models.StatusRecorded,
		Message: msgRecorded,
	})
}

// publishTurnout pushes the new ballot count to live subscribers. The vote
// is already committed, so failures here are only logged.
func (h *VotingHandler) publishTurnout(ctx context.Context, electionID string) {
	if h.hub == nil || h.hub.Subscribers(electionID) == 0 {
		return
	}
	total, err := h.svc.Turnout(ctx, electionID)
	if err != nil {
		slog.Warn("failed to read turnout", "election_id", electionID, "error", err)
		return
	}
	h.hub.Publish(live.TurnoutEvent{ElectionID: electionID, TotalVotes: total})
}

// MyVote handles GET /elections/{id}/my-vote. It says whether the caller
// has voted, never what for.
func (h *VotingHandler) MyVote(w http.ResponseWriter, r *http.Request) {
	voted, err := h.svc.HasVoted(r.Context(), r.PathValue("id"), identity(r))
	if err != nil {
		writeError(w, err, "Election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.HasVotedResponse{HasVoted: voted})
}
