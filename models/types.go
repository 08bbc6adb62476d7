// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Vote outcome constants
const (
	StatusRecorded = "recorded"
	StatusRejected = "rejected"
)

// Request types

type ElectionRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

type PositionRequest struct {
	Title string `json:"title"`
}

type CandidateRequest struct {
	Name      string `json:"name"`
	Manifesto string `json:"manifesto"`
}

type CastVoteRequest struct {
	CandidateID string `json:"candidate_id"`
}

// Response types

type CreatedResponse struct {
	ID string `json:"id"`
}

type CastVoteResponse struct {
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

type BallotFormResponse struct {
	Election  Election                 `json:"election"`
	Positions []PositionWithCandidates `json:"positions"`
	Now       time.Time                `json:"now"`
}

type HasVotedResponse struct {
	HasVoted bool `json:"has_voted"`
}

type TurnoutResponse struct {
	ElectionID string `json:"election_id"`
	TotalVotes int    `json:"total_votes"`
}

type PhotoResponse struct {
	PhotoRef string `json:"photo_ref"`
}

// ElectionSummary is an election listing entry
type ElectionSummary struct {
	Election
	IsActive bool   `json:"is_active"`
	Closes   string `json:"closes"` // e.g. "3 hours from now"
}

type ElectionDetail struct {
	Election  Election                 `json:"election"`
	IsActive  bool                     `json:"is_active"`
	Positions []PositionWithCandidates `json:"positions"`
}

// Domain types

type Election struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsActive reports whether now falls inside [StartTime, EndTime].
func (e Election) IsActive(now time.Time) bool {
	return !now.Before(e.StartTime) && !now.After(e.EndTime)
}

type Position struct {
	ID         string `json:"id"`
	ElectionID string `json:"election_id"`
	Title      string `json:"title"`
}

type Candidate struct {
	ID         string  `json:"id"`
	PositionID string  `json:"position_id"`
	Name       string  `json:"name"`
	PhotoRef   *string `json:"photo_ref,omitempty"`
	Manifesto  string  `json:"manifesto"`
}

type PositionWithCandidates struct {
	Position   Position    `json:"position"`
	Candidates []Candidate `json:"candidates"`
}

// CandidateListing is a candidate with its position title, for admin views
type CandidateListing struct {
	Candidate     Candidate `json:"candidate"`
	PositionTitle string    `json:"position_title"`
}

// Result types

type CandidateResult struct {
	Candidate          Candidate `json:"candidate"`
	Count              int       `json:"count"`
	Percentage         float64   `json:"percentage"`
	PositionPercentage float64   `json:"position_percentage"`
}

type PositionResult struct {
	Position   Position          `json:"position"`
	Candidates []CandidateResult `json:"candidates"`
	TotalVotes int               `json:"total_votes"`
}

type ElectionResults struct {
	Election     Election         `json:"election"`
	Positions    []PositionResult `json:"positions"`
	TotalVotes   int              `json:"total_votes"`
	PercentScope string           `json:"percent_scope"`
}

// AuditResponse maps decoded candidate ids to ballot counts
type AuditResponse struct {
	ElectionID   string         `json:"election_id"`
	Counts       map[string]int `json:"counts"`
	Undecodable  int            `json:"undecodable"`
	TotalBallots int            `json:"total_ballots"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
