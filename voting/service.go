// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/evote/auth"
	"github.com/danielhkuo/evote/ballot"
	"github.com/danielhkuo/evote/catalog"
	"github.com/danielhkuo/evote/models"
)

// Catalog is the reference data the workflow reads.
type Catalog interface {
	GetElection(ctx context.Context, electionID string) (models.Election, error)
	CandidateInElection(ctx context.Context, electionID, candidateID string) (bool, error)
	Ballot(ctx context.Context, electionID string) ([]models.PositionWithCandidates, error)
}

// BallotStore is the durable record of cast votes.
type BallotStore interface {
	InsertIfAbsent(ctx context.Context, electionID, voterToken, encodedChoice string) (ballot.InsertResult, error)
	Exists(ctx context.Context, electionID, voterToken string) (bool, error)
	CountMatching(ctx context.Context, electionID, encodedChoice string) (int, error)
	Count(ctx context.Context, electionID string) (int, error)
	Choices(ctx context.Context, electionID string) ([]string, error)
}

// Reason explains a rejected vote.
type Reason string

const (
	ReasonNotFound      Reason = "not_found"
	ReasonAlreadyVoted  Reason = "already_voted"
	ReasonPollsClosed   Reason = "polls_closed"
	ReasonInvalidChoice Reason = "invalid_choice"
)

// VoteResult is the terminal state of a vote attempt: Recorded, or
// Rejected with a Reason. Rejections are final for the request.
type VoteResult struct {
	Recorded bool
	Reason   Reason
}

func Recorded() VoteResult { return VoteResult{Recorded: true} }

func Rejected(reason Reason) VoteResult { return VoteResult{Reason: reason} }

func (r VoteResult) String() string {
	if r.Recorded {
		return models.StatusRecorded
	}
	return fmt.Sprintf("%s(%s)", models.StatusRejected, r.Reason)
}

// Percentage denominators for CandidateResult.Percentage.
const (
	ScopeElection = "election"
	ScopePosition = "position"
)

// Service runs the cast-vote workflow and the tally.
type Service struct {
	catalog Catalog
	ballots BallotStore
	encoder *ballot.Encoder
	salt    string
	clock   Clock
	scope   string
}

func NewService(c Catalog, b BallotStore, enc *ballot.Encoder, voterSalt string, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		catalog: c,
		ballots: b,
		encoder: enc,
		salt:    voterSalt,
		clock:   clock,
		scope:   ScopeElection,
	}
}

// SetPercentScope selects the denominator of CandidateResult.Percentage:
// ScopeElection (default) or ScopePosition.
func (s *Service) SetPercentScope(scope string) {
	if scope == ScopePosition {
		s.scope = ScopePosition
		return
	}
	s.scope = ScopeElection
}

func (s *Service) pollsClosed(e models.Election) bool {
	return s.clock.Now().After(e.EndTime)
}

// loadElection reports found=false instead of an error for a missing election.
func (s *Service) loadElection(ctx context.Context, electionID string) (election models.Election, found bool, err error) {
	election, err = s.catalog.GetElection(ctx, electionID)
	if errors.Is(err, catalog.ErrNotFound) {
		return models.Election{}, false, nil
	}
	if err != nil {
		return models.Election{}, false, fmt.Errorf("failed to load election: %w", err)
	}
	return election, true, nil
}

// PrepareBallot is the check made before a voter is shown the choices.
// The same checks are repeated by CastVote, which is authoritative.
func (s *Service) PrepareBallot(ctx context.Context, electionID, voterIdentity string) (models.BallotFormResponse, VoteResult, error) {
	election, found, err := s.loadElection(ctx, electionID)
	if err != nil {
		return models.BallotFormResponse{}, VoteResult{}, err
	}
	if !found {
		return models.BallotFormResponse{}, Rejected(ReasonNotFound), nil
	}
	if voterIdentity == "" {
		return models.BallotFormResponse{}, VoteResult{}, auth.ErrUnauthenticated
	}

	if s.pollsClosed(election) {
		return models.BallotFormResponse{}, Rejected(ReasonPollsClosed), nil
	}

	voted, err := s.ballots.Exists(ctx, election.ID, auth.Pseudonymize(voterIdentity, s.salt))
	if err != nil {
		return models.BallotFormResponse{}, VoteResult{}, err
	}
	if voted {
		return models.BallotFormResponse{}, Rejected(ReasonAlreadyVoted), nil
	}

	positions, err := s.catalog.Ballot(ctx, election.ID)
	if err != nil {
		return models.BallotFormResponse{}, VoteResult{}, err
	}

	return models.BallotFormResponse{
		Election:  election,
		Positions: positions,
		Now:       s.clock.Now(),
	}, VoteResult{}, nil
}

// CastVote records one vote for candidateID by voterIdentity.
//
// Nothing is written before the final InsertIfAbsent, so an error or a
// cancelled context at any earlier step leaves no trace. The uniqueness
// check that matters is the one in the ballot table; the Exists call only
// gives an earlier answer.
func (s *Service) CastVote(ctx context.Context, electionID, voterIdentity, candidateID string) (VoteResult, error) {
	election, found, err := s.loadElection(ctx, electionID)
	if err != nil {
		return VoteResult{}, err
	}
	if !found {
		return Rejected(ReasonNotFound), nil
	}

	// Eligibility
	if voterIdentity == "" {
		return VoteResult{}, auth.ErrUnauthenticated
	}
	voterToken := auth.Pseudonymize(voterIdentity, s.salt)

	voted, err := s.ballots.Exists(ctx, election.ID, voterToken)
	if err != nil {
		return VoteResult{}, err
	}
	if voted {
		return Rejected(ReasonAlreadyVoted), nil
	}

	// Time window
	if s.pollsClosed(election) {
		return Rejected(ReasonPollsClosed), nil
	}

	// Choice must stand in this election
	valid, err := s.catalog.CandidateInElection(ctx, election.ID, candidateID)
	if err != nil {
		return VoteResult{}, err
	}
	if !valid {
		slog.Warn("vote for candidate outside election", "election_id", election.ID, "candidate_id", candidateID)
		return Rejected(ReasonInvalidChoice), nil
	}

	// The window may have closed while the voter was choosing
	if s.pollsClosed(election) {
		return Rejected(ReasonPollsClosed), nil
	}

	res, err := s.ballots.InsertIfAbsent(ctx, election.ID, voterToken, s.encoder.Encode(candidateID))
	if err != nil {
		return VoteResult{}, err
	}
	if res == ballot.AlreadyVoted {
		return Rejected(ReasonAlreadyVoted), nil
	}

	slog.Info("ballot recorded", "election_id", election.ID)
	return Recorded(), nil
}

// HasVoted is advisory: a false answer does not guarantee CastVote will
// record a ballot.
func (s *Service) HasVoted(ctx context.Context, electionID, voterIdentity string) (bool, error) {
	if voterIdentity == "" {
		return false, auth.ErrUnauthenticated
	}
	if _, err := s.catalog.GetElection(ctx, electionID); err != nil {
		return false, err
	}
	return s.ballots.Exists(ctx, electionID, auth.Pseudonymize(voterIdentity, s.salt))
}

// Turnout is the number of ballots cast so far.
func (s *Service) Turnout(ctx context.Context, electionID string) (int, error) {
	if _, err := s.catalog.GetElection(ctx, electionID); err != nil {
		return 0, err
	}
	return s.ballots.Count(ctx, electionID)
}
