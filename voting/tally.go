// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/evote/models"
)

// GetResults tallies an election.
//
// Each candidate's count is the number of ballots whose encoded choice
// equals Encode(candidate.ID). TotalVotes is the sum of those counts over
// every candidate in the election. Percentage is relative to TotalVotes
// unless the service was set to ScopePosition; PositionPercentage is always
// relative to the position's own total.
func (s *Service) GetResults(ctx context.Context, electionID string) (models.ElectionResults, error) {
	election, err := s.catalog.GetElection(ctx, electionID)
	if err != nil {
		return models.ElectionResults{}, err
	}

	positions, err := s.catalog.Ballot(ctx, election.ID)
	if err != nil {
		return models.ElectionResults{}, err
	}

	results := models.ElectionResults{
		Election:     election,
		Positions:    make([]models.PositionResult, 0, len(positions)),
		PercentScope: s.scope,
	}

	for _, p := range positions {
		pr := models.PositionResult{
			Position:   p.Position,
			Candidates: make([]models.CandidateResult, 0, len(p.Candidates)),
		}
		for _, c := range p.Candidates {
			count, err := s.ballots.CountMatching(ctx, election.ID, s.encoder.Encode(c.ID))
			if err != nil {
				return models.ElectionResults{}, fmt.Errorf("failed to count votes for candidate %s: %w", c.ID, err)
			}
			pr.Candidates = append(pr.Candidates, models.CandidateResult{Candidate: c, Count: count})
			pr.TotalVotes += count
		}
		results.TotalVotes += pr.TotalVotes
		results.Positions = append(results.Positions, pr)
	}

	// Percentages need the final totals
	for i := range results.Positions {
		pr := &results.Positions[i]
		for j := range pr.Candidates {
			cr := &pr.Candidates[j]
			cr.PositionPercentage = percentage(cr.Count, pr.TotalVotes)
			if s.scope == ScopePosition {
				cr.Percentage = cr.PositionPercentage
			} else {
				cr.Percentage = percentage(cr.Count, results.TotalVotes)
			}
		}
	}

	return results, nil
}

func percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(count) / float64(total)
}

// Audit decodes every stored choice and counts ballots per candidate id.
// Unlike GetResults it also sees ballots for candidates that were since
// deleted; choices that do not decode are counted separately.
func (s *Service) Audit(ctx context.Context, electionID string) (models.AuditResponse, error) {
	if _, err := s.catalog.GetElection(ctx, electionID); err != nil {
		return models.AuditResponse{}, err
	}

	choices, err := s.ballots.Choices(ctx, electionID)
	if err != nil {
		return models.AuditResponse{}, err
	}

	audit := models.AuditResponse{
		ElectionID:   electionID,
		Counts:       make(map[string]int),
		TotalBallots: len(choices),
	}
	for _, choice := range choices {
		candidateID, err := s.encoder.Decode(choice)
		if err != nil {
			audit.Undecodable++
			continue
		}
		audit.Counts[candidateID]++
	}

	if audit.Undecodable > 0 {
		slog.Warn("undecodable ballots found", "election_id", electionID, "count", audit.Undecodable)
	}
	return audit, nil
}
