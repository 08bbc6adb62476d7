// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - ElectionRequest: title, description, start_time, end_time
  - PositionRequest: title
  - CandidateRequest: name, manifesto
  - CastVoteRequest: candidate_id

# Response Types

  - CreatedResponse: id of a new election, position, or candidate
  - CastVoteResponse: status (recorded/rejected), reason, message
  - BallotFormResponse: the positions and candidates a voter may choose from
  - ElectionResults: per-position, per-candidate counts and percentages
  - ErrorResponse: error, message

# Domain Types

  - Election: voting window; IsActive(now) is derived
  - Position: office within an election
  - Candidate: name, optional photo reference, manifesto
*/
package models
