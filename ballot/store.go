// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/evote/db"
)

// InsertResult is the outcome of InsertIfAbsent.
type InsertResult int

const (
	Accepted InsertResult = iota
	AlreadyVoted
)

func (r InsertResult) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case AlreadyVoted:
		return "already_voted"
	default:
		return fmt.Sprintf("InsertResult(%d)", int(r))
	}
}

// Store is the append-only ballot table. It has no update or delete:
// ballots only disappear when their election is deleted.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(conn *sql.DB) *Store {
	return &Store{
		db:  conn,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// InsertIfAbsent records a ballot unless one already exists for
// (electionID, voterToken). The unique index decides; there is no read
// before the write, so concurrent callers with the same key get exactly
// one Accepted.
func (s *Store) InsertIfAbsent(ctx context.Context, electionID, voterToken, encodedChoice string) (InsertResult, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ballot (id, election_id, voter_token, encoded_choice, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), electionID, voterToken, encodedChoice, s.now())

	if db.IsUniqueViolation(err) {
		return AlreadyVoted, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert ballot: %w", err)
	}

	return Accepted, nil
}

// Exists is advisory only. InsertIfAbsent is the source of truth.
func (s *Store) Exists(ctx context.Context, electionID, voterToken string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM ballot
			WHERE election_id = $1 AND voter_token = $2
		)
	`, electionID, voterToken).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ballot: %w", err)
	}
	return exists, nil
}

// CountMatching counts ballots in an election carrying encodedChoice.
func (s *Store) CountMatching(ctx context.Context, electionID, encodedChoice string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ballot
		WHERE election_id = $1 AND encoded_choice = $2
	`, electionID, encodedChoice).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return count, nil
}

// Count returns the number of ballots cast in an election.
func (s *Store) Count(ctx context.Context, electionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ballot WHERE election_id = $1
	`, electionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return count, nil
}

// Choices returns every encoded choice stored for an election, in no
// particular order and without voter tokens.
func (s *Store) Choices(ctx context.Context, electionID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT encoded_choice FROM ballot WHERE election_id = $1
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ballots: %w", err)
	}
	defer rows.Close()

	choices := []string{}
	for rows.Next() {
		var choice string
		if err := rows.Scan(&choice); err != nil {
			return nil, fmt.Errorf("failed to scan ballot: %w", err)
		}
		choices = append(choices, choice)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ballots: %w", err)
	}
	return choices, nil
}
