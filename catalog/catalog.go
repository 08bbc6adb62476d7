// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/evote/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrTitleRequired = errors.New("title is required")
	ErrNameRequired  = errors.New("name is required")
	ErrInvalidWindow = errors.New("end_time must be after start_time")
)

// Store holds elections, positions, and candidates. Voters only read it;
// administrators edit it.
type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store {
	return &Store{db: conn}
}

func validateElection(req models.ElectionRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ErrTitleRequired
	}
	if req.StartTime.IsZero() || req.EndTime.IsZero() || !req.EndTime.After(req.StartTime) {
		return ErrInvalidWindow
	}
	return nil
}

// affected turns a zero-row UPDATE or DELETE into ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Elections

func (s *Store) CreateElection(ctx context.Context, req models.ElectionRequest) (string, error) {
	if err := validateElection(req); err != nil {
		return "", err
	}

	electionID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO election (id, title, description, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, electionID, req.Title, req.Description, req.StartTime.UTC(), req.EndTime.UTC(), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert election: %w", err)
	}
	return electionID, nil
}

func (s *Store) UpdateElection(ctx context.Context, electionID string, req models.ElectionRequest) error {
	if err := validateElection(req); err != nil {
		return err
	}

	err := affected(s.db.ExecContext(ctx, `
		UPDATE election
		SET title = $1, description = $2, start_time = $3, end_time = $4
		WHERE id = $5
	`, req.Title, req.Description, req.StartTime.UTC(), req.EndTime.UTC(), electionID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update election: %w", err)
	}
	return err
}

// DeleteElection removes the election with its positions, candidates, and ballots.
func (s *Store) DeleteElection(ctx context.Context, electionID string) error {
	err := affected(s.db.ExecContext(ctx, `DELETE FROM election WHERE id = $1`, electionID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete election: %w", err)
	}
	return err
}

func (s *Store) GetElection(ctx context.Context, electionID string) (models.Election, error) {
	var e models.Election
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, start_time, end_time, created_at
		FROM election
		WHERE id = $1
	`, electionID).Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.CreatedAt)

	if err == sql.ErrNoRows {
		return models.Election{}, ErrNotFound
	}
	if err != nil {
		return models.Election{}, fmt.Errorf("failed to query election: %w", err)
	}
	return e, nil
}

// ListElections returns all elections, latest start first.
func (s *Store) ListElections(ctx context.Context) ([]models.Election, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, start_time, end_time, created_at
		FROM election
		ORDER BY start_time DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query elections: %w", err)
	}
	defer rows.Close()

	elections := []models.Election{}
	for rows.Next() {
		var e models.Election
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, e)
	}
	return elections, rows.Err()
}
