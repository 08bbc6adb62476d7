// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/evote/models"
)

func (s *Store) CreatePosition(ctx context.Context, electionID, title string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", ErrTitleRequired
	}
	if _, err := s.GetElection(ctx, electionID); err != nil {
		return "", err
	}

	positionID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO position (id, election_id, title)
		VALUES ($1, $2, $3)
	`, positionID, electionID, title)
	if err != nil {
		return "", fmt.Errorf("failed to insert position: %w", err)
	}
	return positionID, nil
}

func (s *Store) UpdatePosition(ctx context.Context, positionID, title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}

	err := affected(s.db.ExecContext(ctx, `
		UPDATE position SET title = $1 WHERE id = $2
	`, title, positionID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update position: %w", err)
	}
	return err
}

func (s *Store) DeletePosition(ctx context.Context, positionID string) error {
	err := affected(s.db.ExecContext(ctx, `DELETE FROM position WHERE id = $1`, positionID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	return err
}

func (s *Store) GetPosition(ctx context.Context, positionID string) (models.Position, error) {
	var p models.Position
	err := s.db.QueryRowContext(ctx, `
		SELECT id, election_id, title FROM position WHERE id = $1
	`, positionID).Scan(&p.ID, &p.ElectionID, &p.Title)

	if err == sql.ErrNoRows {
		return models.Position{}, ErrNotFound
	}
	if err != nil {
		return models.Position{}, fmt.Errorf("failed to query position: %w", err)
	}
	return p, nil
}

func (s *Store) ListPositions(ctx context.Context, electionID string) ([]models.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, election_id, title
		FROM position
		WHERE election_id = $1
		ORDER BY title, id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.ElectionID, &p.Title); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// Ballot returns every position of an election with its candidates.
// Positions without candidates are included with an empty list.
func (s *Store) Ballot(ctx context.Context, electionID string) ([]models.PositionWithCandidates, error) {
	positions, err := s.ListPositions(ctx, electionID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.position_id, c.name, c.photo_ref, c.manifesto
		FROM candidate c
		JOIN position p ON p.id = c.position_id
		WHERE p.election_id = $1
		ORDER BY c.name, c.id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	byPosition := make(map[string][]models.Candidate)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		byPosition[c.PositionID] = append(byPosition[c.PositionID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}

	result := make([]models.PositionWithCandidates, 0, len(positions))
	for _, p := range positions {
		candidates := byPosition[p.ID]
		if candidates == nil {
			candidates = []models.Candidate{}
		}
		result = append(result, models.PositionWithCandidates{Position: p, Candidates: candidates})
	}
	return result, nil
}
