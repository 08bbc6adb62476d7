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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var c models.Candidate
	var photo sql.NullString
	if err := row.Scan(&c.ID, &c.PositionID, &c.Name, &photo, &c.Manifesto); err != nil {
		return models.Candidate{}, err
	}
	if photo.Valid {
		c.PhotoRef = &photo.String
	}
	return c, nil
}

func (s *Store) CreateCandidate(ctx context.Context, positionID string, req models.CandidateRequest) (string, error) {
	if strings.TrimSpace(req.Name) == "" {
		return "", ErrNameRequired
	}
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return "", err
	}

	candidateID := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidate (id, position_id, name, manifesto)
		VALUES ($1, $2, $3, $4)
	`, candidateID, positionID, req.Name, req.Manifesto)
	if err != nil {
		return "", fmt.Errorf("failed to insert candidate: %w", err)
	}
	return candidateID, nil
}

func (s *Store) UpdateCandidate(ctx context.Context, candidateID string, req models.CandidateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return ErrNameRequired
	}

	err := affected(s.db.ExecContext(ctx, `
		UPDATE candidate SET name = $1, manifesto = $2 WHERE id = $3
	`, req.Name, req.Manifesto, candidateID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	return err
}

// SetCandidatePhoto stores the photo reference produced by the media store.
func (s *Store) SetCandidatePhoto(ctx context.Context, candidateID, photoRef string) error {
	err := affected(s.db.ExecContext(ctx, `
		UPDATE candidate SET photo_ref = $1 WHERE id = $2
	`, photoRef, candidateID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to update candidate photo: %w", err)
	}
	return err
}

func (s *Store) DeleteCandidate(ctx context.Context, candidateID string) error {
	err := affected(s.db.ExecContext(ctx, `DELETE FROM candidate WHERE id = $1`, candidateID))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}
	return err
}

func (s *Store) GetCandidate(ctx context.Context, candidateID string) (models.Candidate, error) {
	c, err := scanCandidate(s.db.QueryRowContext(ctx, `
		SELECT id, position_id, name, photo_ref, manifesto
		FROM candidate
		WHERE id = $1
	`, candidateID))

	if err == sql.ErrNoRows {
		return models.Candidate{}, ErrNotFound
	}
	if err != nil {
		return models.Candidate{}, fmt.Errorf("failed to query candidate: %w", err)
	}
	return c, nil
}

// ListCandidates returns every candidate standing in an election.
func (s *Store) ListCandidates(ctx context.Context, electionID string) ([]models.CandidateListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.position_id, c.name, c.photo_ref, c.manifesto, p.title
		FROM candidate c
		JOIN position p ON p.id = c.position_id
		WHERE p.election_id = $1
		ORDER BY p.title, c.name, c.id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	listings := []models.CandidateListing{}
	for rows.Next() {
		var l models.CandidateListing
		var photo sql.NullString
		err := rows.Scan(&l.Candidate.ID, &l.Candidate.PositionID, &l.Candidate.Name,
			&photo, &l.Candidate.Manifesto, &l.PositionTitle)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		if photo.Valid {
			l.Candidate.PhotoRef = &photo.String
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// CandidateInElection reports whether candidateID stands for a position
// of electionID.
func (s *Store) CandidateInElection(ctx context.Context, electionID, candidateID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM candidate c
			JOIN position p ON p.id = c.position_id
			WHERE c.id = $1 AND p.election_id = $2
		)
	`, candidateID, electionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check candidate: %w", err)
	}
	return exists, nil
}
