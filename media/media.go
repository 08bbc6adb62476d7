// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const (
	// ThumbnailSize bounds both sides of a stored photo.
	ThumbnailSize = 400
	// MaxImageSide bounds the declared width and height of an upload.
	MaxImageSide = 8000
	jpegQuality   = 85
	candidateDir  = "candidates"
)

var (
	ErrInvalidImage = errors.New("media: not a JPEG, PNG or GIF image")
	ErrInvalidID    = errors.New("media: invalid candidate id")
	ErrInvalidRef   = errors.New("media: invalid photo reference")
)

// Store keeps candidate photos on local disk under Dir.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

// SaveCandidatePhoto decodes r, shrinks it to fit ThumbnailSize and writes
// it as JPEG. The returned ref is relative to Dir and uses forward slashes.
// Saving again for the same candidate replaces the photo.
func (s *Store) SaveCandidatePhoto(candidateID string, r io.Reader) (string, error) {
	if _, err := uuid.Parse(candidateID); err != nil {
		return "", ErrInvalidID
	}

	// Check the declared size before any pixels are allocated
	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide {
		return "", fmt.Errorf("%w: %dx%d exceeds %d px", ErrInvalidImage, cfg.Width, cfg.Height, MaxImageSide)
	}

	img, _, err := image.Decode(io.MultiReader(&head, r))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	thumbnail := resize.Thumbnail(ThumbnailSize, ThumbnailSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumbnail, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	dir := filepath.Join(s.Dir, candidateDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	// Write then rename so a reader never sees a partial file
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write photo: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write photo: %w", err)
	}

	ref := path.Join(candidateDir, candidateID+".jpg")
	if err := os.Rename(tmp.Name(), filepath.Join(s.Dir, filepath.FromSlash(ref))); err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	return ref, nil
}

// Remove deletes a stored photo. A missing file is not an error.
func (s *Store) Remove(ref string) error {
	p, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	return nil
}

// resolve maps ref to a path inside Dir, refusing anything that escapes it.
func (s *Store) resolve(ref string) (string, error) {
	clean := path.Clean(ref)
	if ref == "" || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidRef
	}
	return filepath.Join(s.Dir, filepath.FromSlash(clean)), nil
}
