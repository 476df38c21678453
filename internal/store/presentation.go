// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists presentation documents in PostgreSQL. The slide
// tree is stored as a single JSONB column; every mutation rewrites the
// whole document, so concurrent writers are last-write-wins.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"visiondeck/internal/models"
)

var (
	// ErrNotFound is returned by mutation methods when the presentation
	// id does not resolve.
	ErrNotFound = errors.New("presentation not found")

	// ErrInvalidIndex is returned when a slide index falls outside the
	// document's slide range.
	ErrInvalidIndex = errors.New("invalid slide index")
)

// PresentationStore handles all presentation-related database operations.
type PresentationStore struct {
	db *sql.DB
}

// NewPresentationStore creates a new PresentationStore with the given
// database connection.
func NewPresentationStore(db *sql.DB) *PresentationStore {
	return &PresentationStore{db: db}
}

// Create inserts a new presentation and returns it with the generated ID
// and timestamps.
func (s *PresentationStore) Create(p *models.Presentation) (*models.Presentation, error) {
	payload, err := json.Marshal(p.Slides)
	if err != nil {
		return nil, fmt.Errorf("marshal slides: %w", err)
	}

	result := &models.Presentation{}
	var raw []byte
	err = s.db.QueryRow(`
		INSERT INTO presentations (title, slides)
		VALUES ($1, $2)
		RETURNING id, title, slides, created_at, updated_at
	`, p.Title, payload).Scan(
		&result.ID, &result.Title, &raw, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create presentation: %w", err)
	}

	if err := json.Unmarshal(raw, &result.Slides); err != nil {
		return nil, fmt.Errorf("unmarshal slides: %w", err)
	}
	return result, nil
}

// FindByID retrieves a presentation by its UUID. Returns nil if not found.
// Legacy flat-color backgrounds are canonicalized to the theme pair during
// decoding.
func (s *PresentationStore) FindByID(id uuid.UUID) (*models.Presentation, error) {
	p := &models.Presentation{}
	var raw []byte
	err := s.db.QueryRow(`
		SELECT id, title, slides, created_at, updated_at
		FROM presentations WHERE id = $1
	`, id).Scan(&p.ID, &p.Title, &raw, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find presentation by id: %w", err)
	}

	if err := json.Unmarshal(raw, &p.Slides); err != nil {
		return nil, fmt.Errorf("unmarshal slides: %w", err)
	}
	return p, nil
}

// ReplaceSlide shallow-merges the patch onto the slide at index and saves
// the whole document. Fields absent from the patch are preserved. Returns
// ErrNotFound for an unknown id and ErrInvalidIndex for an out-of-range
// index; in both cases the stored document is untouched.
func (s *PresentationStore) ReplaceSlide(id uuid.UUID, index int, patch *models.SlidePatch) (*models.Presentation, error) {
	p, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}

	if index < 0 || index >= len(p.Slides) {
		return nil, fmt.Errorf("%w: %d of %d slides", ErrInvalidIndex, index, len(p.Slides))
	}

	patch.Apply(&p.Slides[index])

	return s.save(p)
}

// ApplyGlobalStyle broadcasts the given theme and/or transition onto every
// slide's background, then saves. A nil field is a no-op, not a clear.
func (s *PresentationStore) ApplyGlobalStyle(id uuid.UUID, theme, transition *string) (*models.Presentation, error) {
	p, err := s.FindByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}

	for i := range p.Slides {
		if theme != nil {
			p.Slides[i].Background.Theme = *theme
		}
		if transition != nil {
			p.Slides[i].Background.Transition = *transition
		}
	}

	return s.save(p)
}

// save rewrites the full slide document. Last write wins; there is no
// version token.
func (s *PresentationStore) save(p *models.Presentation) (*models.Presentation, error) {
	payload, err := json.Marshal(p.Slides)
	if err != nil {
		return nil, fmt.Errorf("marshal slides: %w", err)
	}

	err = s.db.QueryRow(`
		UPDATE presentations
		SET slides = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`, payload, p.ID).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("save presentation: %w", err)
	}
	return p, nil
}
