// Package base provides the base ("base"), tech sheet ("ficha") and grading
// ("tizado") domain models. Tech sheets and gradings only exist as children
// of a base.
package base

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// Base represents a concrete pattern/mold derived from a sample.
type Base struct {
	ID       shared.ID
	SampleID shared.ID

	// Pattern and Image are storage keys; soft references, may be empty.
	Pattern string
	Image   string

	ModelName string // free-text model name
	Approved  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a base for a sample.
func New(sampleID shared.ID) (*Base, error) {
	if sampleID.IsZero() {
		return nil, fmt.Errorf("%w: id_muestra_base is required", shared.ErrValidation)
	}
	now := time.Now().UTC()
	return &Base{ID: shared.NewID(), SampleID: sampleID, CreatedAt: now, UpdatedAt: now}, nil
}

// Touch bumps the update timestamp.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// TechSheet represents a named document attached to a base.
type TechSheet struct {
	ID        shared.ID
	BaseID    shared.ID
	Name      string
	File      string // storage key, may be empty
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTechSheet creates a tech sheet for a base.
func NewTechSheet(baseID shared.ID, name string) (*TechSheet, error) {
	if baseID.IsZero() {
		return nil, fmt.Errorf("%w: id_base is required", shared.ErrValidation)
	}
	now := time.Now().UTC()
	return &TechSheet{
		ID:        shared.NewID(),
		BaseID:    baseID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Touch bumps the update timestamp.
func (t *TechSheet) Touch() {
	t.UpdatedAt = time.Now().UTC()
}

// Grading represents a size-grading configuration attached to a base.
type Grading struct {
	ID        shared.ID
	BaseID    shared.ID
	Width     *float64 // ancho, cm
	Curve     string   // curva, free text
	File      string   // archivo_tizado storage key, may be empty
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGrading creates a grading for a base.
func NewGrading(baseID shared.ID) (*Grading, error) {
	if baseID.IsZero() {
		return nil, fmt.Errorf("%w: id_base is required", shared.ErrValidation)
	}
	now := time.Now().UTC()
	return &Grading{ID: shared.NewID(), BaseID: baseID, CreatedAt: now, UpdatedAt: now}, nil
}

// Validate validates the grading data.
func (g *Grading) Validate() error {
	if g.Width != nil && *g.Width < 0 {
		return fmt.Errorf("%w: ancho must not be negative", shared.ErrValidation)
	}
	return nil
}

// Touch bumps the update timestamp.
func (g *Grading) Touch() {
	g.UpdatedAt = time.Now().UTC()
}
