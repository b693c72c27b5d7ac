// Package sample provides the sample ("muestra base") domain model.
//
// A sample is a product-type + fit + fabric (+ optional brand) combination
// under development. It owns zero or more bases; file references on it and
// its descendants are soft string keys into object storage.
package sample

import (
	"fmt"
	"time"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// Sample represents a muestra base.
type Sample struct {
	ID            shared.ID
	ProductTypeID shared.ID
	FitID         shared.ID
	FabricID      shared.ID
	BrandID       *shared.ID

	EstimatedConsumption *float64 // consumo estimado
	EstimatedCost        *float64 // costo estimado
	EstimatedPrice       *float64 // precio estimado

	// CostDocument is the storage key of the cost spreadsheet, if uploaded.
	// Soft reference: no integrity is enforced against object storage.
	CostDocument string

	Approved  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a sample.
func New(productTypeID, fitID, fabricID shared.ID) (*Sample, error) {
	s := &Sample{
		ID:            shared.NewID(),
		ProductTypeID: productTypeID,
		FitID:         fitID,
		FabricID:      fabricID,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate validates the sample data.
func (s *Sample) Validate() error {
	if s.ProductTypeID.IsZero() {
		return fmt.Errorf("%w: id_tipo is required", shared.ErrValidation)
	}
	if s.FitID.IsZero() {
		return fmt.Errorf("%w: id_entalle is required", shared.ErrValidation)
	}
	if s.FabricID.IsZero() {
		return fmt.Errorf("%w: id_tela is required", shared.ErrValidation)
	}
	for _, v := range []*float64{s.EstimatedConsumption, s.EstimatedCost, s.EstimatedPrice} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: estimates must not be negative", shared.ErrValidation)
		}
	}
	return nil
}

// Touch bumps the update timestamp.
func (s *Sample) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
