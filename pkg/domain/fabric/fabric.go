// Package fabric provides the fabric ("tela") domain model.
package fabric

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// Fabric represents a fabric used to develop samples.
type Fabric struct {
	ID            shared.ID
	Name          string
	Weight        *float64 // gramaje, g/m2
	Elasticity    string
	Supplier      string
	StandardWidth *float64 // ancho estandar, cm
	Color         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// New creates a fabric.
func New(name string) (*Fabric, error) {
	f := &Fabric{
		ID:        shared.NewID(),
		Name:      strings.TrimSpace(name),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate validates the fabric data.
func (f *Fabric) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: nombre_tela is required", shared.ErrValidation)
	}
	if f.Weight != nil && *f.Weight < 0 {
		return fmt.Errorf("%w: gramaje must not be negative", shared.ErrValidation)
	}
	if f.StandardWidth != nil && *f.StandardWidth < 0 {
		return fmt.Errorf("%w: ancho_estandar must not be negative", shared.ErrValidation)
	}
	return nil
}

// Touch bumps the update timestamp.
func (f *Fabric) Touch() {
	f.UpdatedAt = time.Now().UTC()
}

// Repository defines the interface for fabric persistence.
type Repository interface {
	Create(ctx context.Context, f *Fabric) error
	GetByID(ctx context.Context, id shared.ID) (*Fabric, error)
	Update(ctx context.Context, f *Fabric) error
	Delete(ctx context.Context, id shared.ID) error
	List(ctx context.Context) ([]*Fabric, error)
}
