// Package catalog holds the simple lookup entities: brands, product types
// and fits. They are name-only rows referenced by samples.
package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// Brand represents a customer brand ("marca").
type Brand struct {
	ID        shared.ID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductType represents a product type ("tipo de producto").
type ProductType struct {
	ID        shared.ID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fit represents a garment fit ("entalle").
type Fit struct {
	ID        shared.ID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBrand creates a brand.
func NewBrand(name string) (*Brand, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Brand{ID: shared.NewID(), Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// NewProductType creates a product type.
func NewProductType(name string) (*ProductType, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &ProductType{ID: shared.NewID(), Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// NewFit creates a fit.
func NewFit(name string) (*Fit, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Fit{ID: shared.NewID(), Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if len(name) > 255 {
		return "", fmt.Errorf("%w: name must be at most 255 characters", shared.ErrValidation)
	}
	return name, nil
}

// Rename updates the brand name.
func (b *Brand) Rename(name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	b.Name = name
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// Rename updates the product type name.
func (p *ProductType) Rename(name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	p.Name = name
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Rename updates the fit name.
func (f *Fit) Rename(name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	f.Name = name
	f.UpdatedAt = time.Now().UTC()
	return nil
}
