package catalog

import (
	"context"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// BrandRepository defines the interface for brand persistence.
type BrandRepository interface {
	Create(ctx context.Context, b *Brand) error
	GetByID(ctx context.Context, id shared.ID) (*Brand, error)
	Update(ctx context.Context, b *Brand) error
	Delete(ctx context.Context, id shared.ID) error
	List(ctx context.Context) ([]*Brand, error)
}

// ProductTypeRepository defines the interface for product type persistence.
type ProductTypeRepository interface {
	Create(ctx context.Context, p *ProductType) error
	GetByID(ctx context.Context, id shared.ID) (*ProductType, error)
	Update(ctx context.Context, p *ProductType) error
	Delete(ctx context.Context, id shared.ID) error
	List(ctx context.Context) ([]*ProductType, error)
}

// FitRepository defines the interface for fit persistence.
type FitRepository interface {
	Create(ctx context.Context, f *Fit) error
	GetByID(ctx context.Context, id shared.ID) (*Fit, error)
	Update(ctx context.Context, f *Fit) error
	Delete(ctx context.Context, id shared.ID) error
	List(ctx context.Context) ([]*Fit, error)
}
