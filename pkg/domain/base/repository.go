package base

import (
	"context"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// Repository defines the interface for base persistence. Delete removes the
// base row only; tech sheets and gradings follow via FK cascade.
type Repository interface {
	Create(ctx context.Context, b *Base) error
	GetByID(ctx context.Context, id shared.ID) (*Base, error)
	Update(ctx context.Context, b *Base) error
	Delete(ctx context.Context, id shared.ID) error
	List(ctx context.Context) ([]*Base, error)
	ListBySample(ctx context.Context, sampleID shared.ID) ([]*Base, error)
}

// TechSheetRepository defines the interface for tech sheet persistence.
type TechSheetRepository interface {
	Create(ctx context.Context, t *TechSheet) error
	GetByID(ctx context.Context, id shared.ID) (*TechSheet, error)
	Update(ctx context.Context, t *TechSheet) error
	Delete(ctx context.Context, id shared.ID) error
	List(ctx context.Context) ([]*TechSheet, error)
	ListByBase(ctx context.Context, baseID shared.ID) ([]*TechSheet, error)
}

// GradingRepository defines the interface for grading persistence.
type GradingRepository interface {
	Create(ctx context.Context, g *Grading) error
	GetByID(ctx context.Context, id shared.ID) (*Grading, error)
	Update(ctx context.Context, g *Grading) error
	Delete(ctx context.Context, id shared.ID) error
	List(ctx context.Context) ([]*Grading, error)
	ListByBase(ctx context.Context, baseID shared.ID) ([]*Grading, error)
}
