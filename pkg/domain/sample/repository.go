package sample

import (
	"context"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// Repository defines the interface for sample persistence.
//
// Delete removes the sample row only; dependent bases, tech sheets and
// gradings are removed by the database's foreign-key cascade. Object-storage
// cleanup is the orchestrator's job and happens before the row delete.
type Repository interface {
	Create(ctx context.Context, s *Sample) error
	GetByID(ctx context.Context, id shared.ID) (*Sample, error)
	Update(ctx context.Context, s *Sample) error
	Delete(ctx context.Context, id shared.ID) error
	List(ctx context.Context) ([]*Sample, error)
}
