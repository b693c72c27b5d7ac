package user

import (
	"context"

	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// Repository defines the interface for user persistence.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id shared.ID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id shared.ID) error
	List(ctx context.Context) ([]*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// PermissionRepository persists the sparse permission overrides per user.
type PermissionRepository interface {
	// GetGrants returns the stored overrides for a user. An empty grant set
	// (not an error) is returned when the user has no rows.
	GetGrants(ctx context.Context, userID shared.ID) (permission.Grants, error)

	// ReplaceGrants atomically replaces the user's overrides.
	ReplaceGrants(ctx context.Context, userID shared.ID, grants permission.Grants) error

	// DeleteGrants removes all overrides for a user.
	DeleteGrants(ctx context.Context, userID shared.ID) error
}
