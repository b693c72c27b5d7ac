package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// PermissionRepository stores per-user permission overrides. Each row is a
// single key with an explicit boolean; keys absent from the table fall back
// to deny at resolution time.
type PermissionRepository struct {
	db *DB
}

// NewPermissionRepository creates a new PermissionRepository.
func NewPermissionRepository(db *DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// GetGrants returns the user's permission map. A user with no rows gets an
// empty grant set, not an error.
func (r *PermissionRepository) GetGrants(ctx context.Context, userID shared.ID) (permission.Grants, error) {
	query := `SELECT perm_key, allowed FROM permisos_usuario WHERE user_id = $1`

	rows, err := r.db.QueryContext(ctx, query, userID.String())
	if err != nil {
		return permission.NewGrants(), fmt.Errorf("failed to get grants: %w", err)
	}
	defer rows.Close()

	grants := permission.NewGrants()
	for rows.Next() {
		var (
			key     string
			allowed bool
		)
		if err := rows.Scan(&key, &allowed); err != nil {
			return permission.NewGrants(), fmt.Errorf("failed to scan grant: %w", err)
		}
		grants.SetRaw(key, allowed)
	}

	if err := rows.Err(); err != nil {
		return permission.NewGrants(), fmt.Errorf("failed to iterate grants: %w", err)
	}

	return grants, nil
}

// ReplaceGrants atomically replaces the user's permission map.
func (r *PermissionRepository) ReplaceGrants(ctx context.Context, userID shared.ID, grants permission.Grants) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM permisos_usuario WHERE user_id = $1`, userID.String(),
		); err != nil {
			return fmt.Errorf("failed to clear grants: %w", err)
		}

		for key, allowed := range grants.Wire() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO permisos_usuario (user_id, perm_key, allowed) VALUES ($1, $2, $3)`,
				userID.String(), key, allowed,
			); err != nil {
				return fmt.Errorf("failed to insert grant %s: %w", key, err)
			}
		}

		return nil
	})
}

// DeleteGrants removes all of the user's permission overrides.
func (r *PermissionRepository) DeleteGrants(ctx context.Context, userID shared.ID) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM permisos_usuario WHERE user_id = $1`, userID.String(),
	); err != nil {
		return fmt.Errorf("failed to delete grants: %w", err)
	}
	return nil
}
