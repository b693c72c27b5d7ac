package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelous0/erp-textil/pkg/domain/base"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// GradingRepository handles database operations for gradings.
type GradingRepository struct {
	db *DB
}

// NewGradingRepository creates a new GradingRepository.
func NewGradingRepository(db *DB) *GradingRepository {
	return &GradingRepository{db: db}
}

const gradingColumns = `id, id_base, ancho, curva, archivo_tizado, created_at, updated_at`

// Create inserts a new grading.
func (r *GradingRepository) Create(ctx context.Context, g *base.Grading) error {
	query := `
		INSERT INTO tizados (id, id_base, ancho, curva, archivo_tizado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		g.ID.String(), g.BaseID.String(), nullFloat(g.Width), nullString(g.Curve),
		nullString(g.File), g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: base does not exist", shared.ErrInvalidInput)
		}
		return fmt.Errorf("failed to create grading: %w", err)
	}

	return nil
}

// GetByID retrieves a grading by ID.
func (r *GradingRepository) GetByID(ctx context.Context, id shared.ID) (*base.Grading, error) {
	query := fmt.Sprintf(`SELECT %s FROM tizados WHERE id = $1`, gradingColumns)

	g, err := r.scanRow(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFoundError("tizado", id.String())
		}
		return nil, err
	}
	return g, nil
}

// Update updates a grading.
func (r *GradingRepository) Update(ctx context.Context, g *base.Grading) error {
	query := `
		UPDATE tizados
		SET ancho = $2, curva = $3, archivo_tizado = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		g.ID.String(), nullFloat(g.Width), nullString(g.Curve), nullString(g.File), g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update grading: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError("tizado", g.ID.String())
	}

	return nil
}

// Delete removes a grading.
func (r *GradingRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tizados WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete grading: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError("tizado", id.String())
	}

	return nil
}

// List returns all gradings, newest first.
func (r *GradingRepository) List(ctx context.Context) ([]*base.Grading, error) {
	query := fmt.Sprintf(`SELECT %s FROM tizados ORDER BY created_at DESC`, gradingColumns)
	return r.queryMany(ctx, query)
}

// ListByBase returns the gradings belonging to a base.
func (r *GradingRepository) ListByBase(ctx context.Context, baseID shared.ID) ([]*base.Grading, error) {
	query := fmt.Sprintf(`SELECT %s FROM tizados WHERE id_base = $1 ORDER BY created_at DESC`, gradingColumns)
	return r.queryMany(ctx, query, baseID.String())
}

func (r *GradingRepository) queryMany(ctx context.Context, query string, args ...any) ([]*base.Grading, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list gradings: %w", err)
	}
	defer rows.Close()

	gradings := make([]*base.Grading, 0)
	for rows.Next() {
		g, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		gradings = append(gradings, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gradings: %w", err)
	}

	return gradings, nil
}

func (r *GradingRepository) scanRow(s rowScanner) (*base.Grading, error) {
	var (
		g       base.Grading
		idStr   string
		baseStr string
		width   sql.NullFloat64
		curve   sql.NullString
		file    sql.NullString
	)

	err := s.Scan(&idStr, &baseStr, &width, &curve, &file, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan grading: %w", err)
	}

	if g.ID, err = shared.IDFromString(idStr); err != nil {
		return nil, fmt.Errorf("invalid grading id in database: %w", err)
	}
	if g.BaseID, err = shared.IDFromString(baseStr); err != nil {
		return nil, fmt.Errorf("invalid base id in database: %w", err)
	}

	g.Width = nullFloatValue(width)
	g.Curve = nullStringValue(curve)
	g.File = nullStringValue(file)

	return &g, nil
}
