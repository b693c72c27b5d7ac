package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelous0/erp-textil/pkg/domain/fabric"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// FabricRepository handles database operations for fabrics.
type FabricRepository struct {
	db *DB
}

// NewFabricRepository creates a new FabricRepository.
func NewFabricRepository(db *DB) *FabricRepository {
	return &FabricRepository{db: db}
}

const fabricColumns = `id, nombre_tela, gramaje, elasticidad, proveedor, ancho_estandar, color, created_at, updated_at`

// Create inserts a new fabric.
func (r *FabricRepository) Create(ctx context.Context, f *fabric.Fabric) error {
	query := `
		INSERT INTO telas (id, nombre_tela, gramaje, elasticidad, proveedor, ancho_estandar, color, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		f.ID.String(), f.Name, nullFloat(f.Weight), nullString(f.Elasticity),
		nullString(f.Supplier), nullFloat(f.StandardWidth), nullString(f.Color),
		f.CreatedAt, f.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tela %q", shared.ErrAlreadyExists, f.Name)
		}
		return fmt.Errorf("failed to create fabric: %w", err)
	}

	return nil
}

// GetByID retrieves a fabric by ID.
func (r *FabricRepository) GetByID(ctx context.Context, id shared.ID) (*fabric.Fabric, error) {
	query := fmt.Sprintf(`SELECT %s FROM telas WHERE id = $1`, fabricColumns)

	f, err := r.scanRow(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFoundError("tela", id.String())
		}
		return nil, err
	}
	return f, nil
}

// Update updates a fabric.
func (r *FabricRepository) Update(ctx context.Context, f *fabric.Fabric) error {
	query := `
		UPDATE telas
		SET nombre_tela = $2, gramaje = $3, elasticidad = $4, proveedor = $5,
		    ancho_estandar = $6, color = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		f.ID.String(), f.Name, nullFloat(f.Weight), nullString(f.Elasticity),
		nullString(f.Supplier), nullFloat(f.StandardWidth), nullString(f.Color),
		f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update fabric: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError("tela", f.ID.String())
	}

	return nil
}

// Delete removes a fabric.
func (r *FabricRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM telas WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete fabric: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError("tela", id.String())
	}

	return nil
}

// List returns all fabrics ordered by name.
func (r *FabricRepository) List(ctx context.Context) ([]*fabric.Fabric, error) {
	query := fmt.Sprintf(`SELECT %s FROM telas ORDER BY nombre_tela ASC`, fabricColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fabrics: %w", err)
	}
	defer rows.Close()

	fabrics := make([]*fabric.Fabric, 0)
	for rows.Next() {
		f, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		fabrics = append(fabrics, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fabrics: %w", err)
	}

	return fabrics, nil
}

func (r *FabricRepository) scanRow(s rowScanner) (*fabric.Fabric, error) {
	var (
		f          fabric.Fabric
		idStr      string
		weight     sql.NullFloat64
		elasticity sql.NullString
		supplier   sql.NullString
		width      sql.NullFloat64
		color      sql.NullString
	)

	err := s.Scan(
		&idStr, &f.Name, &weight, &elasticity, &supplier, &width, &color,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan fabric: %w", err)
	}

	id, err := shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid fabric id in database: %w", err)
	}

	f.ID = id
	f.Weight = nullFloatValue(weight)
	f.Elasticity = nullStringValue(elasticity)
	f.Supplier = nullStringValue(supplier)
	f.StandardWidth = nullFloatValue(width)
	f.Color = nullStringValue(color)

	return &f, nil
}
