package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/angelous0/erp-textil/pkg/domain/catalog"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// The three catalog tables (marcas, tipos_producto, entalles) share the same
// (id, nombre, created_at, updated_at) shape, so thin per-entity repositories
// delegate to shared helpers below.

// BrandRepository handles database operations for brands.
type BrandRepository struct {
	db *DB
}

// NewBrandRepository creates a new BrandRepository.
func NewBrandRepository(db *DB) *BrandRepository {
	return &BrandRepository{db: db}
}

// Create inserts a new brand.
func (r *BrandRepository) Create(ctx context.Context, b *catalog.Brand) error {
	return createNamed(ctx, r.db, "marcas", "marca", b.ID, b.Name, b.CreatedAt, b.UpdatedAt)
}

// GetByID retrieves a brand by ID.
func (r *BrandRepository) GetByID(ctx context.Context, id shared.ID) (*catalog.Brand, error) {
	rec, err := getNamed(ctx, r.db, "marcas", "marca", id)
	if err != nil {
		return nil, err
	}
	return &catalog.Brand{ID: rec.id, Name: rec.name, CreatedAt: rec.createdAt, UpdatedAt: rec.updatedAt}, nil
}

// Update updates a brand.
func (r *BrandRepository) Update(ctx context.Context, b *catalog.Brand) error {
	return updateNamed(ctx, r.db, "marcas", "marca", b.ID, b.Name, b.UpdatedAt)
}

// Delete removes a brand.
func (r *BrandRepository) Delete(ctx context.Context, id shared.ID) error {
	return deleteNamed(ctx, r.db, "marcas", "marca", id)
}

// List returns all brands ordered by name.
func (r *BrandRepository) List(ctx context.Context) ([]*catalog.Brand, error) {
	recs, err := listNamed(ctx, r.db, "marcas")
	if err != nil {
		return nil, err
	}
	out := make([]*catalog.Brand, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &catalog.Brand{ID: rec.id, Name: rec.name, CreatedAt: rec.createdAt, UpdatedAt: rec.updatedAt})
	}
	return out, nil
}

// ProductTypeRepository handles database operations for product types.
type ProductTypeRepository struct {
	db *DB
}

// NewProductTypeRepository creates a new ProductTypeRepository.
func NewProductTypeRepository(db *DB) *ProductTypeRepository {
	return &ProductTypeRepository{db: db}
}

// Create inserts a new product type.
func (r *ProductTypeRepository) Create(ctx context.Context, t *catalog.ProductType) error {
	return createNamed(ctx, r.db, "tipos_producto", "tipo de producto", t.ID, t.Name, t.CreatedAt, t.UpdatedAt)
}

// GetByID retrieves a product type by ID.
func (r *ProductTypeRepository) GetByID(ctx context.Context, id shared.ID) (*catalog.ProductType, error) {
	rec, err := getNamed(ctx, r.db, "tipos_producto", "tipo de producto", id)
	if err != nil {
		return nil, err
	}
	return &catalog.ProductType{ID: rec.id, Name: rec.name, CreatedAt: rec.createdAt, UpdatedAt: rec.updatedAt}, nil
}

// Update updates a product type.
func (r *ProductTypeRepository) Update(ctx context.Context, t *catalog.ProductType) error {
	return updateNamed(ctx, r.db, "tipos_producto", "tipo de producto", t.ID, t.Name, t.UpdatedAt)
}

// Delete removes a product type.
func (r *ProductTypeRepository) Delete(ctx context.Context, id shared.ID) error {
	return deleteNamed(ctx, r.db, "tipos_producto", "tipo de producto", id)
}

// List returns all product types ordered by name.
func (r *ProductTypeRepository) List(ctx context.Context) ([]*catalog.ProductType, error) {
	recs, err := listNamed(ctx, r.db, "tipos_producto")
	if err != nil {
		return nil, err
	}
	out := make([]*catalog.ProductType, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &catalog.ProductType{ID: rec.id, Name: rec.name, CreatedAt: rec.createdAt, UpdatedAt: rec.updatedAt})
	}
	return out, nil
}

// FitRepository handles database operations for fits.
type FitRepository struct {
	db *DB
}

// NewFitRepository creates a new FitRepository.
func NewFitRepository(db *DB) *FitRepository {
	return &FitRepository{db: db}
}

// Create inserts a new fit.
func (r *FitRepository) Create(ctx context.Context, f *catalog.Fit) error {
	return createNamed(ctx, r.db, "entalles", "entalle", f.ID, f.Name, f.CreatedAt, f.UpdatedAt)
}

// GetByID retrieves a fit by ID.
func (r *FitRepository) GetByID(ctx context.Context, id shared.ID) (*catalog.Fit, error) {
	rec, err := getNamed(ctx, r.db, "entalles", "entalle", id)
	if err != nil {
		return nil, err
	}
	return &catalog.Fit{ID: rec.id, Name: rec.name, CreatedAt: rec.createdAt, UpdatedAt: rec.updatedAt}, nil
}

// Update updates a fit.
func (r *FitRepository) Update(ctx context.Context, f *catalog.Fit) error {
	return updateNamed(ctx, r.db, "entalles", "entalle", f.ID, f.Name, f.UpdatedAt)
}

// Delete removes a fit.
func (r *FitRepository) Delete(ctx context.Context, id shared.ID) error {
	return deleteNamed(ctx, r.db, "entalles", "entalle", id)
}

// List returns all fits ordered by name.
func (r *FitRepository) List(ctx context.Context) ([]*catalog.Fit, error) {
	recs, err := listNamed(ctx, r.db, "entalles")
	if err != nil {
		return nil, err
	}
	out := make([]*catalog.Fit, 0, len(recs))
	for _, rec := range recs {
		out = append(out, &catalog.Fit{ID: rec.id, Name: rec.name, CreatedAt: rec.createdAt, UpdatedAt: rec.updatedAt})
	}
	return out, nil
}

// Shared helpers over the common (id, nombre, created_at, updated_at) shape.
// Table names are compile-time constants at every call site, never user input.

type namedRow struct {
	id        shared.ID
	name      string
	createdAt time.Time
	updatedAt time.Time
}

func createNamed(ctx context.Context, db *DB, table, resource string, id shared.ID, name string, createdAt, updatedAt time.Time) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, nombre, created_at, updated_at) VALUES ($1, $2, $3, $4)`, table,
	)
	if _, err := db.ExecContext(ctx, query, id.String(), name, createdAt, updatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %q", shared.ErrAlreadyExists, resource, name)
		}
		return fmt.Errorf("failed to create %s: %w", resource, err)
	}
	return nil
}

func getNamed(ctx context.Context, db *DB, table, resource string, id shared.ID) (*namedRow, error) {
	query := fmt.Sprintf(
		`SELECT id, nombre, created_at, updated_at FROM %s WHERE id = $1`, table,
	)

	var (
		idStr string
		rec   namedRow
	)
	err := db.QueryRowContext(ctx, query, id.String()).Scan(&idStr, &rec.name, &rec.createdAt, &rec.updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFoundError(resource, id.String())
		}
		return nil, fmt.Errorf("failed to get %s: %w", resource, err)
	}

	rec.id, err = shared.IDFromString(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid %s id in database: %w", resource, err)
	}

	return &rec, nil
}

func updateNamed(ctx context.Context, db *DB, table, resource string, id shared.ID, name string, updatedAt time.Time) error {
	query := fmt.Sprintf(
		`UPDATE %s SET nombre = $2, updated_at = $3 WHERE id = $1`, table,
	)

	result, err := db.ExecContext(ctx, query, id.String(), name, updatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s %q", shared.ErrAlreadyExists, resource, name)
		}
		return fmt.Errorf("failed to update %s: %w", resource, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError(resource, id.String())
	}

	return nil
}

func deleteNamed(ctx context.Context, db *DB, table, resource string, id shared.ID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table)

	result, err := db.ExecContext(ctx, query, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", resource, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError(resource, id.String())
	}

	return nil
}

func listNamed(ctx context.Context, db *DB, table string) ([]namedRow, error) {
	query := fmt.Sprintf(
		`SELECT id, nombre, created_at, updated_at FROM %s ORDER BY nombre ASC`, table,
	)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	records := make([]namedRow, 0)
	for rows.Next() {
		var (
			idStr string
			rec   namedRow
		)
		if err := rows.Scan(&idStr, &rec.name, &rec.createdAt, &rec.updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		rec.id, err = shared.IDFromString(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid id in %s: %w", table, err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}

	return records, nil
}
