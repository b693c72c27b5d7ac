package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelous0/erp-textil/pkg/domain/base"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// BaseRepository handles database operations for bases.
type BaseRepository struct {
	db *DB
}

// NewBaseRepository creates a new BaseRepository.
func NewBaseRepository(db *DB) *BaseRepository {
	return &BaseRepository{db: db}
}

const baseColumns = `id, id_muestra_base, patron, imagen, nombre_modelo, aprobado, created_at, updated_at`

// Create inserts a new base.
func (r *BaseRepository) Create(ctx context.Context, b *base.Base) error {
	query := `
		INSERT INTO bases (id, id_muestra_base, patron, imagen, nombre_modelo, aprobado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID.String(), b.SampleID.String(), nullString(b.Pattern), nullString(b.Image),
		nullString(b.ModelName), b.Approved, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: sample does not exist", shared.ErrInvalidInput)
		}
		return fmt.Errorf("failed to create base: %w", err)
	}

	return nil
}

// GetByID retrieves a base by ID.
func (r *BaseRepository) GetByID(ctx context.Context, id shared.ID) (*base.Base, error) {
	query := fmt.Sprintf(`SELECT %s FROM bases WHERE id = $1`, baseColumns)

	b, err := r.scanRow(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFoundError("base", id.String())
		}
		return nil, err
	}
	return b, nil
}

// Update updates a base.
func (r *BaseRepository) Update(ctx context.Context, b *base.Base) error {
	query := `
		UPDATE bases
		SET patron = $2, imagen = $3, nombre_modelo = $4, aprobado = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		b.ID.String(), nullString(b.Pattern), nullString(b.Image),
		nullString(b.ModelName), b.Approved, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update base: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError("base", b.ID.String())
	}

	return nil
}

// Delete removes a base row. Tech sheets and gradings follow via FK cascade.
func (r *BaseRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bases WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete base: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError("base", id.String())
	}

	return nil
}

// List returns all bases, newest first.
func (r *BaseRepository) List(ctx context.Context) ([]*base.Base, error) {
	query := fmt.Sprintf(`SELECT %s FROM bases ORDER BY created_at DESC`, baseColumns)
	return r.queryMany(ctx, query)
}

// ListBySample returns the bases belonging to a sample.
func (r *BaseRepository) ListBySample(ctx context.Context, sampleID shared.ID) ([]*base.Base, error) {
	query := fmt.Sprintf(`SELECT %s FROM bases WHERE id_muestra_base = $1 ORDER BY created_at DESC`, baseColumns)
	return r.queryMany(ctx, query, sampleID.String())
}

func (r *BaseRepository) queryMany(ctx context.Context, query string, args ...any) ([]*base.Base, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bases: %w", err)
	}
	defer rows.Close()

	bases := make([]*base.Base, 0)
	for rows.Next() {
		b, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		bases = append(bases, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bases: %w", err)
	}

	return bases, nil
}

func (r *BaseRepository) scanRow(s rowScanner) (*base.Base, error) {
	var (
		b         base.Base
		idStr     string
		sampleStr string
		pattern   sql.NullString
		image     sql.NullString
		modelName sql.NullString
	)

	err := s.Scan(
		&idStr, &sampleStr, &pattern, &image, &modelName, &b.Approved,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan base: %w", err)
	}

	if b.ID, err = shared.IDFromString(idStr); err != nil {
		return nil, fmt.Errorf("invalid base id in database: %w", err)
	}
	if b.SampleID, err = shared.IDFromString(sampleStr); err != nil {
		return nil, fmt.Errorf("invalid sample id in database: %w", err)
	}

	b.Pattern = nullStringValue(pattern)
	b.Image = nullStringValue(image)
	b.ModelName = nullStringValue(modelName)

	return &b, nil
}
