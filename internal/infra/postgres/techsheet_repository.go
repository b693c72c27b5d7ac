package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelous0/erp-textil/pkg/domain/base"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// TechSheetRepository handles database operations for tech sheets.
type TechSheetRepository struct {
	db *DB
}

// NewTechSheetRepository creates a new TechSheetRepository.
func NewTechSheetRepository(db *DB) *TechSheetRepository {
	return &TechSheetRepository{db: db}
}

const techSheetColumns = `id, id_base, nombre, archivo, created_at, updated_at`

// Create inserts a new tech sheet.
func (r *TechSheetRepository) Create(ctx context.Context, t *base.TechSheet) error {
	query := `
		INSERT INTO fichas (id, id_base, nombre, archivo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID.String(), t.BaseID.String(), nullString(t.Name), nullString(t.File),
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: base does not exist", shared.ErrInvalidInput)
		}
		return fmt.Errorf("failed to create tech sheet: %w", err)
	}

	return nil
}

// GetByID retrieves a tech sheet by ID.
func (r *TechSheetRepository) GetByID(ctx context.Context, id shared.ID) (*base.TechSheet, error) {
	query := fmt.Sprintf(`SELECT %s FROM fichas WHERE id = $1`, techSheetColumns)

	t, err := r.scanRow(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFoundError("ficha", id.String())
		}
		return nil, err
	}
	return t, nil
}

// Update updates a tech sheet.
func (r *TechSheetRepository) Update(ctx context.Context, t *base.TechSheet) error {
	query := `
		UPDATE fichas
		SET nombre = $2, archivo = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		t.ID.String(), nullString(t.Name), nullString(t.File), t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update tech sheet: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError("ficha", t.ID.String())
	}

	return nil
}

// Delete removes a tech sheet.
func (r *TechSheetRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM fichas WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete tech sheet: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError("ficha", id.String())
	}

	return nil
}

// List returns all tech sheets, newest first.
func (r *TechSheetRepository) List(ctx context.Context) ([]*base.TechSheet, error) {
	query := fmt.Sprintf(`SELECT %s FROM fichas ORDER BY created_at DESC`, techSheetColumns)
	return r.queryMany(ctx, query)
}

// ListByBase returns the tech sheets belonging to a base.
func (r *TechSheetRepository) ListByBase(ctx context.Context, baseID shared.ID) ([]*base.TechSheet, error) {
	query := fmt.Sprintf(`SELECT %s FROM fichas WHERE id_base = $1 ORDER BY created_at DESC`, techSheetColumns)
	return r.queryMany(ctx, query, baseID.String())
}

func (r *TechSheetRepository) queryMany(ctx context.Context, query string, args ...any) ([]*base.TechSheet, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tech sheets: %w", err)
	}
	defer rows.Close()

	sheets := make([]*base.TechSheet, 0)
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tech sheets: %w", err)
	}

	return sheets, nil
}

func (r *TechSheetRepository) scanRow(s rowScanner) (*base.TechSheet, error) {
	var (
		t       base.TechSheet
		idStr   string
		baseStr string
		name    sql.NullString
		file    sql.NullString
	)

	err := s.Scan(&idStr, &baseStr, &name, &file, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan tech sheet: %w", err)
	}

	if t.ID, err = shared.IDFromString(idStr); err != nil {
		return nil, fmt.Errorf("invalid tech sheet id in database: %w", err)
	}
	if t.BaseID, err = shared.IDFromString(baseStr); err != nil {
		return nil, fmt.Errorf("invalid base id in database: %w", err)
	}

	t.Name = nullStringValue(name)
	t.File = nullStringValue(file)

	return &t, nil
}
