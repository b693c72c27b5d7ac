package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelous0/erp-textil/pkg/domain/sample"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// SampleRepository handles database operations for samples.
type SampleRepository struct {
	db *DB
}

// NewSampleRepository creates a new SampleRepository.
func NewSampleRepository(db *DB) *SampleRepository {
	return &SampleRepository{db: db}
}

const sampleColumns = `id, id_tipo, id_entalle, id_tela, id_marca, consumo_estimado, costo_estimado, precio_estimado, archivo_costo, aprobado, created_at, updated_at`

// Create inserts a new sample.
func (r *SampleRepository) Create(ctx context.Context, s *sample.Sample) error {
	query := `
		INSERT INTO muestras_base (id, id_tipo, id_entalle, id_tela, id_marca,
			consumo_estimado, costo_estimado, precio_estimado, archivo_costo,
			aprobado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID.String(), s.ProductTypeID.String(), s.FitID.String(), s.FabricID.String(),
		nullID(s.BrandID), nullFloat(s.EstimatedConsumption), nullFloat(s.EstimatedCost),
		nullFloat(s.EstimatedPrice), nullString(s.CostDocument), s.Approved,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced catalog record does not exist", shared.ErrInvalidInput)
		}
		return fmt.Errorf("failed to create sample: %w", err)
	}

	return nil
}

// GetByID retrieves a sample by ID.
func (r *SampleRepository) GetByID(ctx context.Context, id shared.ID) (*sample.Sample, error) {
	query := fmt.Sprintf(`SELECT %s FROM muestras_base WHERE id = $1`, sampleColumns)

	s, err := r.scanRow(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.NotFoundError("muestra base", id.String())
		}
		return nil, err
	}
	return s, nil
}

// Update updates a sample.
func (r *SampleRepository) Update(ctx context.Context, s *sample.Sample) error {
	query := `
		UPDATE muestras_base
		SET id_tipo = $2, id_entalle = $3, id_tela = $4, id_marca = $5,
		    consumo_estimado = $6, costo_estimado = $7, precio_estimado = $8,
		    archivo_costo = $9, aprobado = $10, updated_at = $11
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		s.ID.String(), s.ProductTypeID.String(), s.FitID.String(), s.FabricID.String(),
		nullID(s.BrandID), nullFloat(s.EstimatedConsumption), nullFloat(s.EstimatedCost),
		nullFloat(s.EstimatedPrice), nullString(s.CostDocument), s.Approved, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: referenced catalog record does not exist", shared.ErrInvalidInput)
		}
		return fmt.Errorf("failed to update sample: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError("muestra base", s.ID.String())
	}

	return nil
}

// Delete removes a sample row. Dependent bases, tech sheets and gradings are
// removed by the ON DELETE CASCADE foreign keys in a single statement.
func (r *SampleRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM muestras_base WHERE id = $1`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete sample: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return shared.NotFoundError("muestra base", id.String())
	}

	return nil
}

// List returns all samples, newest first.
func (r *SampleRepository) List(ctx context.Context) ([]*sample.Sample, error) {
	query := fmt.Sprintf(`SELECT %s FROM muestras_base ORDER BY created_at DESC`, sampleColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	defer rows.Close()

	samples := make([]*sample.Sample, 0)
	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate samples: %w", err)
	}

	return samples, nil
}

func (r *SampleRepository) scanRow(sc rowScanner) (*sample.Sample, error) {
	var (
		s        sample.Sample
		idStr    string
		typeStr  string
		fitStr   string
		telaStr  string
		brand    sql.NullString
		consumo  sql.NullFloat64
		costo    sql.NullFloat64
		precio   sql.NullFloat64
		costoDoc sql.NullString
	)

	err := sc.Scan(
		&idStr, &typeStr, &fitStr, &telaStr, &brand,
		&consumo, &costo, &precio, &costoDoc, &s.Approved,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan sample: %w", err)
	}

	if s.ID, err = shared.IDFromString(idStr); err != nil {
		return nil, fmt.Errorf("invalid sample id in database: %w", err)
	}
	if s.ProductTypeID, err = shared.IDFromString(typeStr); err != nil {
		return nil, fmt.Errorf("invalid product type id in database: %w", err)
	}
	if s.FitID, err = shared.IDFromString(fitStr); err != nil {
		return nil, fmt.Errorf("invalid fit id in database: %w", err)
	}
	if s.FabricID, err = shared.IDFromString(telaStr); err != nil {
		return nil, fmt.Errorf("invalid fabric id in database: %w", err)
	}

	s.BrandID = parseNullID(brand)
	s.EstimatedConsumption = nullFloatValue(consumo)
	s.EstimatedCost = nullFloatValue(costo)
	s.EstimatedPrice = nullFloatValue(precio)
	s.CostDocument = nullStringValue(costoDoc)

	return &s, nil
}
