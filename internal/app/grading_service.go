package app

import (
	"context"
	"fmt"

	"github.com/angelous0/erp-textil/internal/metrics"
	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/base"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// GradingService handles grading operations.
type GradingService struct {
	gradings base.GradingRepository
	store    ObjectStore
	audit    *AuditService
	logger   *logger.Logger
}

// NewGradingService creates a new GradingService.
func NewGradingService(gradings base.GradingRepository, store ObjectStore, auditSvc *AuditService, log *logger.Logger) *GradingService {
	return &GradingService{
		gradings: gradings,
		store:    store,
		audit:    auditSvc,
		logger:   log.With("service", "tizados"),
	}
}

// GradingInput carries the mutable fields of a grading.
type GradingInput struct {
	BaseID shared.ID
	Width  *float64
	Curve  string
	File   string
}

// Create creates a grading under a base.
func (s *GradingService) Create(ctx context.Context, actor Actor, in GradingInput) (*base.Grading, error) {
	g, err := base.NewGrading(in.BaseID)
	if err != nil {
		return nil, err
	}
	g.Width = in.Width
	g.Curve = in.Curve
	g.File = in.File
	if err := g.Validate(); err != nil {
		return nil, err
	}

	if err := s.gradings.Create(ctx, g); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, audit.ActionCreate, "tizados", g.ID.String(), "")
	return g, nil
}

// Get returns a grading by ID.
func (s *GradingService) Get(ctx context.Context, id shared.ID) (*base.Grading, error) {
	return s.gradings.GetByID(ctx, id)
}

// List returns all gradings.
func (s *GradingService) List(ctx context.Context) ([]*base.Grading, error) {
	return s.gradings.List(ctx)
}

// ListByBase returns the gradings belonging to a base.
func (s *GradingService) ListByBase(ctx context.Context, baseID shared.ID) ([]*base.Grading, error) {
	return s.gradings.ListByBase(ctx, baseID)
}

// Update replaces the mutable fields of a grading.
func (s *GradingService) Update(ctx context.Context, actor Actor, id shared.ID, in GradingInput) (*base.Grading, error) {
	g, err := s.gradings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *g

	g.Width = in.Width
	g.Curve = in.Curve
	g.File = in.File
	if err := g.Validate(); err != nil {
		return nil, err
	}
	g.Touch()

	if err := s.gradings.Update(ctx, g); err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, actor, audit.ActionEdit, "tizados", g.ID.String(), "", before, g)
	return g, nil
}

// Delete removes a grading, attempting its file first.
func (s *GradingService) Delete(ctx context.Context, actor Actor, id shared.ID) (*CascadeResult, error) {
	g, err := s.gradings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	results := deleteFiles(ctx, s.store, s.logger, []fileRef{{key: g.File, field: "archivo_tizado"}})

	if err := s.gradings.Delete(ctx, id); err != nil {
		metrics.CascadeDeletesTotal.WithLabelValues("tizados", "failure").Inc()
		return nil, fmt.Errorf("failed to delete grading row: %w", err)
	}
	metrics.CascadeDeletesTotal.WithLabelValues("tizados", "success").Inc()

	s.audit.Record(ctx, actor, audit.ActionDelete, "tizados", id.String(), "")
	return &CascadeResult{Files: results, RowsDeleted: 1}, nil
}
