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

// BaseService handles base operations including the cascade delete.
type BaseService struct {
	bases    base.Repository
	sheets   base.TechSheetRepository
	gradings base.GradingRepository
	store    ObjectStore
	audit    *AuditService
	logger   *logger.Logger
}

// NewBaseService creates a new BaseService.
func NewBaseService(
	bases base.Repository,
	sheets base.TechSheetRepository,
	gradings base.GradingRepository,
	store ObjectStore,
	auditSvc *AuditService,
	log *logger.Logger,
) *BaseService {
	return &BaseService{
		bases:    bases,
		sheets:   sheets,
		gradings: gradings,
		store:    store,
		audit:    auditSvc,
		logger:   log.With("service", "bases"),
	}
}

// BaseInput carries the mutable fields of a base.
type BaseInput struct {
	SampleID  shared.ID
	Pattern   string
	Image     string
	ModelName string
	Approved  bool
}

// Create creates a base under a sample.
func (s *BaseService) Create(ctx context.Context, actor Actor, in BaseInput) (*base.Base, error) {
	b, err := base.New(in.SampleID)
	if err != nil {
		return nil, err
	}
	b.Pattern = in.Pattern
	b.Image = in.Image
	b.ModelName = in.ModelName
	b.Approved = in.Approved

	if err := s.bases.Create(ctx, b); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, audit.ActionCreate, "bases", b.ID.String(), "")
	return b, nil
}

// Get returns a base by ID.
func (s *BaseService) Get(ctx context.Context, id shared.ID) (*base.Base, error) {
	return s.bases.GetByID(ctx, id)
}

// List returns all bases.
func (s *BaseService) List(ctx context.Context) ([]*base.Base, error) {
	return s.bases.List(ctx)
}

// ListBySample returns the bases belonging to a sample.
func (s *BaseService) ListBySample(ctx context.Context, sampleID shared.ID) ([]*base.Base, error) {
	return s.bases.ListBySample(ctx, sampleID)
}

// Update replaces the mutable fields of a base.
func (s *BaseService) Update(ctx context.Context, actor Actor, id shared.ID, in BaseInput) (*base.Base, error) {
	b, err := s.bases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *b

	b.Pattern = in.Pattern
	b.Image = in.Image
	b.ModelName = in.ModelName
	b.Approved = in.Approved
	b.Touch()

	if err := s.bases.Update(ctx, b); err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, actor, audit.ActionEdit, "bases", b.ID.String(), "", before, b)
	return b, nil
}

// Delete removes a base and everything under it. Referenced files are
// deleted best-effort before the row delete; tech sheets and gradings fall
// with the base via FK cascade.
func (s *BaseService) Delete(ctx context.Context, actor Actor, id shared.ID) (*CascadeResult, error) {
	b, err := s.bases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	refs, err := collectBaseFileRefs(ctx, s.sheets, s.gradings, b)
	if err != nil {
		return nil, err
	}

	results := deleteFiles(ctx, s.store, s.logger, refs)

	if err := s.bases.Delete(ctx, id); err != nil {
		metrics.CascadeDeletesTotal.WithLabelValues("bases", "failure").Inc()
		return nil, fmt.Errorf("failed to delete base row: %w", err)
	}
	metrics.CascadeDeletesTotal.WithLabelValues("bases", "success").Inc()

	s.audit.Record(ctx, actor, audit.ActionDelete, "bases", id.String(),
		fmt.Sprintf("archivos intentados: %d", len(results)))

	return &CascadeResult{Files: results, RowsDeleted: 1}, nil
}
