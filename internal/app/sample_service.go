package app

import (
	"context"
	"fmt"

	"github.com/angelous0/erp-textil/internal/metrics"
	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/base"
	"github.com/angelous0/erp-textil/pkg/domain/sample"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// SampleService handles sample operations including the cascade delete.
type SampleService struct {
	samples  sample.Repository
	bases    base.Repository
	sheets   base.TechSheetRepository
	gradings base.GradingRepository
	store    ObjectStore
	audit    *AuditService
	logger   *logger.Logger
}

// NewSampleService creates a new SampleService.
func NewSampleService(
	samples sample.Repository,
	bases base.Repository,
	sheets base.TechSheetRepository,
	gradings base.GradingRepository,
	store ObjectStore,
	auditSvc *AuditService,
	log *logger.Logger,
) *SampleService {
	return &SampleService{
		samples:  samples,
		bases:    bases,
		sheets:   sheets,
		gradings: gradings,
		store:    store,
		audit:    auditSvc,
		logger:   log.With("service", "samples"),
	}
}

// SampleInput carries the mutable fields of a sample.
type SampleInput struct {
	ProductTypeID        shared.ID
	FitID                shared.ID
	FabricID             shared.ID
	BrandID              *shared.ID
	EstimatedConsumption *float64
	EstimatedCost        *float64
	EstimatedPrice       *float64
	CostDocument         string
	Approved             bool
}

// Create creates a sample.
func (s *SampleService) Create(ctx context.Context, actor Actor, in SampleInput) (*sample.Sample, error) {
	sm, err := sample.New(in.ProductTypeID, in.FitID, in.FabricID)
	if err != nil {
		return nil, err
	}
	applySampleInput(sm, in)
	if err := sm.Validate(); err != nil {
		return nil, err
	}

	if err := s.samples.Create(ctx, sm); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, audit.ActionCreate, "muestras_base", sm.ID.String(), "")
	return sm, nil
}

// Get returns a sample by ID.
func (s *SampleService) Get(ctx context.Context, id shared.ID) (*sample.Sample, error) {
	return s.samples.GetByID(ctx, id)
}

// List returns all samples.
func (s *SampleService) List(ctx context.Context) ([]*sample.Sample, error) {
	return s.samples.List(ctx)
}

// Update replaces the mutable fields of a sample.
func (s *SampleService) Update(ctx context.Context, actor Actor, id shared.ID, in SampleInput) (*sample.Sample, error) {
	sm, err := s.samples.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *sm

	applySampleInput(sm, in)
	sm.ProductTypeID = in.ProductTypeID
	sm.FitID = in.FitID
	sm.FabricID = in.FabricID
	if err := sm.Validate(); err != nil {
		return nil, err
	}
	sm.Touch()

	if err := s.samples.Update(ctx, sm); err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, actor, audit.ActionEdit, "muestras_base", sm.ID.String(), "", before, sm)
	return sm, nil
}

// CascadeResult reports what a cascade delete did.
type CascadeResult struct {
	Files       []FileDeleteResult `json:"archivos"`
	RowsDeleted int64              `json:"registros_eliminados"`
}

// Delete removes a sample and everything under it. File deletes run first
// and are best-effort; the single row delete then removes the sample and,
// via FK cascade, its bases, tech sheets and gradings.
func (s *SampleService) Delete(ctx context.Context, actor Actor, id shared.ID) (*CascadeResult, error) {
	sm, err := s.samples.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	refs, err := s.collectFileRefs(ctx, sm)
	if err != nil {
		return nil, err
	}

	results := deleteFiles(ctx, s.store, s.logger, refs)

	if err := s.samples.Delete(ctx, id); err != nil {
		metrics.CascadeDeletesTotal.WithLabelValues("muestras_base", "failure").Inc()
		return nil, fmt.Errorf("failed to delete sample row: %w", err)
	}
	metrics.CascadeDeletesTotal.WithLabelValues("muestras_base", "success").Inc()

	s.audit.Record(ctx, actor, audit.ActionDelete, "muestras_base", id.String(),
		fmt.Sprintf("archivos intentados: %d", len(results)))

	return &CascadeResult{Files: results, RowsDeleted: 1}, nil
}

// collectFileRefs gathers every storage key referenced by the sample and
// its descendants before any row disappears.
func (s *SampleService) collectFileRefs(ctx context.Context, sm *sample.Sample) ([]fileRef, error) {
	refs := []fileRef{{key: sm.CostDocument, field: "archivo_costo"}}

	bases, err := s.bases.ListBySample(ctx, sm.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bases for cascade: %w", err)
	}

	for _, b := range bases {
		baseRefs, err := collectBaseFileRefs(ctx, s.sheets, s.gradings, b)
		if err != nil {
			return nil, err
		}
		refs = append(refs, baseRefs...)
	}

	return refs, nil
}

// collectBaseFileRefs gathers the storage keys referenced by one base and
// its tech sheets and gradings.
func collectBaseFileRefs(ctx context.Context, sheets base.TechSheetRepository, gradings base.GradingRepository, b *base.Base) ([]fileRef, error) {
	refs := []fileRef{
		{key: b.Pattern, field: "patron"},
		{key: b.Image, field: "imagen"},
	}

	ts, err := sheets.ListByBase(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tech sheets for cascade: %w", err)
	}
	for _, t := range ts {
		refs = append(refs, fileRef{key: t.File, field: "archivo"})
	}

	gs, err := gradings.ListByBase(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list gradings for cascade: %w", err)
	}
	for _, g := range gs {
		refs = append(refs, fileRef{key: g.File, field: "archivo_tizado"})
	}

	return refs, nil
}

func applySampleInput(sm *sample.Sample, in SampleInput) {
	sm.BrandID = in.BrandID
	sm.EstimatedConsumption = in.EstimatedConsumption
	sm.EstimatedCost = in.EstimatedCost
	sm.EstimatedPrice = in.EstimatedPrice
	sm.CostDocument = in.CostDocument
	sm.Approved = in.Approved
}
