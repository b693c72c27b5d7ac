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

// TechSheetService handles tech sheet operations.
type TechSheetService struct {
	sheets base.TechSheetRepository
	store  ObjectStore
	audit  *AuditService
	logger *logger.Logger
}

// NewTechSheetService creates a new TechSheetService.
func NewTechSheetService(sheets base.TechSheetRepository, store ObjectStore, auditSvc *AuditService, log *logger.Logger) *TechSheetService {
	return &TechSheetService{
		sheets: sheets,
		store:  store,
		audit:  auditSvc,
		logger: log.With("service", "fichas"),
	}
}

// TechSheetInput carries the mutable fields of a tech sheet.
type TechSheetInput struct {
	BaseID shared.ID
	Name   string
	File   string
}

// Create creates a tech sheet under a base.
func (s *TechSheetService) Create(ctx context.Context, actor Actor, in TechSheetInput) (*base.TechSheet, error) {
	t, err := base.NewTechSheet(in.BaseID, in.Name)
	if err != nil {
		return nil, err
	}
	t.File = in.File

	if err := s.sheets.Create(ctx, t); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, audit.ActionCreate, "fichas", t.ID.String(), "")
	return t, nil
}

// Get returns a tech sheet by ID.
func (s *TechSheetService) Get(ctx context.Context, id shared.ID) (*base.TechSheet, error) {
	return s.sheets.GetByID(ctx, id)
}

// List returns all tech sheets.
func (s *TechSheetService) List(ctx context.Context) ([]*base.TechSheet, error) {
	return s.sheets.List(ctx)
}

// ListByBase returns the tech sheets belonging to a base.
func (s *TechSheetService) ListByBase(ctx context.Context, baseID shared.ID) ([]*base.TechSheet, error) {
	return s.sheets.ListByBase(ctx, baseID)
}

// Update replaces the mutable fields of a tech sheet.
func (s *TechSheetService) Update(ctx context.Context, actor Actor, id shared.ID, in TechSheetInput) (*base.TechSheet, error) {
	t, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *t

	t.Name = in.Name
	t.File = in.File
	t.Touch()

	if err := s.sheets.Update(ctx, t); err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, actor, audit.ActionEdit, "fichas", t.ID.String(), "", before, t)
	return t, nil
}

// Delete removes a tech sheet, attempting its file first.
func (s *TechSheetService) Delete(ctx context.Context, actor Actor, id shared.ID) (*CascadeResult, error) {
	t, err := s.sheets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	results := deleteFiles(ctx, s.store, s.logger, []fileRef{{key: t.File, field: "archivo"}})

	if err := s.sheets.Delete(ctx, id); err != nil {
		metrics.CascadeDeletesTotal.WithLabelValues("fichas", "failure").Inc()
		return nil, fmt.Errorf("failed to delete tech sheet row: %w", err)
	}
	metrics.CascadeDeletesTotal.WithLabelValues("fichas", "success").Inc()

	s.audit.Record(ctx, actor, audit.ActionDelete, "fichas", id.String(), "")
	return &CascadeResult{Files: results, RowsDeleted: 1}, nil
}
