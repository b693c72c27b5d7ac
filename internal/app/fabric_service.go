package app

import (
	"context"

	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/fabric"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// FabricService handles fabric operations.
type FabricService struct {
	fabrics fabric.Repository
	audit   *AuditService
	logger  *logger.Logger
}

// NewFabricService creates a new FabricService.
func NewFabricService(fabrics fabric.Repository, auditSvc *AuditService, log *logger.Logger) *FabricService {
	return &FabricService{
		fabrics: fabrics,
		audit:   auditSvc,
		logger:  log.With("service", "telas"),
	}
}

// FabricInput carries the mutable fields of a fabric.
type FabricInput struct {
	Name          string
	Weight        *float64
	Elasticity    string
	Supplier      string
	StandardWidth *float64
	Color         string
}

// Create creates a fabric.
func (s *FabricService) Create(ctx context.Context, actor Actor, in FabricInput) (*fabric.Fabric, error) {
	f, err := fabric.New(in.Name)
	if err != nil {
		return nil, err
	}
	applyFabricInput(f, in)
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if err := s.fabrics.Create(ctx, f); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actor, audit.ActionCreate, "telas", f.ID.String(), f.Name)
	return f, nil
}

// Get returns a fabric by ID.
func (s *FabricService) Get(ctx context.Context, id shared.ID) (*fabric.Fabric, error) {
	return s.fabrics.GetByID(ctx, id)
}

// List returns all fabrics.
func (s *FabricService) List(ctx context.Context) ([]*fabric.Fabric, error) {
	return s.fabrics.List(ctx)
}

// Update replaces the mutable fields of a fabric.
func (s *FabricService) Update(ctx context.Context, actor Actor, id shared.ID, in FabricInput) (*fabric.Fabric, error) {
	f, err := s.fabrics.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *f

	applyFabricInput(f, in)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	f.Touch()

	if err := s.fabrics.Update(ctx, f); err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, actor, audit.ActionEdit, "telas", f.ID.String(), f.Name, before, f)
	return f, nil
}

// Delete removes a fabric.
func (s *FabricService) Delete(ctx context.Context, actor Actor, id shared.ID) error {
	if err := s.fabrics.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionDelete, "telas", id.String(), "")
	return nil
}

func applyFabricInput(f *fabric.Fabric, in FabricInput) {
	f.Name = in.Name
	f.Weight = in.Weight
	f.Elasticity = in.Elasticity
	f.Supplier = in.Supplier
	f.StandardWidth = in.StandardWidth
	f.Color = in.Color
}
