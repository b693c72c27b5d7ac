package app

import (
	"context"

	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/catalog"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// CatalogService handles the three flat catalogs: brands, product types
// and fits. They share identical semantics so one service covers all.
type CatalogService struct {
	brands catalog.BrandRepository
	types  catalog.ProductTypeRepository
	fits   catalog.FitRepository
	audit  *AuditService
	logger *logger.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	brands catalog.BrandRepository,
	types catalog.ProductTypeRepository,
	fits catalog.FitRepository,
	auditSvc *AuditService,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		brands: brands,
		types:  types,
		fits:   fits,
		audit:  auditSvc,
		logger: log.With("service", "catalog"),
	}
}

// Brands

// CreateBrand creates a brand.
func (s *CatalogService) CreateBrand(ctx context.Context, actor Actor, name string) (*catalog.Brand, error) {
	b, err := catalog.NewBrand(name)
	if err != nil {
		return nil, err
	}
	if err := s.brands.Create(ctx, b); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, audit.ActionCreate, "marcas", b.ID.String(), b.Name)
	return b, nil
}

// GetBrand returns a brand by ID.
func (s *CatalogService) GetBrand(ctx context.Context, id shared.ID) (*catalog.Brand, error) {
	return s.brands.GetByID(ctx, id)
}

// ListBrands returns all brands.
func (s *CatalogService) ListBrands(ctx context.Context) ([]*catalog.Brand, error) {
	return s.brands.List(ctx)
}

// UpdateBrand renames a brand.
func (s *CatalogService) UpdateBrand(ctx context.Context, actor Actor, id shared.ID, name string) (*catalog.Brand, error) {
	b, err := s.brands.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *b
	if err := b.Rename(name); err != nil {
		return nil, err
	}
	if err := s.brands.Update(ctx, b); err != nil {
		return nil, err
	}
	s.audit.RecordChange(ctx, actor, audit.ActionEdit, "marcas", b.ID.String(), b.Name, before, b)
	return b, nil
}

// DeleteBrand removes a brand. Catalog rows reference no files, so this is
// a plain row delete.
func (s *CatalogService) DeleteBrand(ctx context.Context, actor Actor, id shared.ID) error {
	if err := s.brands.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionDelete, "marcas", id.String(), "")
	return nil
}

// Product types

// CreateProductType creates a product type.
func (s *CatalogService) CreateProductType(ctx context.Context, actor Actor, name string) (*catalog.ProductType, error) {
	t, err := catalog.NewProductType(name)
	if err != nil {
		return nil, err
	}
	if err := s.types.Create(ctx, t); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, audit.ActionCreate, "tipos_producto", t.ID.String(), t.Name)
	return t, nil
}

// GetProductType returns a product type by ID.
func (s *CatalogService) GetProductType(ctx context.Context, id shared.ID) (*catalog.ProductType, error) {
	return s.types.GetByID(ctx, id)
}

// ListProductTypes returns all product types.
func (s *CatalogService) ListProductTypes(ctx context.Context) ([]*catalog.ProductType, error) {
	return s.types.List(ctx)
}

// UpdateProductType renames a product type.
func (s *CatalogService) UpdateProductType(ctx context.Context, actor Actor, id shared.ID, name string) (*catalog.ProductType, error) {
	t, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *t
	if err := t.Rename(name); err != nil {
		return nil, err
	}
	if err := s.types.Update(ctx, t); err != nil {
		return nil, err
	}
	s.audit.RecordChange(ctx, actor, audit.ActionEdit, "tipos_producto", t.ID.String(), t.Name, before, t)
	return t, nil
}

// DeleteProductType removes a product type.
func (s *CatalogService) DeleteProductType(ctx context.Context, actor Actor, id shared.ID) error {
	if err := s.types.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionDelete, "tipos_producto", id.String(), "")
	return nil
}

// Fits

// CreateFit creates a fit.
func (s *CatalogService) CreateFit(ctx context.Context, actor Actor, name string) (*catalog.Fit, error) {
	f, err := catalog.NewFit(name)
	if err != nil {
		return nil, err
	}
	if err := s.fits.Create(ctx, f); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, actor, audit.ActionCreate, "entalles", f.ID.String(), f.Name)
	return f, nil
}

// GetFit returns a fit by ID.
func (s *CatalogService) GetFit(ctx context.Context, id shared.ID) (*catalog.Fit, error) {
	return s.fits.GetByID(ctx, id)
}

// ListFits returns all fits.
func (s *CatalogService) ListFits(ctx context.Context) ([]*catalog.Fit, error) {
	return s.fits.List(ctx)
}

// UpdateFit renames a fit.
func (s *CatalogService) UpdateFit(ctx context.Context, actor Actor, id shared.ID, name string) (*catalog.Fit, error) {
	f, err := s.fits.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *f
	if err := f.Rename(name); err != nil {
		return nil, err
	}
	if err := s.fits.Update(ctx, f); err != nil {
		return nil, err
	}
	s.audit.RecordChange(ctx, actor, audit.ActionEdit, "entalles", f.ID.String(), f.Name, before, f)
	return f, nil
}

// DeleteFit removes a fit.
func (s *CatalogService) DeleteFit(ctx context.Context, actor Actor, id shared.ID) error {
	if err := s.fits.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionDelete, "entalles", id.String(), "")
	return nil
}
