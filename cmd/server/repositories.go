package main

import (
	"github.com/angelous0/erp-textil/internal/infra/postgres"
)

// Repositories holds all repository instances.
type Repositories struct {
	User       *postgres.UserRepository
	Permission *postgres.PermissionRepository
	Audit      *postgres.AuditRepository

	Brand       *postgres.BrandRepository
	ProductType *postgres.ProductTypeRepository
	Fit         *postgres.FitRepository
	Fabric      *postgres.FabricRepository

	Sample    *postgres.SampleRepository
	Base      *postgres.BaseRepository
	TechSheet *postgres.TechSheetRepository
	Grading   *postgres.GradingRepository
}

// NewRepositories initializes all repositories.
func NewRepositories(db *postgres.DB) *Repositories {
	return &Repositories{
		User:       postgres.NewUserRepository(db),
		Permission: postgres.NewPermissionRepository(db),
		Audit:      postgres.NewAuditRepository(db),

		Brand:       postgres.NewBrandRepository(db),
		ProductType: postgres.NewProductTypeRepository(db),
		Fit:         postgres.NewFitRepository(db),
		Fabric:      postgres.NewFabricRepository(db),

		Sample:    postgres.NewSampleRepository(db),
		Base:      postgres.NewBaseRepository(db),
		TechSheet: postgres.NewTechSheetRepository(db),
		Grading:   postgres.NewGradingRepository(db),
	}
}
