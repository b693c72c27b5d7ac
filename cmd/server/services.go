package main

import (
	"github.com/angelous0/erp-textil/internal/app"
	"github.com/angelous0/erp-textil/internal/config"
	"github.com/angelous0/erp-textil/internal/infra/redis"
	"github.com/angelous0/erp-textil/pkg/jwt"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// Services holds all service instances.
type Services struct {
	Audit *app.AuditService
	Auth  *app.AuthService
	User  *app.UserService

	Catalog *app.CatalogService
	Fabric  *app.FabricService

	Sample    *app.SampleService
	Base      *app.BaseService
	TechSheet *app.TechSheetService
	Grading   *app.GradingService

	File *app.FileService

	JWTGenerator *jwt.Generator
	Sessions     app.SessionStore
}

// ServiceDeps contains dependencies needed to create services.
type ServiceDeps struct {
	Config      *config.Config
	Log         *logger.Logger
	Repos       *Repositories
	RedisClient *redis.Client
	Store       app.ObjectStore
}

// NewServices initializes all services.
func NewServices(deps *ServiceDeps) *Services {
	cfg := deps.Config
	log := deps.Log
	repos := deps.Repos

	tokens := jwt.NewGenerator(jwt.TokenConfig{
		Secret:               cfg.Auth.JWTSecret,
		Issuer:               cfg.Auth.JWTIssuer,
		AccessTokenDuration:  cfg.Auth.AccessTokenDuration,
		RefreshTokenDuration: cfg.Auth.RefreshTokenDuration,
	})
	sessions := redis.NewSessionStore(deps.RedisClient, cfg.Auth.SessionDuration)

	auditSvc := app.NewAuditService(repos.Audit, log)

	return &Services{
		Audit: auditSvc,
		Auth:  app.NewAuthService(repos.User, repos.Permission, sessions, tokens, auditSvc, log),
		User:  app.NewUserService(repos.User, repos.Permission, sessions, auditSvc, log),

		Catalog: app.NewCatalogService(repos.Brand, repos.ProductType, repos.Fit, auditSvc, log),
		Fabric:  app.NewFabricService(repos.Fabric, auditSvc, log),

		Sample:    app.NewSampleService(repos.Sample, repos.Base, repos.TechSheet, repos.Grading, deps.Store, auditSvc, log),
		Base:      app.NewBaseService(repos.Base, repos.TechSheet, repos.Grading, deps.Store, auditSvc, log),
		TechSheet: app.NewTechSheetService(repos.TechSheet, deps.Store, auditSvc, log),
		Grading:   app.NewGradingService(repos.Grading, deps.Store, auditSvc, log),

		File: app.NewFileService(deps.Store, auditSvc, log),

		JWTGenerator: tokens,
		Sessions:     sessions,
	}
}
