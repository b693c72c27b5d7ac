package main

import (
	"github.com/angelous0/erp-textil/internal/config"
	"github.com/angelous0/erp-textil/internal/infra/http/handler"
	"github.com/angelous0/erp-textil/internal/infra/http/routes"
	"github.com/angelous0/erp-textil/internal/infra/postgres"
	"github.com/angelous0/erp-textil/internal/infra/redis"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/validator"
)

// HandlerDeps contains dependencies needed to create handlers.
type HandlerDeps struct {
	Config      *config.Config
	Log         *logger.Logger
	Validator   *validator.Validator
	DB          *postgres.DB
	RedisClient *redis.Client
	Services    *Services
}

// NewHandlers creates all HTTP handlers.
func NewHandlers(deps *HandlerDeps) routes.Handlers {
	cfg := deps.Config
	log := deps.Log
	v := deps.Validator
	svc := deps.Services

	return routes.Handlers{
		Health: handler.NewHealthHandler(
			handler.WithDatabase(deps.DB),
			handler.WithRedis(deps.RedisClient),
		),

		Auth: handler.NewAuthHandler(svc.Auth, v, log),
		User: handler.NewUserHandler(svc.User, v, log),

		Catalog: handler.NewCatalogHandler(svc.Catalog, v, log),
		Fabric:  handler.NewFabricHandler(svc.Fabric, v, log),

		Sample:    handler.NewSampleHandler(svc.Sample, v, log),
		Base:      handler.NewBaseHandler(svc.Base, v, log),
		TechSheet: handler.NewTechSheetHandler(svc.TechSheet, v, log),
		Grading:   handler.NewGradingHandler(svc.Grading, v, log),

		File:  handler.NewFileHandler(svc.File, cfg.Storage.MaxUploadSize, log),
		Audit: handler.NewAuditHandler(svc.Audit, log),
	}
}
