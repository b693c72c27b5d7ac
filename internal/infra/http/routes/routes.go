// Package routes registers all HTTP routes for the API.
package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelous0/erp-textil/internal/config"
	infrahttp "github.com/angelous0/erp-textil/internal/infra/http"
	"github.com/angelous0/erp-textil/internal/infra/http/handler"
	"github.com/angelous0/erp-textil/internal/infra/http/middleware"
	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// Middleware is an alias to the http package's Middleware type.
type Middleware = infrahttp.Middleware

// Router is an alias to the http package's Router interface.
type Router = infrahttp.Router

// Handlers holds all HTTP handlers for route registration.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Catalog   *handler.CatalogHandler
	Fabric    *handler.FabricHandler
	Sample    *handler.SampleHandler
	Base      *handler.BaseHandler
	TechSheet *handler.TechSheetHandler
	Grading   *handler.GradingHandler
	File      *handler.FileHandler
	Audit     *handler.AuditHandler
}

// Register registers all application routes. Authenticated routes carry the
// auth middleware per route so public and protected paths can share the
// /api/v1 prefix. The returned cleanup stops the login rate limiter's
// background goroutine.
func Register(
	router Router,
	h Handlers,
	auth *middleware.Authenticator,
	cfg *config.Config,
	log *logger.Logger,
) func() {
	loginLimit, loginLimitStop := middleware.LoginRateLimit(cfg.RateLimit.LoginPerMinute, log)
	authMw := auth.Middleware()

	// Public routes.
	router.GET("/health", h.Health.Health)
	router.GET("/ready", h.Health.Ready)
	router.GET("/metrics", promhttp.Handler().ServeHTTP)
	router.POST("/api/v1/auth/login", h.Auth.Login, loginLimit)
	router.POST("/api/v1/auth/refresh", h.Auth.Refresh, loginLimit)

	registerAuthRoutes(router, h.Auth, authMw)
	registerCatalogRoutes(router, h.Catalog, authMw)
	registerFabricRoutes(router, h.Fabric, authMw)
	registerSampleRoutes(router, h.Sample, authMw)
	registerBaseRoutes(router, h.Base, authMw)
	registerTechSheetRoutes(router, h.TechSheet, authMw)
	registerGradingRoutes(router, h.Grading, authMw)
	registerFileRoutes(router, h.File, authMw)
	registerUserRoutes(router, h.User, authMw)
	registerAuditRoutes(router, h.Audit, authMw)

	return loginLimitStop
}

func registerAuthRoutes(r Router, h *handler.AuthHandler, auth Middleware) {
	r.POST("/api/v1/auth/logout", h.Logout, auth)
	r.GET("/api/v1/auth/me", h.Me, auth)
	r.GET("/api/v1/auth/me/permisos", h.MePermissions, auth)
}

type crudHandler struct {
	List   http.HandlerFunc
	Get    http.HandlerFunc
	Create http.HandlerFunc
	Update http.HandlerFunc
	Delete http.HandlerFunc
}

// crud registers the standard five routes for a module, each guarded by the
// matching (module, action) permission.
func crud(r Router, prefix string, m permission.Module, auth Middleware, h crudHandler) {
	r.GET(prefix, h.List, auth, middleware.Require(m, permission.ActionVer))
	r.GET(prefix+"/{id}", h.Get, auth, middleware.Require(m, permission.ActionVer))
	r.POST(prefix, h.Create, auth, middleware.Require(m, permission.ActionCrear))
	r.PUT(prefix+"/{id}", h.Update, auth, middleware.Require(m, permission.ActionEditar))
	r.DELETE(prefix+"/{id}", h.Delete, auth, middleware.Require(m, permission.ActionEliminar))
}

func registerCatalogRoutes(r Router, h *handler.CatalogHandler, auth Middleware) {
	crud(r, "/api/v1/marcas", permission.ModuleMarcas, auth, crudHandler{
		List: h.ListBrands, Get: h.GetBrand, Create: h.CreateBrand,
		Update: h.UpdateBrand, Delete: h.DeleteBrand,
	})
	crud(r, "/api/v1/tipos-producto", permission.ModuleTipos, auth, crudHandler{
		List: h.ListProductTypes, Get: h.GetProductType, Create: h.CreateProductType,
		Update: h.UpdateProductType, Delete: h.DeleteProductType,
	})
	crud(r, "/api/v1/entalles", permission.ModuleEntalles, auth, crudHandler{
		List: h.ListFits, Get: h.GetFit, Create: h.CreateFit,
		Update: h.UpdateFit, Delete: h.DeleteFit,
	})
}

func registerFabricRoutes(r Router, h *handler.FabricHandler, auth Middleware) {
	crud(r, "/api/v1/telas", permission.ModuleTelas, auth, crudHandler{
		List: h.List, Get: h.Get, Create: h.Create,
		Update: h.Update, Delete: h.Delete,
	})
}

func registerSampleRoutes(r Router, h *handler.SampleHandler, auth Middleware) {
	crud(r, "/api/v1/muestras-base", permission.ModuleMuestras, auth, crudHandler{
		List: h.List, Get: h.Get, Create: h.Create,
		Update: h.Update, Delete: h.Delete,
	})
}

func registerBaseRoutes(r Router, h *handler.BaseHandler, auth Middleware) {
	crud(r, "/api/v1/bases", permission.ModuleBases, auth, crudHandler{
		List: h.List, Get: h.Get, Create: h.Create,
		Update: h.Update, Delete: h.Delete,
	})
}

func registerTechSheetRoutes(r Router, h *handler.TechSheetHandler, auth Middleware) {
	crud(r, "/api/v1/fichas", permission.ModuleFichas, auth, crudHandler{
		List: h.List, Get: h.Get, Create: h.Create,
		Update: h.Update, Delete: h.Delete,
	})
	r.GET("/api/v1/fichas/base/{id}", h.ListByBase,
		auth, middleware.Require(permission.ModuleFichas, permission.ActionVer))
}

func registerGradingRoutes(r Router, h *handler.GradingHandler, auth Middleware) {
	crud(r, "/api/v1/tizados", permission.ModuleTizados, auth, crudHandler{
		List: h.List, Get: h.Get, Create: h.Create,
		Update: h.Update, Delete: h.Delete,
	})
	r.GET("/api/v1/tizados/base/{id}", h.ListByBase,
		auth, middleware.Require(permission.ModuleTizados, permission.ActionVer))
}

func registerFileRoutes(r Router, h *handler.FileHandler, auth Middleware) {
	r.POST("/api/v1/archivos", h.Upload,
		auth, middleware.RequireFileOp(permission.FileOpSubir))
	r.GET("/api/v1/archivos/{clave}", h.Download,
		auth, middleware.RequireFileOp(permission.FileOpDescargar))
	r.GET("/api/v1/archivos/{clave}/url", h.PresignURL,
		auth, middleware.RequireFileOp(permission.FileOpDescargar))
	r.DELETE("/api/v1/archivos/{clave}", h.Delete,
		auth, middleware.RequireFileOp(permission.FileOpSubir))
}

func registerUserRoutes(r Router, h *handler.UserHandler, auth Middleware) {
	manage := r.With(auth, middleware.RequireUserManagement())
	manage.GET("/api/v1/usuarios", h.List)
	manage.GET("/api/v1/usuarios/{id}", h.Get)
	manage.POST("/api/v1/usuarios", h.Create)
	manage.PUT("/api/v1/usuarios/{id}", h.Update)
	manage.DELETE("/api/v1/usuarios/{id}", h.Delete)
	manage.GET("/api/v1/usuarios/{id}/permisos", h.GetGrants)
	manage.PUT("/api/v1/usuarios/{id}/permisos", h.ReplaceGrants)
}

func registerAuditRoutes(r Router, h *handler.AuditHandler, auth Middleware) {
	admin := r.With(auth, middleware.RequireAdmin())
	admin.GET("/api/v1/historial", h.List)
	admin.GET("/api/v1/historial/stats", h.Stats)
	admin.GET("/api/v1/historial/tablas", h.Tables)
}
