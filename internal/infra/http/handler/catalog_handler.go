package handler

import (
	"net/http"

	"github.com/angelous0/erp-textil/internal/app"
	infrahttp "github.com/angelous0/erp-textil/internal/infra/http"
	"github.com/angelous0/erp-textil/pkg/domain/catalog"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/validator"
)

// CatalogHandler handles the three name-only catalogs: brands, product
// types and fits. One handler covers all three because their endpoints are
// structurally identical.
type CatalogHandler struct {
	service   *app.CatalogService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *app.CatalogService, v *validator.Validator, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "catalog"),
	}
}

// NamedRequest represents the request body for creating or renaming a
// catalog entry.
type NamedRequest struct {
	Name string `json:"nombre" validate:"required,max=255"`
}

// NamedResponse represents a catalog entry in responses.
type NamedResponse struct {
	ID        string `json:"id"`
	Name      string `json:"nombre"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toBrandResponse(b *catalog.Brand) NamedResponse {
	return NamedResponse{ID: b.ID.String(), Name: b.Name, CreatedAt: formatTime(b.CreatedAt), UpdatedAt: formatTime(b.UpdatedAt)}
}

func toProductTypeResponse(t *catalog.ProductType) NamedResponse {
	return NamedResponse{ID: t.ID.String(), Name: t.Name, CreatedAt: formatTime(t.CreatedAt), UpdatedAt: formatTime(t.UpdatedAt)}
}

func toFitResponse(f *catalog.Fit) NamedResponse {
	return NamedResponse{ID: f.ID.String(), Name: f.Name, CreatedAt: formatTime(f.CreatedAt), UpdatedAt: formatTime(f.UpdatedAt)}
}

// Brands

// CreateBrand creates a brand.
// POST /api/v1/marcas
func (h *CatalogHandler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var req NamedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	b, err := h.service.CreateBrand(r.Context(), actorFrom(r), req.Name)
	if err != nil {
		handleError(w, h.logger, err, "marca")
		return
	}

	writeJSON(w, http.StatusCreated, toBrandResponse(b))
}

// GetBrand returns a brand by ID.
// GET /api/v1/marcas/{id}
func (h *CatalogHandler) GetBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	b, err := h.service.GetBrand(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "marca")
		return
	}

	writeJSON(w, http.StatusOK, toBrandResponse(b))
}

// ListBrands returns all brands.
// GET /api/v1/marcas
func (h *CatalogHandler) ListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := h.service.ListBrands(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "marca")
		return
	}

	items := make([]NamedResponse, 0, len(brands))
	for _, b := range brands {
		items = append(items, toBrandResponse(b))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// UpdateBrand renames a brand.
// PUT /api/v1/marcas/{id}
func (h *CatalogHandler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	var req NamedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	b, err := h.service.UpdateBrand(r.Context(), actorFrom(r), id, req.Name)
	if err != nil {
		handleError(w, h.logger, err, "marca")
		return
	}

	writeJSON(w, http.StatusOK, toBrandResponse(b))
}

// DeleteBrand removes a brand.
// DELETE /api/v1/marcas/{id}
func (h *CatalogHandler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteBrand(r.Context(), actorFrom(r), id); err != nil {
		handleError(w, h.logger, err, "marca")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Product types

// CreateProductType creates a product type.
// POST /api/v1/tipos-producto
func (h *CatalogHandler) CreateProductType(w http.ResponseWriter, r *http.Request) {
	var req NamedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	t, err := h.service.CreateProductType(r.Context(), actorFrom(r), req.Name)
	if err != nil {
		handleError(w, h.logger, err, "tipo de producto")
		return
	}

	writeJSON(w, http.StatusCreated, toProductTypeResponse(t))
}

// GetProductType returns a product type by ID.
// GET /api/v1/tipos-producto/{id}
func (h *CatalogHandler) GetProductType(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	t, err := h.service.GetProductType(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "tipo de producto")
		return
	}

	writeJSON(w, http.StatusOK, toProductTypeResponse(t))
}

// ListProductTypes returns all product types.
// GET /api/v1/tipos-producto
func (h *CatalogHandler) ListProductTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListProductTypes(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "tipo de producto")
		return
	}

	items := make([]NamedResponse, 0, len(types))
	for _, t := range types {
		items = append(items, toProductTypeResponse(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// UpdateProductType renames a product type.
// PUT /api/v1/tipos-producto/{id}
func (h *CatalogHandler) UpdateProductType(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	var req NamedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	t, err := h.service.UpdateProductType(r.Context(), actorFrom(r), id, req.Name)
	if err != nil {
		handleError(w, h.logger, err, "tipo de producto")
		return
	}

	writeJSON(w, http.StatusOK, toProductTypeResponse(t))
}

// DeleteProductType removes a product type.
// DELETE /api/v1/tipos-producto/{id}
func (h *CatalogHandler) DeleteProductType(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProductType(r.Context(), actorFrom(r), id); err != nil {
		handleError(w, h.logger, err, "tipo de producto")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Fits

// CreateFit creates a fit.
// POST /api/v1/entalles
func (h *CatalogHandler) CreateFit(w http.ResponseWriter, r *http.Request) {
	var req NamedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	f, err := h.service.CreateFit(r.Context(), actorFrom(r), req.Name)
	if err != nil {
		handleError(w, h.logger, err, "entalle")
		return
	}

	writeJSON(w, http.StatusCreated, toFitResponse(f))
}

// GetFit returns a fit by ID.
// GET /api/v1/entalles/{id}
func (h *CatalogHandler) GetFit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	f, err := h.service.GetFit(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "entalle")
		return
	}

	writeJSON(w, http.StatusOK, toFitResponse(f))
}

// ListFits returns all fits.
// GET /api/v1/entalles
func (h *CatalogHandler) ListFits(w http.ResponseWriter, r *http.Request) {
	fits, err := h.service.ListFits(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "entalle")
		return
	}

	items := make([]NamedResponse, 0, len(fits))
	for _, f := range fits {
		items = append(items, toFitResponse(f))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// UpdateFit renames a fit.
// PUT /api/v1/entalles/{id}
func (h *CatalogHandler) UpdateFit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	var req NamedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	f, err := h.service.UpdateFit(r.Context(), actorFrom(r), id, req.Name)
	if err != nil {
		handleError(w, h.logger, err, "entalle")
		return
	}

	writeJSON(w, http.StatusOK, toFitResponse(f))
}

// DeleteFit removes a fit.
// DELETE /api/v1/entalles/{id}
func (h *CatalogHandler) DeleteFit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteFit(r.Context(), actorFrom(r), id); err != nil {
		handleError(w, h.logger, err, "entalle")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
