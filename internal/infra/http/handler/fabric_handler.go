package handler

import (
	"net/http"

	"github.com/angelous0/erp-textil/internal/app"
	infrahttp "github.com/angelous0/erp-textil/internal/infra/http"
	"github.com/angelous0/erp-textil/pkg/domain/fabric"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/validator"
)

// FabricHandler handles fabric endpoints.
type FabricHandler struct {
	service   *app.FabricService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewFabricHandler creates a new FabricHandler.
func NewFabricHandler(service *app.FabricService, v *validator.Validator, log *logger.Logger) *FabricHandler {
	return &FabricHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "telas"),
	}
}

// FabricRequest represents the request body for creating or updating a
// fabric.
type FabricRequest struct {
	Name          string   `json:"nombre_tela" validate:"required,max=255"`
	Weight        *float64 `json:"gramaje" validate:"omitempty,gte=0"`
	Elasticity    string   `json:"elasticidad" validate:"max=100"`
	Supplier      string   `json:"proveedor" validate:"max=255"`
	StandardWidth *float64 `json:"ancho_estandar" validate:"omitempty,gte=0"`
	Color         string   `json:"color" validate:"max=100"`
}

// FabricResponse represents a fabric in responses.
type FabricResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"nombre_tela"`
	Weight        *float64 `json:"gramaje,omitempty"`
	Elasticity    string   `json:"elasticidad,omitempty"`
	Supplier      string   `json:"proveedor,omitempty"`
	StandardWidth *float64 `json:"ancho_estandar,omitempty"`
	Color         string   `json:"color,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func toFabricResponse(f *fabric.Fabric) FabricResponse {
	return FabricResponse{
		ID:            f.ID.String(),
		Name:          f.Name,
		Weight:        f.Weight,
		Elasticity:    f.Elasticity,
		Supplier:      f.Supplier,
		StandardWidth: f.StandardWidth,
		Color:         f.Color,
		CreatedAt:     formatTime(f.CreatedAt),
		UpdatedAt:     formatTime(f.UpdatedAt),
	}
}

func (req FabricRequest) toInput() app.FabricInput {
	return app.FabricInput{
		Name:          req.Name,
		Weight:        req.Weight,
		Elasticity:    req.Elasticity,
		Supplier:      req.Supplier,
		StandardWidth: req.StandardWidth,
		Color:         req.Color,
	}
}

// Create creates a fabric.
// POST /api/v1/telas
func (h *FabricHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req FabricRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	f, err := h.service.Create(r.Context(), actorFrom(r), req.toInput())
	if err != nil {
		handleError(w, h.logger, err, "tela")
		return
	}

	writeJSON(w, http.StatusCreated, toFabricResponse(f))
}

// Get returns a fabric by ID.
// GET /api/v1/telas/{id}
func (h *FabricHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	f, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "tela")
		return
	}

	writeJSON(w, http.StatusOK, toFabricResponse(f))
}

// List returns all fabrics.
// GET /api/v1/telas
func (h *FabricHandler) List(w http.ResponseWriter, r *http.Request) {
	fabrics, err := h.service.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "tela")
		return
	}

	items := make([]FabricResponse, 0, len(fabrics))
	for _, f := range fabrics {
		items = append(items, toFabricResponse(f))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Update replaces the mutable fields of a fabric.
// PUT /api/v1/telas/{id}
func (h *FabricHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	var req FabricRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	f, err := h.service.Update(r.Context(), actorFrom(r), id, req.toInput())
	if err != nil {
		handleError(w, h.logger, err, "tela")
		return
	}

	writeJSON(w, http.StatusOK, toFabricResponse(f))
}

// Delete removes a fabric.
// DELETE /api/v1/telas/{id}
func (h *FabricHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actorFrom(r), id); err != nil {
		handleError(w, h.logger, err, "tela")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
