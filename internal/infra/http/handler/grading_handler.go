package handler

import (
	"net/http"

	"github.com/angelous0/erp-textil/internal/app"
	infrahttp "github.com/angelous0/erp-textil/internal/infra/http"
	"github.com/angelous0/erp-textil/pkg/apierror"
	"github.com/angelous0/erp-textil/pkg/domain/base"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/validator"
)

// GradingHandler handles grading endpoints.
type GradingHandler struct {
	service   *app.GradingService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewGradingHandler creates a new GradingHandler.
func NewGradingHandler(service *app.GradingService, v *validator.Validator, log *logger.Logger) *GradingHandler {
	return &GradingHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "tizados"),
	}
}

// GradingRequest represents the request body for creating or updating a
// grading.
type GradingRequest struct {
	BaseID string   `json:"id_base" validate:"required,uuid"`
	Width  *float64 `json:"ancho" validate:"omitempty,gte=0"`
	Curve  string   `json:"curva" validate:"max=255"`
	File   string   `json:"archivo_tizado" validate:"max=512"`
}

// GradingResponse represents a grading in responses.
type GradingResponse struct {
	ID        string   `json:"id"`
	BaseID    string   `json:"id_base"`
	Width     *float64 `json:"ancho,omitempty"`
	Curve     string   `json:"curva,omitempty"`
	File      string   `json:"archivo_tizado,omitempty"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

func toGradingResponse(g *base.Grading) GradingResponse {
	return GradingResponse{
		ID:        g.ID.String(),
		BaseID:    g.BaseID.String(),
		Width:     g.Width,
		Curve:     g.Curve,
		File:      g.File,
		CreatedAt: formatTime(g.CreatedAt),
		UpdatedAt: formatTime(g.UpdatedAt),
	}
}

// Create creates a grading under a base.
// POST /api/v1/tizados
func (h *GradingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req GradingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	baseID, err := shared.IDFromString(req.BaseID)
	if err != nil {
		apierror.BadRequest("Invalid id_base").WriteJSON(w)
		return
	}

	g, err := h.service.Create(r.Context(), actorFrom(r), app.GradingInput{
		BaseID: baseID,
		Width:  req.Width,
		Curve:  req.Curve,
		File:   req.File,
	})
	if err != nil {
		handleError(w, h.logger, err, "tizado")
		return
	}

	writeJSON(w, http.StatusCreated, toGradingResponse(g))
}

// Get returns a grading by ID.
// GET /api/v1/tizados/{id}
func (h *GradingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	g, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "tizado")
		return
	}

	writeJSON(w, http.StatusOK, toGradingResponse(g))
}

// List returns all gradings.
// GET /api/v1/tizados
func (h *GradingHandler) List(w http.ResponseWriter, r *http.Request) {
	gradings, err := h.service.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "tizado")
		return
	}

	items := make([]GradingResponse, 0, len(gradings))
	for _, g := range gradings {
		items = append(items, toGradingResponse(g))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// ListByBase returns the gradings belonging to a base.
// GET /api/v1/tizados/base/{id}
func (h *GradingHandler) ListByBase(w http.ResponseWriter, r *http.Request) {
	baseID, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	gradings, err := h.service.ListByBase(r.Context(), baseID)
	if err != nil {
		handleError(w, h.logger, err, "tizado")
		return
	}

	items := make([]GradingResponse, 0, len(gradings))
	for _, g := range gradings {
		items = append(items, toGradingResponse(g))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Update replaces the mutable fields of a grading.
// PUT /api/v1/tizados/{id}
func (h *GradingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	var req GradingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	baseID, err := shared.IDFromString(req.BaseID)
	if err != nil {
		apierror.BadRequest("Invalid id_base").WriteJSON(w)
		return
	}

	g, err := h.service.Update(r.Context(), actorFrom(r), id, app.GradingInput{
		BaseID: baseID,
		Width:  req.Width,
		Curve:  req.Curve,
		File:   req.File,
	})
	if err != nil {
		handleError(w, h.logger, err, "tizado")
		return
	}

	writeJSON(w, http.StatusOK, toGradingResponse(g))
}

// Delete removes a grading, attempting its file first.
// DELETE /api/v1/tizados/{id}
func (h *GradingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	result, err := h.service.Delete(r.Context(), actorFrom(r), id)
	if err != nil {
		handleError(w, h.logger, err, "tizado")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
