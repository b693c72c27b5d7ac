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

// BaseHandler handles base endpoints.
type BaseHandler struct {
	service   *app.BaseService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewBaseHandler creates a new BaseHandler.
func NewBaseHandler(service *app.BaseService, v *validator.Validator, log *logger.Logger) *BaseHandler {
	return &BaseHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "bases"),
	}
}

// BaseRequest represents the request body for creating or updating a base.
type BaseRequest struct {
	SampleID  string `json:"id_muestra_base" validate:"required,uuid"`
	Pattern   string `json:"patron" validate:"max=512"`
	Image     string `json:"imagen" validate:"max=512"`
	ModelName string `json:"nombre_modelo" validate:"max=255"`
	Approved  bool   `json:"aprobado"`
}

// BaseResponse represents a base in responses.
type BaseResponse struct {
	ID        string `json:"id"`
	SampleID  string `json:"id_muestra_base"`
	Pattern   string `json:"patron,omitempty"`
	Image     string `json:"imagen,omitempty"`
	ModelName string `json:"nombre_modelo,omitempty"`
	Approved  bool   `json:"aprobado"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toBaseResponse(b *base.Base) BaseResponse {
	return BaseResponse{
		ID:        b.ID.String(),
		SampleID:  b.SampleID.String(),
		Pattern:   b.Pattern,
		Image:     b.Image,
		ModelName: b.ModelName,
		Approved:  b.Approved,
		CreatedAt: formatTime(b.CreatedAt),
		UpdatedAt: formatTime(b.UpdatedAt),
	}
}

// Create creates a base under a sample.
// POST /api/v1/bases
func (h *BaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	sampleID, err := shared.IDFromString(req.SampleID)
	if err != nil {
		apierror.BadRequest("Invalid id_muestra_base").WriteJSON(w)
		return
	}

	b, err := h.service.Create(r.Context(), actorFrom(r), app.BaseInput{
		SampleID:  sampleID,
		Pattern:   req.Pattern,
		Image:     req.Image,
		ModelName: req.ModelName,
		Approved:  req.Approved,
	})
	if err != nil {
		handleError(w, h.logger, err, "base")
		return
	}

	writeJSON(w, http.StatusCreated, toBaseResponse(b))
}

// Get returns a base by ID.
// GET /api/v1/bases/{id}
func (h *BaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "base")
		return
	}

	writeJSON(w, http.StatusOK, toBaseResponse(b))
}

// List returns all bases, optionally filtered by sample.
// GET /api/v1/bases?id_muestra_base=...
func (h *BaseHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		bases []*base.Base
		err   error
	)

	if raw := infrahttp.QueryParam(r, "id_muestra_base"); raw != "" {
		sampleID, ok := parseID(w, raw)
		if !ok {
			return
		}
		bases, err = h.service.ListBySample(r.Context(), sampleID)
	} else {
		bases, err = h.service.List(r.Context())
	}
	if err != nil {
		handleError(w, h.logger, err, "base")
		return
	}

	items := make([]BaseResponse, 0, len(bases))
	for _, b := range bases {
		items = append(items, toBaseResponse(b))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Update replaces the mutable fields of a base.
// PUT /api/v1/bases/{id}
func (h *BaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	var req BaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	sampleID, err := shared.IDFromString(req.SampleID)
	if err != nil {
		apierror.BadRequest("Invalid id_muestra_base").WriteJSON(w)
		return
	}

	b, err := h.service.Update(r.Context(), actorFrom(r), id, app.BaseInput{
		SampleID:  sampleID,
		Pattern:   req.Pattern,
		Image:     req.Image,
		ModelName: req.ModelName,
		Approved:  req.Approved,
	})
	if err != nil {
		handleError(w, h.logger, err, "base")
		return
	}

	writeJSON(w, http.StatusOK, toBaseResponse(b))
}

// Delete removes a base and everything under it, reporting what the
// cascade attempted.
// DELETE /api/v1/bases/{id}
func (h *BaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	result, err := h.service.Delete(r.Context(), actorFrom(r), id)
	if err != nil {
		handleError(w, h.logger, err, "base")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
