package handler

import (
	"net/http"

	"github.com/angelous0/erp-textil/internal/app"
	infrahttp "github.com/angelous0/erp-textil/internal/infra/http"
	"github.com/angelous0/erp-textil/pkg/apierror"
	"github.com/angelous0/erp-textil/pkg/domain/sample"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/validator"
)

// SampleHandler handles sample endpoints.
type SampleHandler struct {
	service   *app.SampleService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewSampleHandler creates a new SampleHandler.
func NewSampleHandler(service *app.SampleService, v *validator.Validator, log *logger.Logger) *SampleHandler {
	return &SampleHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "muestras"),
	}
}

// SampleRequest represents the request body for creating or updating a
// sample.
type SampleRequest struct {
	ProductTypeID        string   `json:"id_tipo" validate:"required,uuid"`
	FitID                string   `json:"id_entalle" validate:"required,uuid"`
	FabricID             string   `json:"id_tela" validate:"required,uuid"`
	BrandID              *string  `json:"id_marca" validate:"omitempty,uuid"`
	EstimatedConsumption *float64 `json:"consumo_estimado" validate:"omitempty,gte=0"`
	EstimatedCost        *float64 `json:"costo_estimado" validate:"omitempty,gte=0"`
	EstimatedPrice       *float64 `json:"precio_estimado" validate:"omitempty,gte=0"`
	CostDocument         string   `json:"archivo_costo" validate:"max=512"`
	Approved             bool     `json:"aprobado"`
}

// SampleResponse represents a sample in responses.
type SampleResponse struct {
	ID                   string   `json:"id"`
	ProductTypeID        string   `json:"id_tipo"`
	FitID                string   `json:"id_entalle"`
	FabricID             string   `json:"id_tela"`
	BrandID              *string  `json:"id_marca,omitempty"`
	EstimatedConsumption *float64 `json:"consumo_estimado,omitempty"`
	EstimatedCost        *float64 `json:"costo_estimado,omitempty"`
	EstimatedPrice       *float64 `json:"precio_estimado,omitempty"`
	CostDocument         string   `json:"archivo_costo,omitempty"`
	Approved             bool     `json:"aprobado"`
	CreatedAt            string   `json:"created_at"`
	UpdatedAt            string   `json:"updated_at"`
}

func toSampleResponse(sm *sample.Sample) SampleResponse {
	resp := SampleResponse{
		ID:                   sm.ID.String(),
		ProductTypeID:        sm.ProductTypeID.String(),
		FitID:                sm.FitID.String(),
		FabricID:             sm.FabricID.String(),
		EstimatedConsumption: sm.EstimatedConsumption,
		EstimatedCost:        sm.EstimatedCost,
		EstimatedPrice:       sm.EstimatedPrice,
		CostDocument:         sm.CostDocument,
		Approved:             sm.Approved,
		CreatedAt:            formatTime(sm.CreatedAt),
		UpdatedAt:            formatTime(sm.UpdatedAt),
	}
	if sm.BrandID != nil {
		bid := sm.BrandID.String()
		resp.BrandID = &bid
	}
	return resp
}

func (req SampleRequest) toInput(w http.ResponseWriter) (app.SampleInput, bool) {
	in := app.SampleInput{
		EstimatedConsumption: req.EstimatedConsumption,
		EstimatedCost:        req.EstimatedCost,
		EstimatedPrice:       req.EstimatedPrice,
		CostDocument:         req.CostDocument,
		Approved:             req.Approved,
	}

	var err error
	if in.ProductTypeID, err = shared.IDFromString(req.ProductTypeID); err != nil {
		apierror.BadRequest("Invalid id_tipo").WriteJSON(w)
		return in, false
	}
	if in.FitID, err = shared.IDFromString(req.FitID); err != nil {
		apierror.BadRequest("Invalid id_entalle").WriteJSON(w)
		return in, false
	}
	if in.FabricID, err = shared.IDFromString(req.FabricID); err != nil {
		apierror.BadRequest("Invalid id_tela").WriteJSON(w)
		return in, false
	}
	if req.BrandID != nil {
		bid, err := shared.IDFromString(*req.BrandID)
		if err != nil {
			apierror.BadRequest("Invalid id_marca").WriteJSON(w)
			return in, false
		}
		in.BrandID = &bid
	}
	return in, true
}

// Create creates a sample.
// POST /api/v1/muestras-base
func (h *SampleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SampleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}
	in, ok := req.toInput(w)
	if !ok {
		return
	}

	sm, err := h.service.Create(r.Context(), actorFrom(r), in)
	if err != nil {
		handleError(w, h.logger, err, "muestra")
		return
	}

	writeJSON(w, http.StatusCreated, toSampleResponse(sm))
}

// Get returns a sample by ID.
// GET /api/v1/muestras-base/{id}
func (h *SampleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	sm, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "muestra")
		return
	}

	writeJSON(w, http.StatusOK, toSampleResponse(sm))
}

// List returns all samples.
// GET /api/v1/muestras-base
func (h *SampleHandler) List(w http.ResponseWriter, r *http.Request) {
	samples, err := h.service.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "muestra")
		return
	}

	items := make([]SampleResponse, 0, len(samples))
	for _, sm := range samples {
		items = append(items, toSampleResponse(sm))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Update replaces the mutable fields of a sample.
// PUT /api/v1/muestras-base/{id}
func (h *SampleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	var req SampleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}
	in, ok := req.toInput(w)
	if !ok {
		return
	}

	sm, err := h.service.Update(r.Context(), actorFrom(r), id, in)
	if err != nil {
		handleError(w, h.logger, err, "muestra")
		return
	}

	writeJSON(w, http.StatusOK, toSampleResponse(sm))
}

// Delete removes a sample and everything under it, reporting what the
// cascade attempted.
// DELETE /api/v1/muestras-base/{id}
func (h *SampleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	result, err := h.service.Delete(r.Context(), actorFrom(r), id)
	if err != nil {
		handleError(w, h.logger, err, "muestra")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
