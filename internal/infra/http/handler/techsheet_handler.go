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

// TechSheetHandler handles tech sheet endpoints.
type TechSheetHandler struct {
	service   *app.TechSheetService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewTechSheetHandler creates a new TechSheetHandler.
func NewTechSheetHandler(service *app.TechSheetService, v *validator.Validator, log *logger.Logger) *TechSheetHandler {
	return &TechSheetHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "fichas"),
	}
}

// TechSheetRequest represents the request body for creating or updating a
// tech sheet.
type TechSheetRequest struct {
	BaseID string `json:"id_base" validate:"required,uuid"`
	Name   string `json:"nombre" validate:"required,max=255"`
	File   string `json:"archivo" validate:"max=512"`
}

// TechSheetResponse represents a tech sheet in responses.
type TechSheetResponse struct {
	ID        string `json:"id"`
	BaseID    string `json:"id_base"`
	Name      string `json:"nombre"`
	File      string `json:"archivo,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toTechSheetResponse(t *base.TechSheet) TechSheetResponse {
	return TechSheetResponse{
		ID:        t.ID.String(),
		BaseID:    t.BaseID.String(),
		Name:      t.Name,
		File:      t.File,
		CreatedAt: formatTime(t.CreatedAt),
		UpdatedAt: formatTime(t.UpdatedAt),
	}
}

// Create creates a tech sheet under a base.
// POST /api/v1/fichas
func (h *TechSheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req TechSheetRequest
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

	t, err := h.service.Create(r.Context(), actorFrom(r), app.TechSheetInput{
		BaseID: baseID,
		Name:   req.Name,
		File:   req.File,
	})
	if err != nil {
		handleError(w, h.logger, err, "ficha")
		return
	}

	writeJSON(w, http.StatusCreated, toTechSheetResponse(t))
}

// Get returns a tech sheet by ID.
// GET /api/v1/fichas/{id}
func (h *TechSheetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "ficha")
		return
	}

	writeJSON(w, http.StatusOK, toTechSheetResponse(t))
}

// List returns all tech sheets.
// GET /api/v1/fichas
func (h *TechSheetHandler) List(w http.ResponseWriter, r *http.Request) {
	sheets, err := h.service.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "ficha")
		return
	}

	items := make([]TechSheetResponse, 0, len(sheets))
	for _, t := range sheets {
		items = append(items, toTechSheetResponse(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// ListByBase returns the tech sheets belonging to a base.
// GET /api/v1/fichas/base/{id}
func (h *TechSheetHandler) ListByBase(w http.ResponseWriter, r *http.Request) {
	baseID, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	sheets, err := h.service.ListByBase(r.Context(), baseID)
	if err != nil {
		handleError(w, h.logger, err, "ficha")
		return
	}

	items := make([]TechSheetResponse, 0, len(sheets))
	for _, t := range sheets {
		items = append(items, toTechSheetResponse(t))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Update replaces the mutable fields of a tech sheet.
// PUT /api/v1/fichas/{id}
func (h *TechSheetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	var req TechSheetRequest
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

	t, err := h.service.Update(r.Context(), actorFrom(r), id, app.TechSheetInput{
		BaseID: baseID,
		Name:   req.Name,
		File:   req.File,
	})
	if err != nil {
		handleError(w, h.logger, err, "ficha")
		return
	}

	writeJSON(w, http.StatusOK, toTechSheetResponse(t))
}

// Delete removes a tech sheet, attempting its file first.
// DELETE /api/v1/fichas/{id}
func (h *TechSheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	result, err := h.service.Delete(r.Context(), actorFrom(r), id)
	if err != nil {
		handleError(w, h.logger, err, "ficha")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
