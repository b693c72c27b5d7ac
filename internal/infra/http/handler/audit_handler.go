package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/angelous0/erp-textil/internal/app"
	infrahttp "github.com/angelous0/erp-textil/internal/infra/http"
	"github.com/angelous0/erp-textil/pkg/apierror"
	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/pagination"
)

// AuditHandler handles activity-history endpoints.
type AuditHandler struct {
	service *app.AuditService
	logger  *logger.Logger
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(service *app.AuditService, log *logger.Logger) *AuditHandler {
	return &AuditHandler{
		service: service,
		logger:  log.With("handler", "historial"),
	}
}

// AuditEntryResponse represents a history entry in responses.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	UserID     string          `json:"id_usuario,omitempty"`
	Username   string          `json:"usuario"`
	Action     string          `json:"accion"`
	Table      string          `json:"tabla,omitempty"`
	RecordID   string          `json:"registro_id,omitempty"`
	Detail     string          `json:"detalle,omitempty"`
	IP         string          `json:"ip,omitempty"`
	UserAgent  string          `json:"user_agent,omitempty"`
	DataBefore json.RawMessage `json:"datos_anteriores,omitempty"`
	DataAfter  json.RawMessage `json:"datos_nuevos,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

func toAuditEntryResponse(e *audit.Entry) AuditEntryResponse {
	resp := AuditEntryResponse{
		ID:        e.ID.String(),
		Username:  e.Username,
		Action:    string(e.Action),
		Table:     e.Table,
		RecordID:  e.RecordID,
		Detail:    e.Detail,
		IP:        e.IP,
		UserAgent: e.UserAgent,
		CreatedAt: formatTime(e.CreatedAt),
	}
	if e.UserID != nil {
		resp.UserID = e.UserID.String()
	}
	if e.DataBefore != "" {
		resp.DataBefore = json.RawMessage(e.DataBefore)
	}
	if e.DataAfter != "" {
		resp.DataAfter = json.RawMessage(e.DataAfter)
	}
	return resp
}

// List returns history entries, newest first, filtered and paginated.
// GET /api/v1/historial?usuario=&accion=&tabla=&desde=&hasta=&page=&per_page=
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	f := audit.Filter{
		Username: infrahttp.QueryParam(r, "usuario"),
		Table:    infrahttp.QueryParam(r, "tabla"),
	}

	if raw := infrahttp.QueryParam(r, "accion"); raw != "" {
		action := audit.Action(raw)
		if !action.IsValid() {
			apierror.BadRequest("Acción desconocida").WriteJSON(w)
			return
		}
		f.Action = action
	}

	var ok bool
	if f.From, ok = parseDateParam(w, r, "desde"); !ok {
		return
	}
	if f.To, ok = parseDateParam(w, r, "hasta"); !ok {
		return
	}

	p := pagination.New(
		parseQueryInt(infrahttp.QueryParam(r, "page"), 1),
		parseQueryInt(infrahttp.QueryParam(r, "per_page"), 20),
	)

	result, err := h.service.List(r.Context(), f, p)
	if err != nil {
		handleError(w, h.logger, err, "historial")
		return
	}

	items := make([]AuditEntryResponse, 0, len(result.Data))
	for _, e := range result.Data {
		items = append(items, toAuditEntryResponse(e))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":       items,
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// Stats returns aggregate history counts.
// GET /api/v1/historial/stats
func (h *AuditHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "historial")
		return
	}

	byAction := make(map[string]int64, len(stats.ByAction))
	for action, n := range stats.ByAction {
		byAction[string(action)] = n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":       stats.Total,
		"por_accion":  byAction,
		"por_tabla":   stats.ByTable,
		"por_usuario": stats.ByUser,
	})
}

// Tables returns the distinct affected-table names present in history.
// GET /api/v1/historial/tablas
func (h *AuditHandler) Tables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.Tables(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "historial")
		return
	}
	if tables == nil {
		tables = make([]string, 0)
	}

	writeJSON(w, http.StatusOK, map[string]any{"tablas": tables})
}

// parseDateParam reads an RFC 3339 timestamp or a bare YYYY-MM-DD date from
// the query string. Empty values yield the zero time.
func parseDateParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	raw := infrahttp.QueryParam(r, name)
	if raw == "" {
		return time.Time{}, true
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), true
	}

	apierror.BadRequest("Invalid " + name + " date").WriteJSON(w)
	return time.Time{}, false
}
