// Package handler contains the HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/angelous0/erp-textil/internal/app"
	"github.com/angelous0/erp-textil/internal/infra/http/middleware"
	"github.com/angelous0/erp-textil/pkg/apierror"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/validator"
)

const timeFormat = time.RFC3339

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON decodes the request body into dst. Returns false after writing
// the error response when the body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		apierror.BadRequest("Invalid request body").WriteJSON(w)
		return false
	}
	return true
}

// validateRequest runs struct validation on a decoded request. Returns false
// after writing the error response when validation fails.
func validateRequest(w http.ResponseWriter, v *validator.Validator, req any) bool {
	if err := v.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			apierror.ValidationFailed("Validation failed", verrs).WriteJSON(w)
			return false
		}
		apierror.BadRequest(err.Error()).WriteJSON(w)
		return false
	}
	return true
}

// parseID parses a path parameter as an entity ID. Returns false after
// writing the error response when the value is not a UUID.
func parseID(w http.ResponseWriter, raw string) (shared.ID, bool) {
	id, err := shared.IDFromString(raw)
	if err != nil {
		apierror.BadRequest("Invalid id format").WriteJSON(w)
		return shared.ID{}, false
	}
	return id, true
}

// actorFrom builds the audit actor from the request's session. The RealIP
// middleware has already rewritten RemoteAddr to the client IP.
func actorFrom(r *http.Request) app.Actor {
	actor := app.Actor{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
	sess := middleware.GetSession(r.Context())
	if sess == nil {
		return actor
	}
	actor.Username = sess.Username
	if id, err := shared.IDFromString(sess.UserID); err == nil {
		actor.UserID = id
	}
	return actor
}

// handleError maps domain errors to API error responses.
func handleError(w http.ResponseWriter, log *logger.Logger, err error, resource string) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		apierror.NotFound(resource).WriteJSON(w)
	case errors.Is(err, shared.ErrAlreadyExists):
		apierror.Conflict(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidInput):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrForbidden):
		apierror.Forbidden(err.Error()).WriteJSON(w)
	default:
		log.Error("unexpected error", "error", err)
		apierror.InternalError(err).WriteJSON(w)
	}
}

// parseQueryInt parses a query parameter as an integer.
// Returns defaultVal if the input is empty or invalid.
func parseQueryInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}

// formatTime formats a timestamp for responses.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}
