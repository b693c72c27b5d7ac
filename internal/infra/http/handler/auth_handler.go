package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/angelous0/erp-textil/internal/app"
	"github.com/angelous0/erp-textil/internal/infra/http/middleware"
	"github.com/angelous0/erp-textil/pkg/apierror"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/domain/user"
	"github.com/angelous0/erp-textil/pkg/jwt"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	service   *app.AuthService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service *app.AuthService, v *validator.Validator, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "auth"),
	}
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	AccessToken  string          `json:"access_token"`
	RefreshToken string          `json:"refresh_token"`
	ExpiresAt    time.Time       `json:"expires_at"`
	User         UserResponse    `json:"usuario"`
	Permissions  map[string]bool `json:"permisos"`
}

// Login authenticates a user and issues a token pair.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password, clientInfo(r))
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			apierror.Unauthorized("Usuario o contraseña incorrectos").WriteJSON(w)
		case errors.Is(err, user.ErrUserInactive):
			apierror.Forbidden("El usuario está inactivo").WriteJSON(w)
		default:
			h.logger.Error("login failed", "error", err)
			apierror.InternalError(err).WriteJSON(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresAt:    result.Tokens.ExpiresAt,
		User:         toUserResponse(result.User),
		Permissions:  h.service.EffectivePermissions(result.Session),
	})
}

// RefreshRequest represents the request body for refreshing a token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a refresh token for a new token pair.
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	result, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			apierror.Unauthorized("Token expired").WriteJSON(w)
		case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrInvalidTokenType):
			apierror.Unauthorized("Invalid token").WriteJSON(w)
		case errors.Is(err, app.ErrSessionNotFound):
			apierror.Unauthorized("Session expired or revoked").WriteJSON(w)
		case errors.Is(err, user.ErrUserInactive):
			apierror.Forbidden("El usuario está inactivo").WriteJSON(w)
		case errors.Is(err, shared.ErrNotFound):
			apierror.Unauthorized("Invalid token").WriteJSON(w)
		default:
			h.logger.Error("token refresh failed", "error", err)
			apierror.InternalError(err).WriteJSON(w)
		}
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		ExpiresAt:    result.Tokens.ExpiresAt,
		User:         toUserResponse(result.User),
		Permissions:  h.service.EffectivePermissions(result.Session),
	})
}

// Logout destroys the current session.
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if sess == nil {
		apierror.Unauthorized("Authentication required").WriteJSON(w)
		return
	}

	if err := h.service.Logout(r.Context(), sess, clientInfo(r)); err != nil {
		h.logger.Error("logout failed", "error", err)
		apierror.InternalError(err).WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"mensaje": "sesión cerrada"})
}

// clientInfo captures the caller's address and agent for the audit trail.
// The RealIP middleware has already rewritten RemoteAddr to the client IP.
func clientInfo(r *http.Request) app.ClientInfo {
	return app.ClientInfo{
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}

// Me returns the authenticated user.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if sess == nil {
		apierror.Unauthorized("Authentication required").WriteJSON(w)
		return
	}

	u, err := h.service.Me(r.Context(), sess)
	if err != nil {
		handleError(w, h.logger, err, "usuario")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// MePermissions returns the effective permission map of the session.
// GET /api/v1/auth/me/permisos
func (h *AuthHandler) MePermissions(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())
	if sess == nil {
		apierror.Unauthorized("Authentication required").WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"permisos": h.service.EffectivePermissions(sess),
		"rol":      sess.Role,
	})
}
