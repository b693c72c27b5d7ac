package handler

import (
	"net/http"

	"github.com/angelous0/erp-textil/internal/app"
	infrahttp "github.com/angelous0/erp-textil/internal/infra/http"
	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/domain/user"
	"github.com/angelous0/erp-textil/pkg/logger"
	"github.com/angelous0/erp-textil/pkg/validator"
)

// UserHandler handles user administration endpoints.
type UserHandler struct {
	service   *app.UserService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *app.UserService, v *validator.Validator, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service:   service,
		validator: v,
		logger:    log.With("handler", "usuarios"),
	}
}

// UserResponse represents a user in responses. The password hash never
// leaves the server.
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"nombre"`
	Role        string `json:"rol"`
	Active      bool   `json:"activo"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func toUserResponse(u *user.User) UserResponse {
	return UserResponse{
		ID:          u.ID.String(),
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Active:      u.Active,
		CreatedAt:   formatTime(u.CreatedAt),
		UpdatedAt:   formatTime(u.UpdatedAt),
	}
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=50"`
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"nombre" validate:"max=100"`
	Password    string `json:"password" validate:"required,min=8"`
	Role        string `json:"rol" validate:"required,user_role"`
}

// UpdateUserRequest represents the request body for updating a user.
// Password is optional; empty leaves it unchanged.
type UpdateUserRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	DisplayName string `json:"nombre" validate:"max=100"`
	Password    string `json:"password" validate:"omitempty,min=8"`
	Role        string `json:"rol" validate:"required,user_role"`
	Active      bool   `json:"activo"`
}

// GrantsRequest represents the request body for replacing a user's grants.
type GrantsRequest struct {
	Permissions map[string]bool `json:"permisos" validate:"required"`
}

// Create creates a user.
// POST /api/v1/usuarios
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	u, err := h.service.Create(r.Context(), actorFrom(r), app.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Role:        user.Role(req.Role),
	})
	if err != nil {
		handleError(w, h.logger, err, "usuario")
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// Get returns a user by ID.
// GET /api/v1/usuarios/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "usuario")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// List returns all users.
// GET /api/v1/usuarios
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		handleError(w, h.logger, err, "usuario")
		return
	}

	items := make([]UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}

	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// Update replaces the mutable fields of a user.
// PUT /api/v1/usuarios/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validateRequest(w, h.validator, &req) {
		return
	}

	u, err := h.service.Update(r.Context(), actorFrom(r), id, app.UpdateUserInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Role:        user.Role(req.Role),
		Active:      req.Active,
	})
	if err != nil {
		handleError(w, h.logger, err, "usuario")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// Delete removes a user.
// DELETE /api/v1/usuarios/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actorFrom(r), id); err != nil {
		handleError(w, h.logger, err, "usuario")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetGrants returns the user's stored permission map.
// GET /api/v1/usuarios/{id}/permisos
func (h *UserHandler) GetGrants(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	grants, err := h.service.GetGrants(r.Context(), id)
	if err != nil {
		handleError(w, h.logger, err, "usuario")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"permisos": grants.Wire()})
}

// ReplaceGrants replaces the user's permission map. Unknown keys are
// rejected so a typo cannot silently create a dead grant.
// PUT /api/v1/usuarios/{id}/permisos
func (h *UserHandler) ReplaceGrants(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, infrahttp.PathParam(r, "id"))
	if !ok {
		return
	}

	var req GrantsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	grants := permission.NewGrants()
	var unknown []string
	for key, allowed := range req.Permissions {
		if !isKnownPermKey(key) {
			unknown = append(unknown, key)
			continue
		}
		grants.SetRaw(key, allowed)
	}
	if len(unknown) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":              "claves de permiso desconocidas",
			"claves_desconocidas": unknown,
		})
		return
	}

	if err := h.service.ReplaceGrants(r.Context(), actorFrom(r), id, grants); err != nil {
		handleError(w, h.logger, err, "usuario")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"permisos": grants.Wire()})
}

func isKnownPermKey(key string) bool {
	if _, ok := permission.ParseKey(key); ok {
		return true
	}
	if _, ok := permission.ParseFileKey(key); ok {
		return true
	}
	return key == permission.KeyManageUsers
}
