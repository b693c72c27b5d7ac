package app

import (
	"context"
	"fmt"

	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/domain/user"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// UserService handles user administration: accounts and their permission
// overrides. All of it is admin-only; the transport layer enforces that.
type UserService struct {
	users    user.Repository
	perms    user.PermissionRepository
	sessions SessionStore
	audit    *AuditService
	logger   *logger.Logger
}

// NewUserService creates a new UserService. sessions may be nil for callers
// without a session store, such as the admin CLI.
func NewUserService(users user.Repository, perms user.PermissionRepository, sessions SessionStore, auditSvc *AuditService, log *logger.Logger) *UserService {
	return &UserService{
		users:    users,
		perms:    perms,
		sessions: sessions,
		audit:    auditSvc,
		logger:   log.With("service", "usuarios"),
	}
}

// CreateUserInput carries the fields for a new account.
type CreateUserInput struct {
	Username    string
	Email       string
	DisplayName string
	Password    string
	Role        user.Role
}

// Create creates a user and seeds the default grant set for its role.
// Privileged roles get no stored grants; they bypass the map entirely.
func (s *UserService) Create(ctx context.Context, actor Actor, in CreateUserInput) (*user.User, error) {
	exists, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, user.AlreadyExistsError(in.Username)
	}

	u, err := user.New(in.Username, in.Email, in.DisplayName, in.Password, in.Role)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if grants, ok := defaultGrantsForRole(in.Role); ok {
		if err := s.perms.ReplaceGrants(ctx, u.ID, grants); err != nil {
			return nil, fmt.Errorf("failed to seed default grants: %w", err)
		}
	}

	s.audit.Record(ctx, actor, audit.ActionCreate, "usuarios", u.ID.String(), u.Username)
	return u, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id shared.ID) (*user.User, error) {
	return s.users.GetByID(ctx, id)
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*user.User, error) {
	return s.users.List(ctx)
}

// UpdateUserInput carries the mutable fields of an account. Password is
// optional; empty means unchanged.
type UpdateUserInput struct {
	Email       string
	DisplayName string
	Password    string
	Role        user.Role
	Active      bool
}

// Update replaces the mutable fields of an account.
func (s *UserService) Update(ctx context.Context, actor Actor, id shared.ID, in UpdateUserInput) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := userSnapshot(u)

	u.Email = in.Email
	u.DisplayName = in.DisplayName
	u.Role = in.Role
	u.Active = in.Active
	if in.Password != "" {
		if err := u.SetPassword(in.Password); err != nil {
			return nil, err
		}
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	s.audit.RecordChange(ctx, actor, audit.ActionEdit, "usuarios", u.ID.String(), u.Username,
		before, userSnapshot(u))
	return u, nil
}

// Delete removes a user and its permission overrides.
func (s *UserService) Delete(ctx context.Context, actor Actor, id shared.ID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.Record(ctx, actor, audit.ActionDelete, "usuarios", id.String(), "")
	return nil
}

// GetGrants returns the user's stored permission map.
func (s *UserService) GetGrants(ctx context.Context, id shared.ID) (permission.Grants, error) {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		return permission.NewGrants(), err
	}
	return s.perms.GetGrants(ctx, id)
}

// ReplaceGrants atomically replaces the user's permission map and pushes the
// new map into the user's active sessions, so the edit takes effect without
// waiting for re-login.
func (s *UserService) ReplaceGrants(ctx context.Context, actor Actor, id shared.ID, grants permission.Grants) error {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	old, err := s.perms.GetGrants(ctx, id)
	if err != nil {
		return err
	}

	if err := s.perms.ReplaceGrants(ctx, id, grants); err != nil {
		return err
	}

	if s.sessions != nil {
		if err := s.sessions.UpdateGrantsByUser(ctx, id.String(), grants); err != nil {
			s.logger.Warn("failed to push grants into active sessions",
				"error", err, "user_id", id.String())
		}
	}

	s.audit.RecordChange(ctx, actor, audit.ActionEdit, "usuarios", u.ID.String(),
		fmt.Sprintf("permisos actualizados (%d claves)", grants.Len()),
		old.Wire(), grants.Wire())
	return nil
}

// userSnapshot is the audited view of an account. The password hash never
// enters the history.
func userSnapshot(u *user.User) map[string]any {
	return map[string]any{
		"username": u.Username,
		"email":    u.Email,
		"nombre":   u.DisplayName,
		"rol":      string(u.Role),
		"activo":   u.Active,
	}
}

func defaultGrantsForRole(r user.Role) (permission.Grants, bool) {
	switch r {
	case user.RoleEditor:
		return permission.DefaultsForEditor(), true
	case user.RoleViewer:
		return permission.DefaultsForViewer(), true
	default:
		return permission.Grants{}, false
	}
}
