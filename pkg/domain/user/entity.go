// Package user provides the user domain model.
package user

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/angelous0/erp-textil/pkg/domain/shared"
)

// Role represents the user's role.
type Role string

const (
	RoleViewer     Role = "viewer"
	RoleEditor     Role = "editor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsValid checks if the role is a known one.
func (r Role) IsValid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsPrivileged reports whether the role bypasses permission grants.
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// User represents a system user.
type User struct {
	ID           shared.ID
	Username     string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New creates a user with a freshly hashed password.
func New(username, email, displayName, password string, role Role) (*User, error) {
	u := &User{
		ID:          shared.NewID(),
		Username:    strings.TrimSpace(strings.ToLower(username)),
		Email:       strings.TrimSpace(strings.ToLower(email)),
		DisplayName: strings.TrimSpace(displayName),
		Role:        role,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate validates the user data.
func (u *User) Validate() error {
	if u.Username == "" {
		return fmt.Errorf("%w: username is required", shared.ErrValidation)
	}
	if len(u.Username) < 3 || len(u.Username) > 50 {
		return fmt.Errorf("%w: username must be 3-50 characters", shared.ErrValidation)
	}
	if u.Email != "" {
		if _, err := mail.ParseAddress(u.Email); err != nil {
			return ErrInvalidEmail
		}
	}
	if !u.Role.IsValid() {
		return fmt.Errorf("%w: invalid role %q", shared.ErrValidation, u.Role)
	}
	return nil
}

// SetPassword hashes and stores a new password.
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooWeak
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Deactivate marks the user inactive. Inactive users cannot log in and their
// existing sessions fail validation.
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now().UTC()
}

// Activate marks the user active.
func (u *User) Activate() {
	u.Active = true
	u.UpdatedAt = time.Now().UTC()
}
