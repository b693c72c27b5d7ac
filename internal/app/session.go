// Package app wires the domain into application services.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/angelous0/erp-textil/pkg/domain/permission"
)

// ErrSessionNotFound is returned when a session does not exist or expired.
var ErrSessionNotFound = errors.New("session not found")

// Session is the snapshot created at login and destroyed at logout. It
// carries the role and permission map so authorization never re-reads the
// user row mid-request. Grants are refreshed when an admin edits them.
type Session struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Username  string            `json:"username"`
	Role      string            `json:"role"`
	Grants    permission.Grants `json:"grants"`
	CreatedAt time.Time         `json:"created_at"`
}

// Resolver builds the permission resolver for this session.
func (s *Session) Resolver() permission.Resolver {
	if s == nil {
		return permission.Anonymous()
	}
	return permission.NewResolver(s.Role, s.Grants)
}

// SessionStore persists session snapshots.
type SessionStore interface {
	Save(ctx context.Context, sess *Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error

	// Refresh extends a session's lifetime without rewriting its payload.
	Refresh(ctx context.Context, sessionID string) error

	// UpdateGrantsByUser rewrites the grant map in every active session of
	// the user.
	UpdateGrantsByUser(ctx context.Context, userID string, grants permission.Grants) error
}
