package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelous0/erp-textil/internal/metrics"
	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/domain/user"
	"github.com/angelous0/erp-textil/pkg/jwt"
	"github.com/angelous0/erp-textil/pkg/logger"
)

// AuthService handles login, logout and session introspection.
type AuthService struct {
	users    user.Repository
	perms    user.PermissionRepository
	sessions SessionStore
	tokens   *jwt.Generator
	audit    *AuditService
	logger   *logger.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users user.Repository,
	perms user.PermissionRepository,
	sessions SessionStore,
	tokens *jwt.Generator,
	auditSvc *AuditService,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		perms:    perms,
		sessions: sessions,
		tokens:   tokens,
		audit:    auditSvc,
		logger:   log.With("service", "auth"),
	}
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	User    *user.User
	Session *Session
	Tokens  *jwt.TokenPair
}

// ClientInfo identifies the caller for the audit trail.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// Login verifies credentials, creates a session snapshot and issues tokens.
// Invalid username and invalid password collapse into the same error.
func (s *AuthService) Login(ctx context.Context, username, password string, client ClientInfo) (*LoginResult, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !u.CheckPassword(password) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, user.ErrInvalidCredentials
	}

	if !u.Active {
		metrics.LoginsTotal.WithLabelValues("inactive").Inc()
		return nil, user.ErrUserInactive
	}

	grants, err := s.perms.GetGrants(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grants: %w", err)
	}

	sess := &Session{
		ID:       uuid.New().String(),
		UserID:   u.ID.String(),
		Username: u.Username,
		Role:     string(u.Role),
		Grants:   grants,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	tokens, err := s.tokens.GenerateTokenPair(u.ID.String(), u.Username, string(u.Role), sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.audit.Record(ctx, Actor{
		UserID:    u.ID,
		Username:  u.Username,
		IP:        client.IP,
		UserAgent: client.UserAgent,
	}, audit.ActionLogin, "", "", "")
	s.logger.Info("user logged in", "username", u.Username, "role", string(u.Role))

	return &LoginResult{User: u, Session: sess, Tokens: tokens}, nil
}

// Logout destroys the session. Logging out an already-gone session succeeds.
func (s *AuthService) Logout(ctx context.Context, sess *Session, client ClientInfo) error {
	if err := s.sessions.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	actor := Actor{Username: sess.Username, IP: client.IP, UserAgent: client.UserAgent}
	if id, err := sessionUserID(sess); err == nil {
		actor.UserID = id
	}
	s.audit.Record(ctx, actor, audit.ActionLogout, "", "", "")
	s.logger.Info("user logged out", "username", sess.Username)

	return nil
}

// Me returns the user backing the session.
func (s *AuthService) Me(ctx context.Context, sess *Session) (*user.User, error) {
	id, err := sessionUserID(sess)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, id)
}

// EffectivePermissions returns the wire-format permission map the session
// resolves to. Privileged roles get the full map.
func (s *AuthService) EffectivePermissions(sess *Session) map[string]bool {
	return sess.Resolver().EffectiveGrants().Wire()
}

// Refresh exchanges a valid refresh token for a new token pair. The session
// must still exist; logging out revokes the refresh token with it. The user
// row is re-read so a deactivated account cannot keep minting tokens.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	id, err := shared.IDFromString(claims.UserID)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, user.ErrUserInactive
	}

	tokens, err := s.tokens.GenerateTokenPair(u.ID.String(), u.Username, string(u.Role), sess.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &LoginResult{User: u, Session: sess, Tokens: tokens}, nil
}

func sessionUserID(sess *Session) (shared.ID, error) {
	return shared.IDFromString(sess.UserID)
}
