package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelous0/erp-textil/pkg/domain/audit"
	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/domain/shared"
	"github.com/angelous0/erp-textil/pkg/domain/user"
	"github.com/angelous0/erp-textil/pkg/jwt"
	"github.com/angelous0/erp-textil/pkg/logger"
)

type fakeUserRepo struct {
	users map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.users[u.ID.String()] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id shared.ID) (*user.User, error) {
	u, ok := r.users[id.String()]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	if _, ok := r.users[u.ID.String()]; !ok {
		return user.ErrUserNotFound
	}
	r.users[u.ID.String()] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id shared.ID) error {
	if _, ok := r.users[id.String()]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id.String())
	return nil
}

func (r *fakeUserRepo) List(_ context.Context) ([]*user.User, error) {
	out := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	if err != nil {
		return false, nil
	}
	return true, nil
}

type fakePermRepo struct {
	grants map[string]permission.Grants
}

func newFakePermRepo() *fakePermRepo {
	return &fakePermRepo{grants: make(map[string]permission.Grants)}
}

func (r *fakePermRepo) GetGrants(_ context.Context, userID shared.ID) (permission.Grants, error) {
	if g, ok := r.grants[userID.String()]; ok {
		return g, nil
	}
	return permission.NewGrants(), nil
}

func (r *fakePermRepo) ReplaceGrants(_ context.Context, userID shared.ID, grants permission.Grants) error {
	r.grants[userID.String()] = grants
	return nil
}

func (r *fakePermRepo) DeleteGrants(_ context.Context, userID shared.ID) error {
	delete(r.grants, userID.String())
	return nil
}

type fakeSessionStore struct {
	sessions      map[string]*Session
	refreshed     []string
	grantsUpdates map[string]permission.Grants
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions:      make(map[string]*Session),
		grantsUpdates: make(map[string]permission.Grants),
	}
}

func (s *fakeSessionStore) Save(_ context.Context, sess *Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, sessionID string) (*Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func (s *fakeSessionStore) Refresh(_ context.Context, sessionID string) error {
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	s.refreshed = append(s.refreshed, sessionID)
	return nil
}

func (s *fakeSessionStore) UpdateGrantsByUser(_ context.Context, userID string, grants permission.Grants) error {
	s.grantsUpdates[userID] = grants
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			sess.Grants = grants
		}
	}
	return nil
}

func testTokenGenerator() *jwt.Generator {
	return jwt.NewGenerator(jwt.TokenConfig{
		Secret:               "test-secret",
		Issuer:               "erp-textil-test",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
	})
}

func newAuthTestService(t *testing.T) (*AuthService, *fakeUserRepo, *fakeSessionStore, *fakeAuditRepo) {
	t.Helper()

	users := newFakeUserRepo()
	sessions := newFakeSessionStore()
	auditSvc, auditRepo := newTestAudit()
	svc := NewAuthService(users, newFakePermRepo(), sessions, testTokenGenerator(), auditSvc, logger.NewNop())
	return svc, users, sessions, auditRepo
}

func seedUser(t *testing.T, users *fakeUserRepo, username, password string, role user.Role) *user.User {
	t.Helper()

	u, err := user.New(username, username+"@example.com", "", password, role)
	require.NoError(t, err)
	require.NoError(t, users.Create(t.Context(), u))
	return u
}

func TestLoginRecordsClientMetadata(t *testing.T) {
	svc, users, _, auditRepo := newAuthTestService(t)
	seedUser(t, users, "ana", "contrasena1", user.RoleEditor)

	result, err := svc.Login(t.Context(), "ana", "contrasena1",
		ClientInfo{IP: "10.0.0.8", UserAgent: "curl/8.5"})
	require.NoError(t, err)
	require.NotEmpty(t, result.Tokens.AccessToken)

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	assert.Equal(t, audit.ActionLogin, entry.Action)
	assert.Equal(t, "10.0.0.8", entry.IP)
	assert.Equal(t, "curl/8.5", entry.UserAgent)
}

func TestRefreshIssuesNewTokens(t *testing.T) {
	svc, users, _, _ := newAuthTestService(t)
	u := seedUser(t, users, "ana", "contrasena1", user.RoleEditor)

	login, err := svc.Login(t.Context(), "ana", "contrasena1", ClientInfo{})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(t.Context(), login.Tokens.RefreshToken)
	require.NoError(t, err)

	claims, err := testTokenGenerator().ValidateAccessToken(refreshed.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, login.Session.ID, claims.SessionID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, users, _, _ := newAuthTestService(t)
	seedUser(t, users, "ana", "contrasena1", user.RoleEditor)

	login, err := svc.Login(t.Context(), "ana", "contrasena1", ClientInfo{})
	require.NoError(t, err)

	_, err = svc.Refresh(t.Context(), login.Tokens.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidTokenType)
}

func TestRefreshRejectsRevokedSession(t *testing.T) {
	svc, users, _, _ := newAuthTestService(t)
	seedUser(t, users, "ana", "contrasena1", user.RoleEditor)

	login, err := svc.Login(t.Context(), "ana", "contrasena1", ClientInfo{})
	require.NoError(t, err)
	require.NoError(t, svc.Logout(t.Context(), login.Session, ClientInfo{}))

	_, err = svc.Refresh(t.Context(), login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRefreshRejectsInactiveUser(t *testing.T) {
	svc, users, _, _ := newAuthTestService(t)
	u := seedUser(t, users, "ana", "contrasena1", user.RoleEditor)

	login, err := svc.Login(t.Context(), "ana", "contrasena1", ClientInfo{})
	require.NoError(t, err)

	u.Active = false
	require.NoError(t, users.Update(t.Context(), u))

	_, err = svc.Refresh(t.Context(), login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, user.ErrUserInactive)
}
