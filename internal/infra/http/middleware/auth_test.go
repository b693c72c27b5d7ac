package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelous0/erp-textil/internal/app"
	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/jwt"
	"github.com/angelous0/erp-textil/pkg/logger"
)

func requestWithSession(sess *app.Session) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/telas", nil)
	if sess == nil {
		return r
	}
	ctx := context.WithValue(r.Context(), sessionContextKey, sess)
	return r.WithContext(ctx)
}

func okHandler() (http.HandlerFunc, *bool) {
	called := false
	return func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}, &called
}

func TestRequireWithoutSessionReturns401(t *testing.T) {
	next, called := okHandler()
	mw := Require(permission.ModuleTelas, permission.ActionVer)

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, requestWithSession(nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
}

func TestRequireAdminBypassesGrants(t *testing.T) {
	next, called := okHandler()
	mw := Require(permission.ModuleTelas, permission.ActionEliminar)

	sess := &app.Session{Role: "admin", Grants: permission.NewGrants()}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, requestWithSession(sess))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestRequireDeniesMissingGrant(t *testing.T) {
	next, called := okHandler()
	mw := Require(permission.ModuleTelas, permission.ActionEliminar)

	sess := &app.Session{Role: "editor", Grants: permission.DefaultsForEditor()}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, requestWithSession(sess))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, *called)
}

func TestRequireAllowsGrantedAction(t *testing.T) {
	next, called := okHandler()
	mw := Require(permission.ModuleTelas, permission.ActionEditar)

	sess := &app.Session{Role: "editor", Grants: permission.DefaultsForEditor()}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, requestWithSession(sess))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestRequireFileOpChecksCategoryParam(t *testing.T) {
	sess := &app.Session{Role: "editor", Grants: permission.DefaultsForEditor()}

	tests := []struct {
		name      string
		op        permission.FileOp
		categoria string
		wantCode  int
	}{
		{"editor downloads patterns", permission.FileOpDescargar, "patrones", http.StatusOK},
		{"singular kind resolves", permission.FileOpDescargar, "patron", http.StatusOK},
		{"editor denied cost downloads", permission.FileOpDescargar, "costos", http.StatusForbidden},
		{"editor uploads costs", permission.FileOpSubir, "costos", http.StatusOK},
		{"unknown category denies", permission.FileOpDescargar, "planos", http.StatusForbidden},
		{"missing category denies", permission.FileOpDescargar, "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := okHandler()
			mw := RequireFileOp(tt.op)

			r := httptest.NewRequest(http.MethodGet, "/api/v1/archivos/x?categoria="+tt.categoria, nil)
			r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess))

			rec := httptest.NewRecorder()
			mw(next).ServeHTTP(rec, r)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestRequireFileOpAdminIgnoresUnknownCategory(t *testing.T) {
	next, called := okHandler()
	mw := RequireFileOp(permission.FileOpSubir)

	sess := &app.Session{Role: "super_admin", Grants: permission.NewGrants()}
	r := httptest.NewRequest(http.MethodPost, "/api/v1/archivos?categoria=planos", nil)
	r = r.WithContext(context.WithValue(r.Context(), sessionContextKey, sess))

	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
}

func TestRequireAdmin(t *testing.T) {
	next, _ := okHandler()
	mw := RequireAdmin()

	editor := &app.Session{Role: "editor", Grants: permission.DefaultsForEditor()}
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, requestWithSession(editor))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := &app.Session{Role: "admin", Grants: permission.NewGrants()}
	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, requestWithSession(admin))
	assert.Equal(t, http.StatusOK, rec.Code)
}

type fakeSessionStore struct {
	sessions  map[string]*app.Session
	refreshed []string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*app.Session)}
}

func (s *fakeSessionStore) Save(_ context.Context, sess *app.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, sessionID string) (*app.Session, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, app.ErrSessionNotFound
	}
	return sess, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, sessionID string) error {
	delete(s.sessions, sessionID)
	return nil
}

func (s *fakeSessionStore) Refresh(_ context.Context, sessionID string) error {
	if _, ok := s.sessions[sessionID]; !ok {
		return app.ErrSessionNotFound
	}
	s.refreshed = append(s.refreshed, sessionID)
	return nil
}

func (s *fakeSessionStore) UpdateGrantsByUser(_ context.Context, userID string, grants permission.Grants) error {
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			sess.Grants = grants
		}
	}
	return nil
}

func TestAuthenticatorRefreshesSessionOnRequest(t *testing.T) {
	tokens := jwt.NewGenerator(jwt.TokenConfig{
		Secret:               "test-secret",
		Issuer:               "erp-textil-test",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
	})
	sessions := newFakeSessionStore()
	sess := &app.Session{ID: "s1", UserID: "u1", Username: "ana",
		Role: "editor", Grants: permission.DefaultsForEditor()}
	require.NoError(t, sessions.Save(t.Context(), sess))

	pair, err := tokens.GenerateTokenPair("u1", "ana", "editor", "s1")
	require.NoError(t, err)

	auth := NewAuthenticator(tokens, sessions, logger.NewNop())
	next, called := okHandler()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/telas", nil)
	r.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	auth.Middleware()(next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, *called)
	assert.Equal(t, []string{"s1"}, sessions.refreshed)
}

func TestAuthenticatorRejectsRevokedSession(t *testing.T) {
	tokens := jwt.NewGenerator(jwt.TokenConfig{
		Secret:               "test-secret",
		Issuer:               "erp-textil-test",
		AccessTokenDuration:  time.Minute,
		RefreshTokenDuration: time.Hour,
	})
	sessions := newFakeSessionStore()

	pair, err := tokens.GenerateTokenPair("u1", "ana", "editor", "s1")
	require.NoError(t, err)

	auth := NewAuthenticator(tokens, sessions, logger.NewNop())
	next, called := okHandler()

	r := httptest.NewRequest(http.MethodGet, "/api/v1/telas", nil)
	r.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	auth.Middleware()(next).ServeHTTP(rec, r)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, *called)
	assert.Empty(t, sessions.refreshed)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"no header", "", ""},
		{"bearer token", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"missing token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, extractBearerToken(r))
		})
	}
}
