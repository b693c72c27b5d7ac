package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/angelous0/erp-textil/internal/app"
	"github.com/angelous0/erp-textil/internal/metrics"
	"github.com/angelous0/erp-textil/pkg/apierror"
	"github.com/angelous0/erp-textil/pkg/domain/permission"
	"github.com/angelous0/erp-textil/pkg/jwt"
	"github.com/angelous0/erp-textil/pkg/logger"
)

type contextKey string

const (
	sessionContextKey contextKey = "session"
	userIDContextKey  contextKey = "user_id"
)

// Authenticator validates bearer tokens and loads the session snapshot.
type Authenticator struct {
	tokens   *jwt.Generator
	sessions app.SessionStore
	logger   *logger.Logger
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(tokens *jwt.Generator, sessions app.SessionStore, log *logger.Logger) *Authenticator {
	return &Authenticator{
		tokens:   tokens,
		sessions: sessions,
		logger:   log.With("middleware", "auth"),
	}
}

// Middleware authenticates the request. The access token carries identity
// only; role and grants come from the Redis session, so a revoked session or
// freshly edited grants take effect without waiting for token expiry.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				apierror.Unauthorized("Missing authorization token").WriteJSON(w)
				return
			}

			claims, err := a.tokens.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, jwt.ErrExpiredToken) {
					apierror.Unauthorized("Token expired").WriteJSON(w)
					return
				}
				apierror.Unauthorized("Invalid token").WriteJSON(w)
				return
			}

			sess, err := a.sessions.Get(r.Context(), claims.SessionID)
			if err != nil {
				if errors.Is(err, app.ErrSessionNotFound) {
					apierror.Unauthorized("Session expired or revoked").WriteJSON(w)
					return
				}
				a.logger.Error("failed to load session", "error", err,
					"request_id", GetRequestID(r.Context()))
				apierror.InternalError(err).WriteJSON(w)
				return
			}

			// Sliding expiration: activity keeps the session alive.
			if err := a.sessions.Refresh(r.Context(), claims.SessionID); err != nil &&
				!errors.Is(err, app.ErrSessionNotFound) {
				a.logger.Warn("failed to refresh session ttl", "error", err)
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, sess)
			ctx = context.WithValue(ctx, userIDContextKey, sess.UserID)
			ctx = context.WithValue(ctx, logger.ContextKeyUserID, sess.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the session from context. Returns nil when the request
// did not pass the auth middleware.
func GetSession(ctx context.Context) *app.Session {
	if sess, ok := ctx.Value(sessionContextKey).(*app.Session); ok {
		return sess
	}
	return nil
}

// GetUserID extracts the authenticated user ID from context.
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDContextKey).(string); ok {
		return id
	}
	return ""
}

// Require guards a route with a (module, action) permission check.
func Require(m permission.Module, act permission.Action) func(http.Handler) http.Handler {
	key := permission.Key{Module: m, Action: act}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if !sess.Resolver().CanAccess(m, act) {
				deny(w, sess, key.String())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireFileOp guards a file route with a (operation, category) permission
// check. The category comes from the "categoria" query parameter; unknown
// categories deny for non-admin users rather than erroring.
func RequireFileOp(op permission.FileOp) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			kind := r.URL.Query().Get("categoria")

			resolver := sess.Resolver()
			var allowed bool
			switch op {
			case permission.FileOpSubir:
				allowed = resolver.CanUpload(kind)
			case permission.FileOpDescargar:
				allowed = resolver.CanDownload(kind)
			}

			if !allowed {
				deny(w, sess, string(op)+"_"+kind)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards a route for admin roles only.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if !sess.Resolver().IsAdmin() {
				deny(w, sess, "admin")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUserManagement guards the user administration routes.
func RequireUserManagement() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := GetSession(r.Context())
			if !sess.Resolver().CanManageUsers() {
				deny(w, sess, permission.KeyManageUsers)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, sess *app.Session, key string) {
	metrics.PermissionDenialsTotal.WithLabelValues(key).Inc()
	if sess == nil {
		apierror.Unauthorized("Authentication required").WriteJSON(w)
		return
	}
	apierror.Forbidden("No tiene permiso para realizar esta acción").WriteJSON(w)
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
