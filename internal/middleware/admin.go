package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"skinsense-backend/internal/logging"

	"go.uber.org/zap"
)

type AuthMethod string

const (
	AuthSession AuthMethod = "session"
	AuthBasic   AuthMethod = "basic"
	AuthToken   AuthMethod = "token"
)

const (
	AdminTokenHeader = "X-Admin-Token"
	AdminTokenQuery  = "token"
)

type adminKey struct{}

// SessionChecker reports whether a request carries a live admin session.
type SessionChecker interface {
	Authenticated(r *http.Request) (bool, error)
}

// AdminAuthorizer checks, in order, the session cookie, Basic credentials and
// the shared admin token. Empty credentials or token disable that method.
type AdminAuthorizer struct {
	sessions SessionChecker
	user     string
	pass     string
	token    string
}

func NewAdminAuthorizer(sessions SessionChecker, user, pass, token string) *AdminAuthorizer {
	return &AdminAuthorizer{sessions: sessions, user: user, pass: pass, token: token}
}

// CheckCredentials compares a username/password pair in constant time.
func (a *AdminAuthorizer) CheckCredentials(user, pass string) bool {
	if a.user == "" || a.pass == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(a.pass)) == 1
	return userOK && passOK
}

func (a *AdminAuthorizer) Authorize(r *http.Request) (AuthMethod, bool) {
	ctx := r.Context()

	if a.sessions != nil {
		ok, err := a.sessions.Authenticated(r)
		if err != nil {
			logging.FromContext(ctx).Error(ctx, "session lookup failed", zap.Error(err))
		}
		if ok {
			return AuthSession, true
		}
	}

	if user, pass, ok := r.BasicAuth(); ok && a.CheckCredentials(user, pass) {
		return AuthBasic, true
	}

	if a.token != "" {
		presented := r.Header.Get(AdminTokenHeader)
		if presented == "" {
			presented = r.URL.Query().Get(AdminTokenQuery)
		}
		if presented != "" && subtle.ConstantTimeCompare([]byte(presented), []byte(a.token)) == 1 {
			return AuthToken, true
		}
	}

	return "", false
}

// RequireAdmin rejects unauthorized requests with 401 and marks the context
// of authorized ones.
func RequireAdmin(a *AdminAuthorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, ok := a.Authorize(r)
			if !ok {
				ctx := r.Context()
				logging.FromContext(ctx).Info(ctx, "admin authorization failed", zap.String("path", r.URL.Path))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			ctx := context.WithValue(r.Context(), adminKey{}, method)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsAdmin reports whether RequireAdmin authorized this request.
func IsAdmin(ctx context.Context) bool {
	_, ok := AdminMethod(ctx)
	return ok
}

func AdminMethod(ctx context.Context) (AuthMethod, bool) {
	m, ok := ctx.Value(adminKey{}).(AuthMethod)
	return m, ok && m != ""
}
