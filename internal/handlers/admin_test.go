package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skinsense-backend/internal/middleware"
	"skinsense-backend/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminHandler() (*AdminHandler, *session.Manager) {
	sessions := session.NewManager(session.NewMemoryStore(), "test-secret", time.Hour, false)
	authorizer := middleware.NewAdminAuthorizer(sessions, "curator", "pw", "")
	return NewAdminHandler(authorizer, sessions), sessions
}

func TestLoginLogout(t *testing.T) {
	h, sessions := newAdminHandler()

	w := httptest.NewRecorder()
	h.Login(w, jsonRequest(http.MethodPost, "/api/admin-login", `{"username":"curator","password":"pw"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, session.CookieName, cookie.Name)

	authed := httptest.NewRequest(http.MethodGet, "/api/feedback-data", nil)
	authed.AddCookie(cookie)
	ok, err := sessions.Authenticated(authed)
	require.NoError(t, err)
	assert.True(t, ok)

	logout := jsonRequest(http.MethodPost, "/api/admin-logout", "")
	logout.AddCookie(cookie)
	w = httptest.NewRecorder()
	h.Logout(w, logout)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	ok, err = sessions.Authenticated(authed)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h, _ := newAdminHandler()

	for _, body := range []string{
		`{"username":"curator","password":"wrong"}`,
		`{"username":"","password":""}`,
		`not json`,
		``,
	} {
		w := httptest.NewRecorder()
		h.Login(w, jsonRequest(http.MethodPost, "/api/admin-login", body))

		assert.Equal(t, http.StatusUnauthorized, w.Code, body)
		assert.JSONEq(t, `{"success":false,"error":"Invalid credentials"}`, w.Body.String())
		assert.Empty(t, w.Result().Cookies())
	}
}

func TestLogoutWithoutSession(t *testing.T) {
	h, _ := newAdminHandler()

	w := httptest.NewRecorder()
	h.Logout(w, jsonRequest(http.MethodPost, "/api/admin-logout", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())
}
