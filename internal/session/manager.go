package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "admin_session"
	subject    = "admin"
)

// Manager issues and verifies signed admin session cookies backed by a Store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Start records a new session and sets its cookie on w.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter) error {
	id := uuid.NewString()
	now := m.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        id,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	if err := m.store.Save(ctx, id, m.ttl); err != nil {
		return err
	}

	http.SetCookie(w, m.cookie(signed, now.Add(m.ttl), int(m.ttl.Seconds())))
	return nil
}

// Authenticated reports whether r carries a valid, unrevoked session cookie.
func (m *Manager) Authenticated(r *http.Request) (bool, error) {
	id, err := m.sessionID(r)
	if err != nil {
		return false, nil
	}
	return m.store.Exists(r.Context(), id)
}

// End revokes the request's session, if any, and expires the cookie.
func (m *Manager) End(w http.ResponseWriter, r *http.Request) error {
	var err error
	if id, idErr := m.sessionID(r); idErr == nil {
		err = m.store.Delete(r.Context(), id)
	}
	http.SetCookie(w, m.cookie("", time.Unix(0, 0), -1))
	return err
}

func (m *Manager) sessionID(r *http.Request) (string, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", ErrSessionNotFound
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(c.Value, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(subject),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return "", errors.Join(ErrSessionNotFound, err)
	}
	if claims.ID == "" {
		return "", ErrSessionNotFound
	}
	return claims.ID, nil
}

func (m *Manager) cookie(value string, expires time.Time, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
