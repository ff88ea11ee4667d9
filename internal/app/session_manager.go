package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"authgate/internal/domain"

	"github.com/google/uuid"
)

// SessionManager owns the session lifecycle: it issues sessions on login,
// resolves the request's cookie back to a stored session, and tears both
// down on logout. The cookie is only ever a pointer into the session store;
// the store is the source of truth on every request.
type SessionManager struct {
	sessions   domain.SessionRepository
	cookieName string
	ttl        time.Duration
	now        func() time.Time
}

// NewSessionManager creates a session manager writing cookies under the given
// name with the given lifetime.
func NewSessionManager(sessions domain.SessionRepository, cookieName string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions:   sessions,
		cookieName: cookieName,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Login creates a durable session for the user and sets the session cookie.
// The durable write happens first: if it fails, no cookie is written and the
// request stays anonymous, so the client is never shown as logged in while
// no stored session exists.
func (m *SessionManager) Login(ctx context.Context, w http.ResponseWriter, user *domain.User) (*domain.Session, error) {
	now := m.now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	if err := m.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl.Seconds()),
	})

	return session, nil
}

// Logout deletes every durable session of the current user, then clears the
// cookie. The durable delete comes first: a failure leaves the cookie (and
// the logged-in state) intact rather than orphaning live rows behind a
// client that believes it is logged out.
func (m *SessionManager) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	session, err := m.Resolve(ctx, r)
	if err != nil {
		return err
	}

	if session != nil {
		if err := m.sessions.DeleteForUser(ctx, session.UserID); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	return nil
}

// Resolve maps the request's cookie to its stored session. It returns
// (nil, nil) for anonymous requests: no cookie, no matching row, or an
// expired row. A store failure is returned as an error so callers can tell
// "anonymous" from "unknown".
func (m *SessionManager) Resolve(ctx context.Context, r *http.Request) (*domain.Session, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	session, err := m.sessions.GetByID(ctx, cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.Expired(m.now()) {
		return nil, nil
	}
	return session, nil
}

// CookieName returns the configured session cookie name.
func (m *SessionManager) CookieName() string {
	return m.cookieName
}
