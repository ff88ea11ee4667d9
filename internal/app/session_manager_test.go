package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authgate/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSessionRepo struct {
	createFn        func(ctx context.Context, session *domain.Session) error
	getByIDFn       func(ctx context.Context, id string) (*domain.Session, error)
	deleteForUserFn func(ctx context.Context, userID int64) error
	deleteExpiredFn func(ctx context.Context) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteForUser(ctx context.Context, userID int64) error {
	if m.deleteForUserFn != nil {
		return m.deleteForUserFn(ctx, userID)
	}
	return nil
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context) error {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return nil
}

const testCookie = "authgate_session"

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie {
			return c
		}
	}
	return nil
}

func TestSessionManager_Login_PersistsBeforeCookie(t *testing.T) {
	ctx := context.Background()
	var stored *domain.Session
	repo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *domain.Session) error {
			stored = session
			return nil
		},
	}

	m := NewSessionManager(repo, testCookie, time.Hour)
	rec := httptest.NewRecorder()

	session, err := m.Login(ctx, rec, &domain.User{ID: 1, Username: "john"})
	require.NoError(t, err)

	require.NotNil(t, stored)
	assert.Equal(t, int64(1), stored.UserID)
	assert.Equal(t, "john", stored.Username)
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, stored.ExpiresAt, stored.CreatedAt.Add(time.Hour))

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Equal(t, session.ID, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Positive(t, cookie.MaxAge)
}

func TestSessionManager_Login_UniqueIDsPerLogin(t *testing.T) {
	ctx := context.Background()
	seen := map[string]bool{}
	repo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *domain.Session) error {
			seen[session.ID] = true
			return nil
		},
	}

	m := NewSessionManager(repo, testCookie, time.Hour)
	for range 3 {
		_, err := m.Login(ctx, httptest.NewRecorder(), &domain.User{ID: 1, Username: "john"})
		require.NoError(t, err)
	}
	assert.Len(t, seen, 3)
}

func TestSessionManager_Login_StoreFailureLeavesAnonymous(t *testing.T) {
	ctx := context.Background()
	repo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *domain.Session) error {
			return errors.New("store unavailable")
		},
	}

	m := NewSessionManager(repo, testCookie, time.Hour)
	rec := httptest.NewRecorder()

	_, err := m.Login(ctx, rec, &domain.User{ID: 1, Username: "john"})
	require.Error(t, err)

	// The durable write failed, so no cookie may be issued.
	assert.Nil(t, sessionCookie(t, rec))
}

func TestSessionManager_Resolve(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	live := &domain.Session{ID: "live", UserID: 1, Username: "john", ExpiresAt: now.Add(time.Hour)}
	expired := &domain.Session{ID: "expired", UserID: 1, Username: "john", ExpiresAt: now.Add(-time.Minute)}

	lookups := 0
	repo := &mockSessionRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Session, error) {
			lookups++
			switch id {
			case "live":
				return live, nil
			case "expired":
				return expired, nil
			}
			return nil, nil
		},
	}
	m := NewSessionManager(repo, testCookie, time.Hour)

	withCookie := func(value string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if value != "" {
			r.AddCookie(&http.Cookie{Name: testCookie, Value: value})
		}
		return r
	}

	session, err := m.Resolve(ctx, withCookie("live"))
	require.NoError(t, err)
	assert.Equal(t, live, session)

	session, err = m.Resolve(ctx, withCookie("expired"))
	require.NoError(t, err)
	assert.Nil(t, session)

	session, err = m.Resolve(ctx, withCookie("revoked"))
	require.NoError(t, err)
	assert.Nil(t, session)

	// No cookie means anonymous without touching the store.
	before := lookups
	session, err = m.Resolve(ctx, withCookie(""))
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.Equal(t, before, lookups)
}

func TestSessionManager_Resolve_StoreFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mockSessionRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Session, error) {
			return nil, errors.New("store unavailable")
		},
	}
	m := NewSessionManager(repo, testCookie, time.Hour)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: testCookie, Value: "abc"})

	_, err := m.Resolve(ctx, r)
	assert.Error(t, err)
}

func TestSessionManager_Logout_DeletesAllUserSessions(t *testing.T) {
	ctx := context.Background()
	session := &domain.Session{ID: "abc", UserID: 7, Username: "john", ExpiresAt: time.Now().Add(time.Hour)}

	var deletedUser int64
	repo := &mockSessionRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Session, error) {
			return session, nil
		},
		deleteForUserFn: func(ctx context.Context, userID int64) error {
			deletedUser = userID
			return nil
		},
	}
	m := NewSessionManager(repo, testCookie, time.Hour)

	r := httptest.NewRequest(http.MethodGet, "/logout", nil)
	r.AddCookie(&http.Cookie{Name: testCookie, Value: "abc"})
	rec := httptest.NewRecorder()

	require.NoError(t, m.Logout(ctx, rec, r))
	assert.Equal(t, int64(7), deletedUser)

	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestSessionManager_Logout_AnonymousIsNoop(t *testing.T) {
	ctx := context.Background()
	deleted := false
	repo := &mockSessionRepo{
		deleteForUserFn: func(ctx context.Context, userID int64) error {
			deleted = true
			return nil
		},
	}
	m := NewSessionManager(repo, testCookie, time.Hour)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Logout(ctx, rec, httptest.NewRequest(http.MethodGet, "/logout", nil)))
	assert.False(t, deleted)
}

func TestSessionManager_Logout_DeleteFailureKeepsCookie(t *testing.T) {
	ctx := context.Background()
	session := &domain.Session{ID: "abc", UserID: 7, Username: "john", ExpiresAt: time.Now().Add(time.Hour)}
	repo := &mockSessionRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Session, error) {
			return session, nil
		},
		deleteForUserFn: func(ctx context.Context, userID int64) error {
			return errors.New("store unavailable")
		},
	}
	m := NewSessionManager(repo, testCookie, time.Hour)

	r := httptest.NewRequest(http.MethodGet, "/logout", nil)
	r.AddCookie(&http.Cookie{Name: testCookie, Value: "abc"})
	rec := httptest.NewRecorder()

	require.Error(t, m.Logout(ctx, rec, r))

	// Durable delete failed, so the client must not be told it is logged out.
	assert.Nil(t, sessionCookie(t, rec))
}
