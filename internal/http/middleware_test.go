package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
	"github.com/flashbackfa/entreprise-api/internal/domain/authz"
)

type fakeSessionService struct {
	sessions map[string]*domainauth.Session
}

func (f *fakeSessionService) GetSession(_ context.Context, sessionID string) (*domainauth.Session, error) {
	if s, ok := f.sessions[sessionID]; ok {
		return s, nil
	}
	return nil, errors.New("session not found")
}

func testSession(role domainauth.Role) *domainauth.Session {
	return &domainauth.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		Username:  "alice",
		Role:      role,
		RoleLevel: role.Level(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func sessionRequest(sessionID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: sessionID})
	}
	return req
}

func TestRequireAuth(t *testing.T) {
	svc := &fakeSessionService{sessions: map[string]*domainauth.Session{
		"sess-1": testSession(domainauth.RoleEmployee),
	}}

	var gotSession *domainauth.Session
	handler := RequireAuth(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = GetSessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid session passes and lands in context", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, sessionRequest("sess-1"))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, gotSession)
		assert.Equal(t, "user-1", gotSession.UserID)
	})

	t.Run("missing cookie is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, sessionRequest(""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "authentication_required")
	})

	t.Run("unknown session is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, sessionRequest("bogus"))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireCapability(t *testing.T) {
	matrix := authz.NewDefaultMatrix()
	svc := &fakeSessionService{sessions: map[string]*domainauth.Session{
		"employee": testSession(domainauth.RoleEmployee),
		"patron": {
			ID: "patron", UserID: "user-2", Role: domainauth.RolePatron,
			RoleLevel: domainauth.RolePatron.Level(), ExpiresAt: time.Now().Add(time.Hour),
		},
	}}

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("role with capability passes", func(t *testing.T) {
		handler := RequireCapability(svc, matrix, authz.CapDotations)(ok)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, sessionRequest("patron"))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("role without capability gets 403", func(t *testing.T) {
		handler := RequireCapability(svc, matrix, authz.CapDotations)(ok)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, sessionRequest("employee"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient_permissions")
	})

	t.Run("unauthenticated gets 401 not 403", func(t *testing.T) {
		handler := RequireCapability(svc, matrix, authz.CapDotations)(ok)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, sessionRequest(""))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown capability fails closed", func(t *testing.T) {
		handler := RequireCapability(svc, matrix, authz.Capability("made_up"))(ok)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, sessionRequest("patron"))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d within burst", i)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// A different client has its own bucket.
	other := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5000"
	assert.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 192.0.2.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}

func TestSafeRedirectPath(t *testing.T) {
	assert.Equal(t, "/dashboard", safeRedirectPath("/dashboard"))
	assert.Equal(t, "/", safeRedirectPath(""))
	assert.Equal(t, "/", safeRedirectPath("https://evil.example"))
	assert.Equal(t, "/", safeRedirectPath("//evil.example"))
}
