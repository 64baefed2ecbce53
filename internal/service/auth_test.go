package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
	"github.com/flashbackfa/entreprise-api/internal/ports"
)

// mockProvider is a test double for ports.AuthProvider.
type mockProvider struct {
	beginErr    error
	identity    domainauth.Identity
	exchangeErr error
}

func (m *mockProvider) Begin(_ context.Context, _ ports.BeginInput) (string, string, error) {
	if m.beginErr != nil {
		return "", "", m.beginErr
	}
	return "https://discord.test/authorize", "state-1", nil
}

func (m *mockProvider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	if m.exchangeErr != nil {
		return domainauth.Identity{}, m.exchangeErr
	}
	return m.identity, nil
}

// mockResolver is a test double for ports.RoleResolver.
type mockResolver struct {
	role  domainauth.Role
	calls int
}

func (m *mockResolver) Resolve(_ context.Context, identity domainauth.Identity) domainauth.ResolvedIdentity {
	m.calls++
	role := m.role
	if role == "" {
		role = domainauth.RoleEmployee
	}
	return domainauth.ResolvedIdentity{
		UserID:    identity.UserID,
		Username:  identity.Username,
		Role:      role,
		RoleLevel: role.Level(),
	}
}

// memorySessionStore is an in-memory ports.SessionStore.
type memorySessionStore struct {
	sessions map[string]domainauth.Session
	saveErr  error
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *memorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[sess.ID] = sess
	return nil
}

func (m *memorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, errors.New("session not found")
	}
	return sess, nil
}

func (m *memorySessionStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func newTestAuthService(p *mockProvider, r *mockResolver, st *memorySessionStore) *AuthService {
	return NewAuthService(AuthServiceOptions{Provider: p, Resolver: r, Sessions: st})
}

func testIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:    "u1",
		Username:  "jdoe",
		GuildIDs:  []string{"g1"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func TestAuthService_BeginLogin(t *testing.T) {
	svc := newTestAuthService(&mockProvider{}, &mockResolver{}, newMemorySessionStore())

	result, err := svc.BeginLogin(context.Background(), "/")
	require.NoError(t, err)
	assert.Equal(t, "https://discord.test/authorize", result.AuthURL)
	assert.Equal(t, "state-1", result.State)
}

func TestAuthService_BeginLogin_EmptyRedirect(t *testing.T) {
	svc := newTestAuthService(&mockProvider{}, &mockResolver{}, newMemorySessionStore())

	_, err := svc.BeginLogin(context.Background(), "")
	require.Error(t, err)
}

func TestAuthService_CompleteLogin_ResolvesAndPersists(t *testing.T) {
	store := newMemorySessionStore()
	resolver := &mockResolver{role: domainauth.RolePatron}
	svc := newTestAuthService(&mockProvider{identity: testIdentity()}, resolver, store)

	result, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s"})
	require.NoError(t, err)

	assert.Equal(t, "u1", result.Session.UserID)
	assert.Equal(t, domainauth.RolePatron, result.Session.Role)
	assert.Equal(t, 3, result.Session.RoleLevel)
	assert.NotEmpty(t, result.Session.ID)
	assert.Contains(t, store.sessions, result.Session.ID)
	assert.Equal(t, 1, resolver.calls)
}

func TestAuthService_CompleteLogin_ExchangeFailureIsFatal(t *testing.T) {
	store := newMemorySessionStore()
	svc := newTestAuthService(&mockProvider{exchangeErr: errors.New("discord down")}, &mockResolver{}, store)

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s"})
	require.Error(t, err)
	assert.Empty(t, store.sessions, "no session may be created from a failed exchange")
}

func TestAuthService_CompleteLogin_MissingParams(t *testing.T) {
	svc := newTestAuthService(&mockProvider{}, &mockResolver{}, newMemorySessionStore())

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{State: "s"})
	require.Error(t, err)

	_, err = svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c"})
	require.Error(t, err)
}

func TestAuthService_CompleteLogin_SaveFailure(t *testing.T) {
	store := newMemorySessionStore()
	store.saveErr = errors.New("redis down")
	svc := newTestAuthService(&mockProvider{identity: testIdentity()}, &mockResolver{}, store)

	_, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s"})
	require.Error(t, err)
}

func TestAuthService_RefreshRole_ReresolvesUnderSameID(t *testing.T) {
	store := newMemorySessionStore()
	resolver := &mockResolver{role: domainauth.RoleEmployee}
	svc := newTestAuthService(&mockProvider{identity: testIdentity()}, resolver, store)

	login, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s"})
	require.NoError(t, err)

	// Guild state changed: the user is now staff.
	resolver.role = domainauth.RoleStaff

	refreshed, err := svc.RefreshRole(context.Background(), login.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, login.Session.ID, refreshed.ID)
	assert.Equal(t, domainauth.RoleStaff, refreshed.Role)
	assert.Equal(t, 5, refreshed.RoleLevel)
	assert.WithinDuration(t, login.Session.ExpiresAt, refreshed.ExpiresAt, time.Second)

	// Idempotent: a second refresh with unchanged guild state is a no-op.
	again, err := svc.RefreshRole(context.Background(), login.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, refreshed.Role, again.Role)
}

func TestAuthService_GetSession_Expired(t *testing.T) {
	store := newMemorySessionStore()
	svc := newTestAuthService(&mockProvider{}, &mockResolver{}, store)

	store.sessions["old"] = domainauth.Session{
		ID:        "old",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	_, err := svc.GetSession(context.Background(), "old")
	require.Error(t, err)
	assert.NotContains(t, store.sessions, "old", "expired session should be cleaned up")
}

func TestAuthService_Logout(t *testing.T) {
	store := newMemorySessionStore()
	svc := newTestAuthService(&mockProvider{identity: testIdentity()}, &mockResolver{}, store)

	login, err := svc.CompleteLogin(context.Background(), CompleteLoginInput{Code: "c", State: "s"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.Session.ID))
	assert.Empty(t, store.sessions)

	// Logging out with no session is a no-op.
	assert.NoError(t, svc.Logout(context.Background(), ""))
}
