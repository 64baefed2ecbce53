package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
	"github.com/flashbackfa/entreprise-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Resolver ports.RoleResolver
	Sessions ports.SessionStore
}

// AuthService orchestrates authentication flows: provider exchange,
// multi-guild role resolution, and session persistence.
type AuthService struct {
	provider ports.AuthProvider
	resolver ports.RoleResolver
	sessions ports.SessionStore
}

var errSessionExpired = errors.New("session expired")

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{
		provider: opts.Provider,
		resolver: opts.Resolver,
		sessions: opts.Sessions,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
}

// BeginLogin initiates an authentication flow and returns the provider auth URL with state.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}

	return &BeginLoginResult{AuthURL: authURL, State: state}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin completes an authentication flow by exchanging the code for
// an identity, resolving the internal role across the configured guilds, and
// persisting a session. Provider failures are fatal to the login attempt;
// per-guild resolution failures are not (the resolver degrades them).
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{Code: input.Code, State: input.State})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	resolved := s.resolver.Resolve(ctx, identity)

	session := sessionFromResolved(uuid.New().String(), resolved, identity.ExpiresAt)
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &CompleteLoginResult{Session: session}, nil
}

// RefreshRole re-runs role resolution for an existing session, e.g. after a
// guild role change, and persists the updated session under the same ID and
// expiry. It is idempotent; when called concurrently for the same user the
// latest completed resolution wins.
func (s *AuthService) RefreshRole(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	current, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	resolved := s.resolver.Resolve(ctx, domainauth.Identity{
		UserID:    current.UserID,
		Username:  current.Username,
		AvatarURL: current.AvatarURL,
	})

	updated := sessionFromResolved(current.ID, resolved, current.ExpiresAt)
	if saveErr := s.sessions.Save(ctx, updated); saveErr != nil {
		return nil, fmt.Errorf("save refreshed session: %w", saveErr)
	}

	return &updated, nil
}

// GetSession retrieves a session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &session, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

func sessionFromResolved(id string, resolved domainauth.ResolvedIdentity, expiresAt time.Time) domainauth.Session {
	return domainauth.Session{
		ID:        id,
		UserID:    resolved.UserID,
		Username:  resolved.Username,
		AvatarURL: resolved.AvatarURL,
		Role:      resolved.Role,
		RoleLevel: resolved.RoleLevel,
		Audit:     resolved.Audit,
		ExpiresAt: expiresAt,
	}
}
