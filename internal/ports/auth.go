package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
)

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
}

// AuthProvider initiates and completes an authentication flow against Discord.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL and an opaque state.
	Begin(ctx context.Context, in BeginInput) (authURL, state string, err error)

	// Exchange completes the login flow and returns the authenticated identity,
	// including the guild IDs the user belongs to. Failures here are fatal to
	// the login attempt.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// GuildGateway fetches a user's membership data in one guild using the
// privileged bot credential. A failed fetch degrades to an empty membership
// at the resolver layer; the gateway itself reports errors honestly.
type GuildGateway interface {
	Membership(ctx context.Context, guildID, userID string) (domainauth.GuildMembership, error)
}

// RoleResolver turns a user's guild memberships into a single resolved identity.
type RoleResolver interface {
	Resolve(ctx context.Context, identity domainauth.Identity) domainauth.ResolvedIdentity
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
