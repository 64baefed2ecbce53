package discord

// Package discord provides the Discord OAuth2 and guild-lookup adapters.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/oauth2"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
	"github.com/flashbackfa/entreprise-api/internal/ports"
)

// Endpoint is the Discord OAuth2 endpoint pair.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: "https://discord.com/api/oauth2/token",
}

// userGuildsPageSize is the maximum page size Discord allows on /users/@me/guilds.
const userGuildsPageSize = 200

// Provider implements ports.AuthProvider using the Discord OAuth2 flow:
// authorization-code exchange, then identity and guild-list fetches with the
// resulting bearer token.
type Provider struct {
	config     *oauth2.Config
	sessionTTL time.Duration
	httpClient *http.Client
}

// ProviderConfig holds configuration for the Discord provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// SessionTTL bounds the identity lifetime when the token response
	// carries no expiry.
	SessionTTL time.Duration
	HTTPClient *http.Client // Optional, defaults to a 30s-timeout client
}

// NewProvider creates a new Discord OAuth2 provider.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Provider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"identify", "guilds"},
			Endpoint:     Endpoint,
		},
		sessionTTL: ttl,
		httpClient: httpClient,
	}, nil
}

// Begin starts the login flow and returns the Discord authorize URL and an
// opaque state for CSRF protection.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, error) {
	if in.RedirectURL == "" {
		return "", "", errors.New("redirect URL is required")
	}

	state, err := generateRandomString(32)
	if err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}

	authURL := p.config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "none"))
	return authURL, state, nil
}

// Exchange completes the login flow: code→token, then /users/@me and
// /users/@me/guilds with the bearer token. Any failure here is fatal to the
// login attempt; no session must be created from a partial identity.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code == "" {
		return domainauth.Identity{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, errors.New("state is required")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	token, err := p.config.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	sess, err := discordgo.New("Bearer " + token.AccessToken)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("create bearer session: %w", err)
	}
	sess.Client = p.httpClient

	user, err := sess.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("fetch identity: %w", err)
	}

	guilds, err := sess.UserGuilds(userGuildsPageSize, "", "", false, discordgo.WithContext(ctx))
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("fetch guild list: %w", err)
	}
	guildIDs := make([]string, 0, len(guilds))
	for _, g := range guilds {
		guildIDs = append(guildIDs, g.ID)
	}

	expiresAt := time.Now().Add(p.sessionTTL)
	if !token.Expiry.IsZero() && token.Expiry.Before(expiresAt) {
		expiresAt = token.Expiry
	}

	return domainauth.Identity{
		UserID:    user.ID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL("128"),
		GuildIDs:  guildIDs,
		ExpiresAt: expiresAt,
	}, nil
}

// generateRandomString creates a cryptographically secure URL-safe string.
func generateRandomString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
