package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/flashbackfa/entreprise-api/config"
	"github.com/flashbackfa/entreprise-api/internal/adapters/devauth"
	"github.com/flashbackfa/entreprise-api/internal/adapters/discord"
	redisadapter "github.com/flashbackfa/entreprise-api/internal/adapters/redis"
	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
	"github.com/flashbackfa/entreprise-api/internal/roles"
	"github.com/flashbackfa/entreprise-api/internal/service"
)

// AuthConfig contains configuration for auth service construction.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildAuthService creates an auth service based on the configured auth mode.
// Returns nil when auth cannot be configured; the caller decides whether
// that is fatal.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	if cfg.RedisClient == nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		}
		return nil
	}

	sessionStore := redisadapter.NewSessionStoreWithPrefix(cfg.RedisClient, "session:")

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		return buildMockAuthService(cfg, sessionStore)
	case config.AuthModeDiscord:
		return buildDiscordAuthService(cfg, sessionStore)
	default:
		return nil
	}
}

// staticRoleResolver assigns one fixed role, for mock auth mode where no
// guild data exists.
type staticRoleResolver struct {
	role domainauth.Role
}

func (r staticRoleResolver) Resolve(_ context.Context, identity domainauth.Identity) domainauth.ResolvedIdentity {
	return domainauth.ResolvedIdentity{
		UserID:    identity.UserID,
		Username:  identity.Username,
		AvatarURL: identity.AvatarURL,
		Role:      r.role,
		RoleLevel: r.role.Level(),
	}
}

func buildMockAuthService(cfg AuthConfig, sessionStore *redisadapter.SessionStore) *service.AuthService {
	prov, err := devauth.NewProvider(devauth.Config{
		UserID:          cfg.Auth.DevAuth.UserID,
		Username:        cfg.Auth.DevAuth.Username,
		GuildIDs:        cfg.Auth.Guilds.IDs(),
		SessionDuration: cfg.Auth.SessionTTL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create dev auth provider, auth disabled", "error", err)
		}
		return nil
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Resolver: staticRoleResolver{role: domainauth.ParseRole(cfg.Auth.DevAuth.Role)},
		Sessions: sessionStore,
	})
}

func buildDiscordAuthService(cfg AuthConfig, sessionStore *redisadapter.SessionStore) *service.AuthService {
	dc := cfg.Auth.Discord
	if dc.ClientID == "" || dc.ClientSecret == "" || dc.BotToken == "" {
		if cfg.Logger != nil {
			cfg.Logger.Warn("discord auth selected but required config missing; auth disabled",
				"client_id_empty", dc.ClientID == "",
				"client_secret_empty", dc.ClientSecret == "",
				"bot_token_empty", dc.BotToken == "",
			)
		}
		return nil
	}

	prov, err := discord.NewProvider(discord.ProviderConfig{
		ClientID:     dc.ClientID,
		ClientSecret: dc.ClientSecret,
		RedirectURL:  dc.RedirectURL,
		SessionTTL:   cfg.Auth.SessionTTL,
	})
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create discord provider, auth disabled", "error", err)
		}
		return nil
	}

	gateway, err := discord.NewGateway(dc.BotToken, nil)
	if err != nil {
		if cfg.Logger != nil {
			cfg.Logger.Warn("failed to create discord gateway, auth disabled", "error", err)
		}
		return nil
	}

	resolver := roles.NewResolver(roles.ResolverOptions{
		Gateway: gateway,
		Classifier: roles.Classifier{
			FounderUserID: cfg.Auth.FounderUserID,
			DotGuildID:    cfg.Auth.Guilds.DotGuildID,
			Keywords: roles.KeywordTables{
				Superadmin: cfg.Auth.Keywords.Superadmin,
				Staff:      cfg.Auth.Keywords.Staff,
				Dot:        cfg.Auth.Keywords.Dot,
				Patron:     cfg.Auth.Keywords.Patron,
				CoPatron:   cfg.Auth.Keywords.CoPatron,
				Employee:   cfg.Auth.Keywords.Employee,
			},
		},
		GuildIDs: cfg.Auth.Guilds.IDs(),
		Logger:   cfg.Logger,
	})

	return service.NewAuthService(service.AuthServiceOptions{
		Provider: prov,
		Resolver: resolver,
		Sessions: sessionStore,
	})
}
