package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeDiscord uses the Discord OAuth2 flow for authentication.
	AuthModeDiscord AuthMode = "discord"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "discord", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: discord, mock)", v)
	}
}

// DiscordConfig contains Discord OAuth2 and bot configuration.
type DiscordConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL" envDefault:"http://localhost:8080/auth/callback"`
	// BotToken is the privileged credential used for guild member and role lookups.
	BotToken string `env:"BOT_TOKEN"`
}

// GuildConfig identifies the guilds that participate in role resolution.
// Guilds outside this set are ignored entirely, even if the user belongs to them.
type GuildConfig struct {
	// MainGuildID is the primary enterprise guild.
	MainGuildID string `env:"MAIN_GUILD_ID"`
	// DotGuildID is the fiscal (DOT) guild. Ownership of this guild maps to
	// the dot role instead of patron.
	DotGuildID string `env:"DOT_GUILD_ID"`
}

// IDs returns the configured guild IDs in resolution order, skipping empties.
func (g GuildConfig) IDs() []string {
	ids := make([]string, 0, 2)
	if g.MainGuildID != "" {
		ids = append(ids, g.MainGuildID)
	}
	if g.DotGuildID != "" {
		ids = append(ids, g.DotGuildID)
	}
	return ids
}

// RoleKeywordsConfig holds the role-name keyword tables used by the
// classifier. Each list is matched case-insensitively as a substring against
// guild role names, in descending privilege order. Defaults mirror the
// conventions of the reference community servers; deployments can remap
// without code changes.
type RoleKeywordsConfig struct {
	Superadmin []string `env:"SUPERADMIN" envSeparator:";" envDefault:"superadmin"`
	Staff      []string `env:"STAFF"      envSeparator:";" envDefault:"staff;admin;superviseur;supervisor"`
	Dot        []string `env:"DOT"        envSeparator:";" envDefault:"dot;direction;fiscal"`
	Patron     []string `env:"PATRON"     envSeparator:";" envDefault:"patron;owner;ceo;pdg"`
	CoPatron   []string `env:"CO_PATRON"  envSeparator:";" envDefault:"co-patron;co patron;vice;adjoint"`
	Employee   []string `env:"EMPLOYEE"   envSeparator:";" envDefault:"employe;employee;membre;member"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID   string `env:"USER_ID"  envDefault:"dev-user"`
	Username string `env:"USERNAME" envDefault:"dev"`
	Role     string `env:"ROLE"     envDefault:"patron"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"discord"`

	// Discord configuration (used when Mode=discord).
	Discord DiscordConfig `envPrefix:"DISCORD_"`

	// Guilds participating in role resolution.
	Guilds GuildConfig `envPrefix:"DISCORD_"`

	// Keywords are the role-name keyword tables for the classifier.
	Keywords RoleKeywordsConfig `envPrefix:"ROLE_KEYWORDS_"`

	// FounderUserID receives an unconditional superadmin grant, bypassing
	// all guild lookups. Documented special case; empty disables the bypass.
	FounderUserID string `env:"FOUNDER_USER_ID"`

	// SessionTTL is the lifetime of a login session.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize applies guardrails to auth configuration values.
func (c *AuthConfig) Sanitize() {
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
	c.FounderUserID = strings.TrimSpace(c.FounderUserID)
}
