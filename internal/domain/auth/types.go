package auth

// Package auth contains domain-level types for authentication, role
// resolution, and sessions. It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below, ordered by privilege.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleCoPatron   Role = "co_patron"
	RolePatron     Role = "patron"
	RoleDot        Role = "dot"
	RoleStaff      Role = "staff"
	RoleSuperadmin Role = "superadmin"
)

// roleLevels defines the total order over roles. Every comparison between
// two known roles is well-defined; unknown roles rank below employee.
var roleLevels = map[Role]int{
	RoleEmployee:   1,
	RoleCoPatron:   2,
	RolePatron:     3,
	RoleDot:        4,
	RoleStaff:      5,
	RoleSuperadmin: 6,
}

// Level returns the numeric privilege rank of the role, or 0 for unknown roles.
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether r ranks at or above other in the privilege order.
func (r Role) AtLeast(other Role) bool {
	return r.Level() >= other.Level()
}

// ParseRole normalizes a stored role string. Unknown values degrade to
// employee rather than failing, so malformed session payloads never
// escalate and never crash.
func ParseRole(s string) Role {
	r := Role(s)
	if _, ok := roleLevels[r]; ok {
		return r
	}
	return RoleEmployee
}

// Identity represents the authenticated principal returned by Discord.
// Adapters map provider-specific payloads into this shape.
type Identity struct {
	UserID    string // stable Discord user ID (snowflake)
	Username  string
	AvatarURL string
	GuildIDs  []string // guilds the user belongs to, as reported by the provider
	ExpiresAt time.Time
}

// GuildMembership is the raw per-guild role data fetched for one user.
// It is ephemeral: fetched fresh at each login or refresh, never persisted
// beyond the session cache.
type GuildMembership struct {
	GuildID    string
	GuildName  string
	IsOwner    bool
	RawRoleIDs []string
	// RoleCatalog maps role ID to role display name for the guild.
	RoleCatalog map[string]string
}

// GuildAudit records how one guild contributed to a resolved role.
// Retained for display and debugging only, never for authorization decisions.
type GuildAudit struct {
	GuildID      string   `json:"guild_id"`
	GuildName    string   `json:"guild_name,omitempty"`
	AssignedRole Role     `json:"assigned_role"`
	RawRoleIDs   []string `json:"raw_role_ids,omitempty"`
}

// ResolvedIdentity is the outcome of multi-guild role resolution.
// It must always be reproducible by re-running resolution over current
// guild data; caching it in a session is a performance optimization, not
// a source of truth.
type ResolvedIdentity struct {
	UserID    string       `json:"user_id"`
	Username  string       `json:"username"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	Role      Role         `json:"role"`
	RoleLevel int          `json:"role_level"`
	Audit     []GuildAudit `json:"audit,omitempty"`
}

// Session is the server-side record we persist for an authenticated user.
// ID is an opaque session identifier (e.g., random URL-safe string).
type Session struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Username  string       `json:"username"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	Role      Role         `json:"role"`
	RoleLevel int          `json:"role_level"`
	Audit     []GuildAudit `json:"audit,omitempty"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Resolved returns the session's identity portion.
func (s Session) Resolved() ResolvedIdentity {
	return ResolvedIdentity{
		UserID:    s.UserID,
		Username:  s.Username,
		AvatarURL: s.AvatarURL,
		Role:      s.Role,
		RoleLevel: s.RoleLevel,
		Audit:     s.Audit,
	}
}
