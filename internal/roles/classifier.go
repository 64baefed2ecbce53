package roles

// Package roles implements the role-resolution core: classifying one guild's
// role names into an internal role, and reducing the per-guild results into a
// single resolved identity.

import (
	"strings"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
)

// KeywordTables holds the role-name keyword groups, one per internal role,
// matched in descending privilege order. Matching is case-insensitive
// substring matching over guild role display names.
type KeywordTables struct {
	Superadmin []string
	Staff      []string
	Dot        []string
	Patron     []string
	CoPatron   []string
	Employee   []string
}

// keywordGroup pairs a keyword list with the role it grants.
type keywordGroup struct {
	role     domainauth.Role
	keywords []string
}

// groups returns the keyword groups in strict priority order. The first
// matching group short-circuits, so ties within a guild are impossible.
func (t KeywordTables) groups() []keywordGroup {
	return []keywordGroup{
		{domainauth.RoleSuperadmin, t.Superadmin},
		{domainauth.RoleStaff, t.Staff},
		{domainauth.RoleDot, t.Dot},
		{domainauth.RolePatron, t.Patron},
		{domainauth.RoleCoPatron, t.CoPatron},
		{domainauth.RoleEmployee, t.Employee},
	}
}

// Classifier determines the internal role a user holds in a single guild.
type Classifier struct {
	// FounderUserID bypasses all other checks and grants superadmin.
	FounderUserID string
	// DotGuildID controls the ownership fallback: owning the DOT guild
	// grants dot, owning any other configured guild grants patron.
	DotGuildID string
	// Keywords are the role-name keyword tables.
	Keywords KeywordTables
}

// Classify maps one guild's raw role data to an internal role.
//
// Priority order, first match wins:
//  1. founder bypass
//  2. keyword groups, highest privilege first
//  3. guild ownership fallback
//  4. employee default
//
// Role IDs missing from the catalog resolve to the empty string and match
// no keyword group.
func (c Classifier) Classify(
	userID string,
	rawRoleIDs []string,
	catalog map[string]string,
	isOwner bool,
	guildID string,
) domainauth.Role {
	if c.FounderUserID != "" && userID == c.FounderUserID {
		return domainauth.RoleSuperadmin
	}

	names := make([]string, 0, len(rawRoleIDs))
	for _, id := range rawRoleIDs {
		names = append(names, strings.ToLower(catalog[id]))
	}

	for _, g := range c.Keywords.groups() {
		if matchesAny(names, g.keywords) {
			return g.role
		}
	}

	if isOwner {
		if guildID == c.DotGuildID {
			return domainauth.RoleDot
		}
		return domainauth.RolePatron
	}

	return domainauth.RoleEmployee
}

// matchesAny reports whether any role name contains any keyword.
func matchesAny(names, keywords []string) bool {
	for _, name := range names {
		if name == "" {
			continue
		}
		for _, kw := range keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(name, strings.ToLower(kw)) {
				return true
			}
		}
	}
	return false
}
