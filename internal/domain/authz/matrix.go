package authz

// Package authz holds the static capability matrix that gates every feature
// area. The matrix is immutable after construction and injected where needed;
// nothing at runtime mutates it.

import (
	"strings"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
)

// Capability is a named boolean permission controlling access to one feature area.
type Capability string

const (
	CapDashboard      Capability = "dashboard"
	CapDotations      Capability = "dotations"
	CapImpots         Capability = "impots"
	CapBlanchiment    Capability = "blanchiment"
	CapArchives       Capability = "archives"
	CapDocuments      Capability = "documents"
	CapComptabilite   Capability = "comptabilite"
	CapSalaires       Capability = "salaires"
	CapQualifications Capability = "qualifications"
	CapConfigStaff    Capability = "config_staff"
	CapCompanyConfig  Capability = "company_config"
	CapSuperadmin     Capability = "superadmin"
	CapHwipAdmin      Capability = "hwip_admin"
)

// AllCapabilities lists every known capability, in display order.
func AllCapabilities() []Capability {
	return []Capability{
		CapDashboard, CapDotations, CapImpots, CapBlanchiment, CapArchives,
		CapDocuments, CapComptabilite, CapSalaires, CapQualifications,
		CapConfigStaff, CapCompanyConfig, CapSuperadmin, CapHwipAdmin,
	}
}

// Grants maps each role to its capability set.
type Grants map[domainauth.Role]map[Capability]bool

// DefaultGrants returns the product capability table.
//
// Note the deliberate non-monotonicity around dot: although dot outranks
// co_patron and patron numerically, it is a specialized fiscal role and
// lacks several management capabilities they hold (dotations, salaires,
// blanchiment, qualifications). Do not "fix" this to be monotonic.
func DefaultGrants() Grants {
	return Grants{
		domainauth.RoleEmployee: {
			CapDashboard:      true,
			CapDocuments:      true,
			CapSalaires:       true,
			CapQualifications: true,
		},
		domainauth.RoleCoPatron: {
			CapDashboard:      true,
			CapDotations:      true,
			CapImpots:         true,
			CapBlanchiment:    true,
			CapArchives:       true,
			CapDocuments:      true,
			CapComptabilite:   true,
			CapSalaires:       true,
			CapQualifications: true,
		},
		domainauth.RolePatron: {
			CapDashboard:      true,
			CapDotations:      true,
			CapImpots:         true,
			CapBlanchiment:    true,
			CapArchives:       true,
			CapDocuments:      true,
			CapComptabilite:   true,
			CapSalaires:       true,
			CapQualifications: true,
			CapCompanyConfig:  true,
		},
		domainauth.RoleDot: {
			CapDashboard:    true,
			CapImpots:       true,
			CapArchives:     true,
			CapDocuments:    true,
			CapComptabilite: true,
		},
		domainauth.RoleStaff: {
			CapDashboard:      true,
			CapDotations:      true,
			CapImpots:         true,
			CapBlanchiment:    true,
			CapArchives:       true,
			CapDocuments:      true,
			CapComptabilite:   true,
			CapSalaires:       true,
			CapQualifications: true,
			CapConfigStaff:    true,
			CapCompanyConfig:  true,
		},
		domainauth.RoleSuperadmin: {
			CapDashboard:      true,
			CapDotations:      true,
			CapImpots:         true,
			CapBlanchiment:    true,
			CapArchives:       true,
			CapDocuments:      true,
			CapComptabilite:   true,
			CapSalaires:       true,
			CapQualifications: true,
			CapConfigStaff:    true,
			CapCompanyConfig:  true,
			CapSuperadmin:     true,
			CapHwipAdmin:      true,
		},
	}
}

// Matrix answers capability and route-access questions for roles.
// Both unknown capabilities and unmapped routes fail closed.
type Matrix struct {
	grants Grants
	routes map[string]Capability
}

// NewMatrix builds a Matrix from a grants table and a route→capability map.
// The inputs are copied; later mutation of the arguments has no effect.
func NewMatrix(grants Grants, routes map[string]Capability) *Matrix {
	g := make(Grants, len(grants))
	for role, caps := range grants {
		cp := make(map[Capability]bool, len(caps))
		for c, ok := range caps {
			cp[c] = ok
		}
		g[role] = cp
	}
	r := make(map[string]Capability, len(routes))
	for path, c := range routes {
		r[normalizeRoute(path)] = c
	}
	return &Matrix{grants: g, routes: r}
}

// NewDefaultMatrix builds a Matrix from the product defaults.
func NewDefaultMatrix() *Matrix {
	return NewMatrix(DefaultGrants(), DefaultRoutes())
}

// HasCapability reports whether the role holds the named capability.
// Unknown roles and unknown capabilities return false.
func (m *Matrix) HasCapability(role domainauth.Role, capability Capability) bool {
	caps, ok := m.grants[role]
	if !ok {
		return false
	}
	return caps[capability]
}

// CanAccessRoute reports whether the role may access the given route.
// Unmapped routes fail closed, matching capability behavior. (The reference
// system let unmapped routes through; that asymmetry was a latent hole and
// is deliberately not reproduced.)
func (m *Matrix) CanAccessRoute(role domainauth.Role, route string) bool {
	capability, ok := m.routes[normalizeRoute(route)]
	if !ok {
		return false
	}
	return m.HasCapability(role, capability)
}

// Capabilities returns the role's capability set as a name→bool map covering
// every known capability, for API responses consumed by the SPA.
func (m *Matrix) Capabilities(role domainauth.Role) map[Capability]bool {
	out := make(map[Capability]bool, len(AllCapabilities()))
	for _, c := range AllCapabilities() {
		out[c] = m.HasCapability(role, c)
	}
	return out
}

// DefaultRoutes maps each gated route to the single capability protecting it.
func DefaultRoutes() map[string]Capability {
	return map[string]Capability{
		"/dashboard":      CapDashboard,
		"/dotations":      CapDotations,
		"/impots":         CapImpots,
		"/blanchiment":    CapBlanchiment,
		"/archives":       CapArchives,
		"/documents":      CapDocuments,
		"/comptabilite":   CapComptabilite,
		"/salaires":       CapSalaires,
		"/qualifications": CapQualifications,
		"/config-staff":   CapConfigStaff,
		"/config":         CapCompanyConfig,
		"/superadmin":     CapSuperadmin,
		"/hwip":           CapHwipAdmin,
	}
}

func normalizeRoute(route string) string {
	route = strings.TrimSpace(strings.ToLower(route))
	if route != "/" {
		route = strings.TrimSuffix(route, "/")
	}
	return route
}
