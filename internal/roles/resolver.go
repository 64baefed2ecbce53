package roles

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
	"github.com/flashbackfa/entreprise-api/internal/ports"
)

// ResolverOptions groups dependencies for Resolver.
type ResolverOptions struct {
	Gateway    ports.GuildGateway
	Classifier Classifier
	// GuildIDs is the statically configured guild set, in resolution order.
	// Guilds outside this set never influence the resolved role.
	GuildIDs []string
	// GuildNames optionally maps guild IDs to display names for the audit trail.
	GuildNames map[string]string
	Logger     *slog.Logger
}

// Resolver iterates the configured guilds for a user and reduces the
// per-guild classifications to one global role, keeping a per-guild audit
// trail. It implements ports.RoleResolver.
type Resolver struct {
	gateway    ports.GuildGateway
	classifier Classifier
	guildIDs   []string
	guildNames map[string]string
	logger     *slog.Logger
}

// NewResolver constructs a Resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		gateway:    opts.Gateway,
		classifier: opts.Classifier,
		guildIDs:   opts.GuildIDs,
		guildNames: opts.GuildNames,
		logger:     logger,
	}
}

// Resolve computes the user's resolved identity across the configured guilds.
//
// The founder short-circuits to superadmin with an empty audit trail and no
// network calls: founder access must never depend on guild-fetch success.
// A fetch failure for one guild degrades that guild's contribution to an
// empty, non-owner membership and never aborts resolution for the others.
// The final role is the maximum across per-guild results; on a tie the
// first-encountered guild keeps the winning audit slot, which is immaterial
// to behavior since the level is identical.
func (r *Resolver) Resolve(ctx context.Context, identity domainauth.Identity) domainauth.ResolvedIdentity {
	resolved := domainauth.ResolvedIdentity{
		UserID:    identity.UserID,
		Username:  identity.Username,
		AvatarURL: identity.AvatarURL,
		Role:      domainauth.RoleEmployee,
	}

	if f := r.classifier.FounderUserID; f != "" && identity.UserID == f {
		resolved.Role = domainauth.RoleSuperadmin
		resolved.RoleLevel = resolved.Role.Level()
		return resolved
	}

	memberships := r.fetchMemberships(ctx, identity)

	audit := make([]domainauth.GuildAudit, 0, len(memberships))
	for _, m := range memberships {
		role := r.classifier.Classify(identity.UserID, m.RawRoleIDs, m.RoleCatalog, m.IsOwner, m.GuildID)
		name := m.GuildName
		if name == "" {
			name = r.guildNames[m.GuildID]
		}
		audit = append(audit, domainauth.GuildAudit{
			GuildID:      m.GuildID,
			GuildName:    name,
			AssignedRole: role,
			RawRoleIDs:   m.RawRoleIDs,
		})
		// Strict > keeps the first guild in the winning slot on ties.
		if role.Level() > resolved.Role.Level() {
			resolved.Role = role
		}
	}

	resolved.RoleLevel = resolved.Role.Level()
	resolved.Audit = audit
	return resolved
}

// fetchMemberships retrieves per-guild membership data concurrently,
// preserving the configured guild order in the result.
func (r *Resolver) fetchMemberships(ctx context.Context, identity domainauth.Identity) []domainauth.GuildMembership {
	results := make([]domainauth.GuildMembership, len(r.guildIDs))

	var g errgroup.Group
	for i, guildID := range r.guildIDs {
		results[i] = domainauth.GuildMembership{GuildID: guildID}

		// The provider's guild list, when present, lets us skip guilds the
		// user does not belong to without a privileged lookup.
		if len(identity.GuildIDs) > 0 && !contains(identity.GuildIDs, guildID) {
			continue
		}

		g.Go(func() error {
			m, err := r.gateway.Membership(ctx, guildID, identity.UserID)
			if err != nil {
				r.logger.WarnContext(ctx, "guild membership fetch failed, treating as empty",
					"guild_id", guildID,
					"user_id", identity.UserID,
					"error", err,
				)
				return nil
			}
			results[i] = m
			return nil
		})
	}
	// Workers only ever return nil; degradation is handled per guild.
	_ = g.Wait()

	return results
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
