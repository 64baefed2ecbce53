package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	domainauth "github.com/flashbackfa/entreprise-api/internal/domain/auth"
)

// Gateway implements ports.GuildGateway using the privileged bot credential.
// It fetches a member's role IDs, the guild's role catalog, and the ownership
// flag for one guild.
type Gateway struct {
	session *discordgo.Session
}

// NewGateway creates a Gateway from a bot token.
func NewGateway(botToken string, httpClient *http.Client) (*Gateway, error) {
	if botToken == "" {
		return nil, errors.New("bot token is required")
	}

	sess, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("create bot session: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	sess.Client = httpClient

	return &Gateway{session: sess}, nil
}

// Membership fetches the user's membership data in one guild. The three
// underlying calls share the request context; any failure is returned to the
// caller, which degrades the guild's contribution rather than aborting the
// whole resolution.
func (g *Gateway) Membership(ctx context.Context, guildID, userID string) (domainauth.GuildMembership, error) {
	if guildID == "" || userID == "" {
		return domainauth.GuildMembership{}, errors.New("guild ID and user ID are required")
	}

	member, err := g.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return domainauth.GuildMembership{}, fmt.Errorf("fetch member %s in guild %s: %w", userID, guildID, err)
	}

	guildRoles, err := g.session.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return domainauth.GuildMembership{}, fmt.Errorf("fetch roles for guild %s: %w", guildID, err)
	}
	catalog := make(map[string]string, len(guildRoles))
	for _, r := range guildRoles {
		catalog[r.ID] = r.Name
	}

	guild, err := g.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return domainauth.GuildMembership{}, fmt.Errorf("fetch guild %s: %w", guildID, err)
	}

	return domainauth.GuildMembership{
		GuildID:     guildID,
		GuildName:   guild.Name,
		IsOwner:     guild.OwnerID == userID,
		RawRoleIDs:  member.Roles,
		RoleCatalog: catalog,
	}, nil
}
