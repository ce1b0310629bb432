package discord

import (
	"context"
	"fmt"

	"gatebot/internal/core"

	"github.com/bwmarrin/discordgo"
)

// roleResolver maps Discord guild membership onto group roles: the guild
// owner is the chat owner, members holding a role with the Administrator
// permission are chat admins, everyone else is a member.
type roleResolver struct {
	dg *discordgo.Session
}

func (r *roleResolver) GroupRole(ctx context.Context, chat core.JID, user core.JID) (core.GroupRole, error) {
	channel, err := r.channel(string(chat))
	if err != nil {
		return core.RoleMember, fmt.Errorf("resolve channel %s: %w", chat, err)
	}

	guild, err := r.guild(channel.GuildID)
	if err != nil {
		return core.RoleMember, fmt.Errorf("resolve guild %s: %w", channel.GuildID, err)
	}

	if string(user) == guild.OwnerID {
		return core.RoleOwner, nil
	}

	member, err := r.member(guild.ID, string(user))
	if err != nil {
		return core.RoleMember, fmt.Errorf("resolve member %s: %w", user, err)
	}

	for _, roleID := range member.Roles {
		if role, _ := r.dg.State.Role(guild.ID, roleID); role != nil {
			if role.Permissions&discordgo.PermissionAdministrator != 0 {
				return core.RoleAdmin, nil
			}
		}
	}
	return core.RoleMember, nil
}

// channel, guild, and member prefer the session state cache and fall back
// to the REST API.

func (r *roleResolver) channel(id string) (*discordgo.Channel, error) {
	if ch, err := r.dg.State.Channel(id); err == nil && ch != nil {
		return ch, nil
	}
	return r.dg.Channel(id)
}

func (r *roleResolver) guild(id string) (*discordgo.Guild, error) {
	if g, err := r.dg.State.Guild(id); err == nil && g != nil {
		return g, nil
	}
	return r.dg.Guild(id)
}

func (r *roleResolver) member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := r.dg.State.Member(guildID, userID); err == nil && m != nil {
		return m, nil
	}
	return r.dg.GuildMember(guildID, userID)
}
