package handlers

import (
	"context"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/rpg-helper/helperbot/game/identity"
)

// CachedMemberSource serves identity lookups from the gateway member
// cache.
type CachedMemberSource struct {
	client bot.Client
}

func NewCachedMemberSource(client bot.Client) *CachedMemberSource {
	return &CachedMemberSource{client: client}
}

func (s *CachedMemberSource) Members(_ context.Context, guildID snowflake.ID) ([]identity.Member, error) {
	var members []identity.Member
	s.client.Caches().MembersForEach(guildID, func(member discord.Member) {
		members = append(members, identity.Member{
			ID:          member.User.ID,
			Username:    member.User.Username,
			DisplayName: member.EffectiveName(),
		})
	})
	return members, nil
}
