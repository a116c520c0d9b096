// Package identity resolves which guild member a game-bot message is
// about. The game never tags the acting user directly, so the resolver
// works through a fixed ladder of strategies, strongest signal first.
package identity

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sahilm/fuzzy"

	"github.com/disgoorg/rpg-helper/helperbot/game/classify"
)

// ErrIdentityNotFound reports that no strategy produced a confident match.
var ErrIdentityNotFound = errors.New("identity: no matching member")

var iconUserPattern = regexp.MustCompile(`avatars/(\d+)/`)

// Member is one candidate guild member.
type Member struct {
	ID          snowflake.ID
	Username    string
	DisplayName string
}

// MemberSource supplies candidate members for a guild. Implementations
// read the gateway cache, so lookups are cheap and may be called per
// message.
type MemberSource interface {
	Members(ctx context.Context, guildID snowflake.ID) ([]Member, error)
}

// Resolver maps classified events back to the member who triggered them.
type Resolver struct {
	members MemberSource
}

func NewResolver(members MemberSource) *Resolver {
	return &Resolver{members: members}
}

// Resolve returns the acting member's ID for a classified event, trying in
// order: the interaction invoker, the user ID embedded in the author icon
// URL, a display-name match against guild members, and finally a single
// explicit mention when the shape allows it.
func (r *Resolver) Resolve(ctx context.Context, msg *classify.Message, ev classify.Event) (snowflake.ID, error) {
	if msg.InteractionUserID != 0 {
		return msg.InteractionUserID, nil
	}

	if id, ok := fromIconURL(msg.IconURL()); ok {
		return id, nil
	}

	if name := extractName(ev); name != "" {
		if id, ok := r.byName(ctx, msg.GuildID, name); ok {
			return id, nil
		}
	}

	if ev.MentionSafe && len(msg.Mentions) == 1 {
		return msg.Mentions[0], nil
	}

	return 0, ErrIdentityNotFound
}

func fromIconURL(url string) (snowflake.ID, bool) {
	m := iconUserPattern.FindStringSubmatch(url)
	if m == nil {
		return 0, false
	}
	id, err := snowflake.Parse(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

func extractName(ev classify.Event) string {
	if ev.NameText == "" {
		return ""
	}
	for _, p := range ev.NamePatterns {
		if m := p.FindStringSubmatch(ev.NameText); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// byName matches an extracted display name against the guild roster. Exact
// case-insensitive matches on display name or username win outright; when
// none exists, a fuzzy pass breaks ties only if it yields a single
// confident candidate.
func (r *Resolver) byName(ctx context.Context, guildID snowflake.ID, name string) (snowflake.ID, bool) {
	members, err := r.members.Members(ctx, guildID)
	if err != nil || len(members) == 0 {
		return 0, false
	}

	want := Normalize(name)
	for _, m := range members {
		if Normalize(m.DisplayName) == want || Normalize(m.Username) == want {
			return m.ID, true
		}
	}

	names := make([]string, len(members))
	for i, m := range members {
		names[i] = Normalize(m.DisplayName)
	}
	matches := fuzzy.Find(want, names)
	if len(matches) == 0 {
		return 0, false
	}
	if len(matches) > 1 && matches[0].Score == matches[1].Score {
		return 0, false
	}
	return members[matches[0].Index].ID, true
}

// Normalize lowercases a display name and strips the decoration characters
// players pad their names with, keeping letters, digits and spaces.
func Normalize(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}
