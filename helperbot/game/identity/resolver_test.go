package identity

import (
	"context"
	"regexp"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/require"

	"github.com/disgoorg/rpg-helper/helperbot/game/classify"
)

type staticMembers []Member

func (s staticMembers) Members(_ context.Context, _ snowflake.ID) ([]Member, error) {
	return s, nil
}

var namePattern = []*regexp.Regexp{regexp.MustCompile(`^\*\*(.+?)\*\*`)}

func testResolver() *Resolver {
	return NewResolver(staticMembers{
		{ID: snowflake.ID(100), Username: "epicplayer", DisplayName: "Epic Player"},
		{ID: snowflake.ID(200), Username: "otherone", DisplayName: "✨Other One✨"},
		{ID: snowflake.ID(300), Username: "third", DisplayName: "Third"},
	})
}

func TestResolveInteractionWinsOverEverything(t *testing.T) {
	r := testResolver()
	msg := &classify.Message{
		InteractionUserID: snowflake.ID(999),
		Embed: &classify.Embed{
			AuthorIconURL: "https://cdn.discordapp.com/avatars/100/abc.png",
		},
	}
	id, err := r.Resolve(context.Background(), msg, classify.Event{})
	require.NoError(t, err)
	require.Equal(t, snowflake.ID(999), id)
}

func TestResolveFromIconURL(t *testing.T) {
	r := testResolver()
	msg := &classify.Message{
		Embed: &classify.Embed{
			AuthorIconURL: "https://cdn.discordapp.com/avatars/200/def.webp?size=64",
		},
	}
	id, err := r.Resolve(context.Background(), msg, classify.Event{})
	require.NoError(t, err)
	require.Equal(t, snowflake.ID(200), id)
}

func TestResolveByDisplayName(t *testing.T) {
	r := testResolver()
	ev := classify.Event{
		NameText:     "**Epic Player**, you have not reached the end of this stage",
		NamePatterns: namePattern,
	}
	id, err := r.Resolve(context.Background(), &classify.Message{}, ev)
	require.NoError(t, err)
	require.Equal(t, snowflake.ID(100), id)
}

func TestResolveNormalizesDecoratedNames(t *testing.T) {
	r := testResolver()
	ev := classify.Event{
		NameText:     "**Other One**, your pet is back",
		NamePatterns: namePattern,
	}
	id, err := r.Resolve(context.Background(), &classify.Message{}, ev)
	require.NoError(t, err)
	require.Equal(t, snowflake.ID(200), id)
}

func TestResolveSingleMentionFallback(t *testing.T) {
	r := testResolver()
	msg := &classify.Message{Mentions: []snowflake.ID{snowflake.ID(300)}}

	id, err := r.Resolve(context.Background(), msg, classify.Event{MentionSafe: true})
	require.NoError(t, err)
	require.Equal(t, snowflake.ID(300), id)

	// Shapes that embed mentions in their own text never use the fallback.
	_, err = r.Resolve(context.Background(), msg, classify.Event{MentionSafe: false})
	require.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestResolveMultipleMentionsNotUsed(t *testing.T) {
	r := testResolver()
	msg := &classify.Message{Mentions: []snowflake.ID{snowflake.ID(100), snowflake.ID(200)}}
	_, err := r.Resolve(context.Background(), msg, classify.Event{MentionSafe: true})
	require.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestResolveNotFound(t *testing.T) {
	r := testResolver()
	ev := classify.Event{
		NameText:     "**Nobody Here**, hello",
		NamePatterns: namePattern,
	}
	_, err := r.Resolve(context.Background(), &classify.Message{}, ev)
	require.ErrorIs(t, err, ErrIdentityNotFound)
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "other one", Normalize("✨Other One✨"))
	require.Equal(t, "epic player", Normalize("  Epic Player "))
	require.Equal(t, "player123", Normalize("⟦Player123⟧"))
}
