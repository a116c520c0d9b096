package classify

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/require"

	"github.com/disgoorg/rpg-helper/helperbot/game"
)

func testMessage(embed *Embed, content string) *Message {
	return &Message{
		ID:        snowflake.ID(1001),
		AuthorID:  snowflake.ID(42),
		ChannelID: snowflake.ID(7),
		CreatedAt: time.Now(),
		Content:   content,
		Embed:     embed,
	}
}

func TestClassifyCooldownList(t *testing.T) {
	embed := &Embed{
		AuthorName: "Epic Player — cooldowns",
		FooterText: "Check the short version of this command",
		Fields: []Field{
			{Name: "Rewards", Value: "**`Daily`** (**3h 25m 1s**)\n**`Weekly`**\n**`Lootbox`** (**1h 2m 17s**)"},
			{Name: "Experience", Value: "**`Hunt hardmode`** (**32s**)\n**`Adventure`**\n**`Training`** (**4m 8s**)"},
			{Name: "Progress", Value: "**`Quest`** (**2h 12m**)\n**`Epic quest`**\n**`Mine`** (**1m 3s**)"},
		},
	}
	events := Classify(testMessage(embed, ""))
	require.NotNil(t, events)

	byActivity := make(map[game.Activity]Event, len(events))
	for _, ev := range events {
		byActivity[ev.Activity] = ev
	}

	daily := byActivity[game.ActivityDaily]
	require.Equal(t, KindCooldown, daily.Kind)
	require.Equal(t, "3h 25m 1s", daily.DurationText)
	require.Equal(t, SourceDuration, daily.Source)

	hunt := byActivity[game.ActivityHunt]
	require.Equal(t, KindCooldown, hunt.Kind)
	require.Equal(t, "32s", hunt.DurationText)
	require.Equal(t, "hardmode", hunt.Mode)
	require.True(t, hunt.KeepExisting)
	require.Empty(t, daily.Mode)

	work := byActivity[game.ActivityWork]
	require.Equal(t, KindCooldown, work.Kind)
	require.Equal(t, "1m 3s", work.DurationText)

	weekly := byActivity[game.ActivityWeekly]
	require.Equal(t, KindReady, weekly.Kind)

	adventure := byActivity[game.ActivityAdventure]
	require.Equal(t, KindReady, adventure.Kind)
}

func TestClassifyReadyList(t *testing.T) {
	embed := &Embed{
		AuthorName: "Epic Player — ready",
		FooterText: "Check the long version of this command",
		Fields: []Field{
			{Name: "Ready", Value: "**`Daily`**\n**`Hunt`**\n**`Arena`**"},
		},
	}
	events := Classify(testMessage(embed, ""))
	require.Len(t, events, 3)
	for _, ev := range events {
		require.Equal(t, KindReady, ev.Kind)
	}
}

func TestClassifyDailyClaimed(t *testing.T) {
	embed := &Embed{
		AuthorName: "Epic Player's daily reward",
		Title:      "You have claimed your daily rewards already, wait at least **18h 3m 45s** more",
	}
	events := Classify(testMessage(embed, ""))
	require.Len(t, events, 1)
	ev := events[0]
	require.Equal(t, KindCooldown, ev.Kind)
	require.Equal(t, game.ActivityDaily, ev.Activity)
	require.Equal(t, SourceDuration, ev.Source)
	require.Equal(t, "18h 3m 45s", ev.DurationText)
}

func TestClassifyDailyClaimedSpanish(t *testing.T) {
	embed := &Embed{
		Title: "Ya reclamaste tu recompensa diaria, espera al menos **22h 10m** más",
	}
	events := Classify(testMessage(embed, ""))
	require.Len(t, events, 1)
	require.Equal(t, "22h 10m", events[0].DurationText)
}

func TestClassifyDailySuccess(t *testing.T) {
	embed := &Embed{AuthorName: "Epic Player — daily reward"}
	events := Classify(testMessage(embed, ""))
	require.Len(t, events, 1)
	ev := events[0]
	require.Equal(t, KindCooldown, ev.Kind)
	require.Equal(t, game.ActivityDaily, ev.Activity)
	require.Equal(t, SourceRegistry, ev.Source)
	require.Empty(t, ev.DurationText)
}

func TestClassifyMegaraceBoost(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		direction int
		duration  string
	}{
		{
			name:      "increase",
			value:     "__Stage time increased__: **5m**",
			direction: 1,
			duration:  "5m",
		},
		{
			name:      "reduction",
			value:     "__Stage time reduced__: **2m 30s**",
			direction: -1,
			duration:  "2m 30s",
		},
		{
			name:      "unknown sub-kind",
			value:     "something unexpected happened",
			direction: 0,
			duration:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := &Embed{
				Fields: []Field{{Name: "Epic Player passes through the boost!", Value: tt.value}},
			}
			events := Classify(testMessage(embed, ""))
			require.Len(t, events, 1)
			ev := events[0]
			require.Equal(t, KindBoost, ev.Kind)
			require.Equal(t, game.ActivityMegarace, ev.Activity)
			require.Equal(t, tt.direction, ev.Direction)
			require.Equal(t, tt.duration, ev.DurationText)
		})
	}
}

func TestClassifyMegaraceStage(t *testing.T) {
	content := "**Epic Player**, you have not reached the end of this stage, you will be there in **23m 12s**"
	events := Classify(testMessage(nil, content))
	require.Len(t, events, 1)
	ev := events[0]
	require.Equal(t, KindCooldown, ev.Kind)
	require.Equal(t, game.ActivityMegarace, ev.Activity)
	require.Equal(t, "23m 12s", ev.DurationText)
	require.True(t, ev.MentionSafe)
}

func TestClassifyMegaraceStart(t *testing.T) {
	embed := &Embed{
		AuthorName: "Epic Player — megarace",
		Fields: []Field{
			{Name: "Stage 1", Value: "good luck"},
			{Name: "Total time", Value: "you will reach the end in **29m 45s** if nothing happens"},
		},
	}
	events := Classify(testMessage(embed, ""))
	require.Len(t, events, 1)
	require.Equal(t, "29m 45s", events[0].DurationText)
}

func TestClassifyMegaraceOverview(t *testing.T) {
	embed := &Embed{
		Description: "You can join megarace every week!",
		Fields: []Field{
			{Name: "Current race", Value: "**Time remaining**: 1d 3h 5m\nstage 2 of 3"},
		},
	}
	events := Classify(testMessage(embed, ""))
	require.Len(t, events, 1)
	ev := events[0]
	require.Equal(t, KindCooldown, ev.Kind)
	require.Equal(t, "1d 3h 5m", ev.DurationText)

	done := &Embed{
		Description: "You can join megarace every week!",
		Fields:      []Field{{Name: "Current race", Value: "**MEGARACE COMPLETED**"}},
	}
	events = Classify(testMessage(done, ""))
	require.Len(t, events, 1)
	require.Equal(t, KindReady, events[0].Kind)
}

func TestClassifyMinirace(t *testing.T) {
	events := Classify(testMessage(nil, "**Epic Player**, you are now in the list of pending players for a tournament!"))
	require.Len(t, events, 1)
	ev := events[0]
	require.Equal(t, KindCooldown, ev.Kind)
	require.Equal(t, game.ActivityMinirace, ev.Activity)
	require.Equal(t, SourceClock, ev.Source)
}

func TestClassifyPetApproach(t *testing.T) {
	embed := &Embed{
		Description: "A wild pet is approaching **Epic Player**!\nHappiness: 12\nHunger: 64",
		Fields:      []Field{{Name: "A wild pet is approaching", Value: "catch it!"}},
	}
	msg := testMessage(embed, "")
	events := Classify(msg)
	require.Len(t, events, 1)
	require.Equal(t, KindPetCare, events[0].Kind)

	happiness, hunger, ok := PetStats(msg)
	require.True(t, ok)
	require.Equal(t, 12, happiness)
	require.Equal(t, 64, hunger)
}

func TestClassifyHelpers(t *testing.T) {
	tests := []struct {
		name    string
		embed   *Embed
		content string
		topic   HelperTopic
	}{
		{
			name:  "pet fusion",
			embed: &Embed{Description: "fusing...\nYou have got a new pet!"},
			topic: HelperPetFusion,
		},
		{
			name:    "pet caught",
			content: "**Dragon** is now following **Epic Player**!",
			topic:   HelperPetCaught,
		},
		{
			name:  "pet claim",
			embed: &Embed{Title: "Pet adventure rewards"},
			topic: HelperPetClaim,
		},
		{
			name:    "pet adventure",
			content: "**Epic Player**, your pet has started an adventure and will be back in 2 days!",
			topic:   HelperPetAdventure,
		},
		{
			name:    "pet adventure instant",
			content: "the following pets are back instantly: a, b",
			topic:   HelperPetAdventureInstant,
		},
		{
			name:    "quest accepted",
			content: "**Epic Player** got a **NEW QUEST**!",
			topic:   HelperQuestBundle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := Classify(testMessage(tt.embed, tt.content))
			require.Len(t, events, 1)
			require.Equal(t, KindHelper, events[0].Kind)
			require.Equal(t, tt.topic, events[0].Helper)
		})
	}
}

func TestClassifyMarksInteractionResponses(t *testing.T) {
	embed := &Embed{AuthorName: "Epic Player — daily reward"}

	msg := testMessage(embed, "")
	events := Classify(msg)
	require.Len(t, events, 1)
	require.False(t, events[0].Slash)

	msg = testMessage(embed, "")
	msg.InteractionUserID = snowflake.ID(42)
	events = Classify(msg)
	require.Len(t, events, 1)
	require.True(t, events[0].Slash)
}

func TestClassifyIgnoresUnrelatedMessages(t *testing.T) {
	require.Nil(t, Classify(testMessage(nil, "just chatting")))
	require.Nil(t, Classify(testMessage(&Embed{Title: "Shop", Description: "buy things"}, "")))
}

func TestQuestCategory(t *testing.T) {
	category, ok := QuestCategory("your gambling quest: win 10 times")
	require.True(t, ok)
	require.Equal(t, "gambling", category)

	_, ok = QuestCategory("defeat the dragon")
	require.False(t, ok)
}
