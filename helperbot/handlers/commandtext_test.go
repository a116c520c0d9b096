package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/game"
	"github.com/disgoorg/rpg-helper/helperbot/game/classify"
)

func huntEvent() classify.Event {
	return classify.Event{Kind: classify.KindCooldown, Activity: game.ActivityHunt}
}

func TestRenderCommandSlashMode(t *testing.T) {
	user := &models.User{SlashMode: true, LastHuntMode: "hardmode"}
	require.Equal(t, "</hunt hardmode>", RenderCommand(huntEvent(), user, "rpg "))
}

func TestRenderCommandPrefixMode(t *testing.T) {
	user := &models.User{SlashMode: false}
	require.Equal(t, "`rpg hunt`", RenderCommand(huntEvent(), user, "rpg "))
}

func TestRenderCommandSlashFromInteraction(t *testing.T) {
	// A message answering a structured interaction renders the structured
	// form even when the user never opted into slash mode.
	ev := huntEvent()
	ev.Slash = true
	user := &models.User{SlashMode: false}
	require.Equal(t, "</hunt>", RenderCommand(ev, user, "rpg "))
}

func TestRenderCommandModeFromMessage(t *testing.T) {
	ev := huntEvent()
	ev.Mode = "hardmode"
	user := &models.User{SlashMode: false}
	require.Equal(t, "`rpg hunt hardmode`", RenderCommand(ev, user, "rpg "))
}

func TestRenderCommandStoredModeWins(t *testing.T) {
	ev := huntEvent()
	ev.Mode = "hardmode"
	user := &models.User{SlashMode: false, LastHuntMode: "together"}
	require.Equal(t, "`rpg hunt together`", RenderCommand(ev, user, "rpg "))
}

func TestRenderCommandVariants(t *testing.T) {
	user := &models.User{
		SlashMode:           true,
		LastAdventureMode:   "hardmode",
		LastTrainingCommand: "ultraining",
		LastWorkCommand:     "dynamite",
		LastFarmSeed:        "carrot",
		LastLootbox:         "edgy",
	}
	tests := []struct {
		activity game.Activity
		want     string
	}{
		{game.ActivityAdventure, "</adventure hardmode>"},
		{game.ActivityTraining, "</ultraining>"},
		{game.ActivityWork, "</dynamite>"},
		{game.ActivityFarm, "</farm carrot>"},
		{game.ActivityLootbox, "</buy edgy lootbox>"},
		{game.ActivityDaily, "</daily>"},
	}
	for _, tt := range tests {
		ev := classify.Event{Kind: classify.KindCooldown, Activity: tt.activity}
		require.Equal(t, tt.want, RenderCommand(ev, user, "rpg "), string(tt.activity))
	}
}

func TestRenderCommandDefaults(t *testing.T) {
	user := &models.User{SlashMode: true}
	require.Equal(t, "</training>", RenderCommand(classify.Event{Activity: game.ActivityTraining}, user, "rpg "))
	require.Equal(t, "</work>", RenderCommand(classify.Event{Activity: game.ActivityWork}, user, "rpg "))
	require.Equal(t, "</buy lootbox>", RenderCommand(classify.Event{Activity: game.ActivityLootbox}, user, "rpg "))
}

func TestRenderAlertMessage(t *testing.T) {
	got := RenderAlertMessage(models.DefaultAlertMessage, "</hunt>")
	require.Equal(t, "Hey! It's time for </hunt>!", got)
}

func TestNextTournamentReset(t *testing.T) {
	at := time.Date(2024, 5, 3, 17, 42, 11, 0, time.UTC)
	want := time.Date(2024, 5, 4, 0, 6, 0, 0, time.UTC)
	require.Equal(t, want, nextTournamentReset(at))

	// Entries just after midnight still point at the next reset.
	at = time.Date(2024, 5, 3, 0, 1, 0, 0, time.UTC)
	want = time.Date(2024, 5, 4, 0, 6, 0, 0, time.UTC)
	require.Equal(t, want, nextTournamentReset(at))
}
