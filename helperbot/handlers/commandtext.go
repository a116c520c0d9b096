package handlers

import (
	"strings"

	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/game"
	"github.com/disgoorg/rpg-helper/helperbot/game/classify"
)

// RenderCommand builds the command text echoed in reminders. The structured
// form is used when the observed message answered an interaction or the
// user opted into slash mode; the variant suffix prefers the user's stored
// last-used mode, falling back to the mode read off the message.
func RenderCommand(ev classify.Event, user *models.User, prefix string) string {
	base := baseCommand(ev, user)
	if ev.Slash || user.SlashMode {
		return "</" + base + ">"
	}
	return "`" + prefix + base + "`"
}

func baseCommand(ev classify.Event, user *models.User) string {
	switch ev.Activity {
	case game.ActivityHunt:
		return joined("hunt", pickMode(user.LastHuntMode, ev.Mode))
	case game.ActivityAdventure:
		return joined("adventure", pickMode(user.LastAdventureMode, ev.Mode))
	case game.ActivityTraining:
		if user.LastTrainingCommand != "" {
			return user.LastTrainingCommand
		}
		return "training"
	case game.ActivityQuest:
		if user.LastQuestCommand != "" {
			return user.LastQuestCommand
		}
		return "quest"
	case game.ActivityWork:
		if user.LastWorkCommand != "" {
			return user.LastWorkCommand
		}
		return "work"
	case game.ActivityFarm:
		return joined("farm", user.LastFarmSeed)
	case game.ActivityLootbox:
		if user.LastLootbox != "" {
			return "buy " + user.LastLootbox + " lootbox"
		}
		return "buy lootbox"
	case game.ActivityDungeonMiniboss:
		return "dungeon"
	case game.ActivityHorse:
		return "horse breeding"
	case game.ActivityMegarace:
		return "hf megarace"
	case game.ActivityMinirace:
		return "hf minirace"
	default:
		return string(ev.Activity)
	}
}

func pickMode(stored, observed string) string {
	if stored != "" {
		return stored
	}
	return observed
}

func joined(base, mode string) string {
	if mode == "" {
		return base
	}
	return strings.TrimSpace(base + " " + mode)
}

// RenderAlertMessage fills the {command} placeholder of a user's alert
// template.
func RenderAlertMessage(template string, command string) string {
	return strings.ReplaceAll(template, "{command}", command)
}
