package commands

import "github.com/disgoorg/disgo/discord"

// Commands is the full slash command set synced on startup.
var Commands = []discord.ApplicationCommandCreate{
	Version,
	Start,
	Stop,
	Settings,
	Reminders,
	EventReduction,
	CooldownSetup,
	TimeSkip,
}
