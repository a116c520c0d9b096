package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/disgoorg/rpg-helper/helperbot"
	"github.com/disgoorg/rpg-helper/helperbot/utils"
)

var Version = discord.SlashCommandCreate{
	Name:        "version",
	Description: "Show the running helper version",
}

func VersionHandler(b *helperbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return utils.EH.CreateInfoEmbed(e,
			fmt.Sprintf("Version: `%s`\nCommit: `%s`", b.Version, b.Commit))
	}
}
