package commands

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/disgoorg/rpg-helper/helperbot"
	"github.com/disgoorg/rpg-helper/helperbot/config"
	"github.com/disgoorg/rpg-helper/helperbot/game/timestring"
	"github.com/disgoorg/rpg-helper/helperbot/utils"
)

var TimeSkip = discord.SlashCommandCreate{
	Name:        "time-skip",
	Description: "Move every active reminder closer by a duration",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "duration",
			Description: "How much time was skipped, e.g. 1h 30m",
			Required:    true,
		},
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Whose reminders to shift, defaults to you",
		},
	},
}

func TimeSkipHandler(b *helperbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !b.IsAdmin(e.User().ID) {
			return utils.EH.CreateEphemeralError(e, "This command is restricted to helper admins.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		delta, err := timestring.Parse(data.String("duration"))
		if err != nil || delta <= 0 {
			return utils.EH.CreateErrorEmbed(e, "I could not read that duration. Try something like `1h 30m`.")
		}

		target := e.User().ID
		if id, ok := data.OptSnowflake("user"); ok {
			target = id
		}

		count, err := b.Scheduler.ReduceTimes(ctx, target, delta)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to shift the reminders. Please try again later.")
		}
		return utils.EH.CreateSuccessEmbed(e,
			fmt.Sprintf("Moved **%d** of <@%s>'s reminders closer by **%s**.", count, target, timestring.Format(delta)))
	}
}
