package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/disgoorg/rpg-helper/helperbot"
	"github.com/disgoorg/rpg-helper/helperbot/config"
	"github.com/disgoorg/rpg-helper/helperbot/game"
	"github.com/disgoorg/rpg-helper/helperbot/game/cooldowns"
	"github.com/disgoorg/rpg-helper/helperbot/utils"
)

var EventReduction = discord.SlashCommandCreate{
	Name:        "event-reduction",
	Description: "Manage event-wide cooldown reductions",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Show the current reductions",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "set",
			Description: "Set one activity's reduction",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "activity",
					Description: "The activity to change",
					Required:    true,
				},
				discord.ApplicationCommandOptionFloat{
					Name:        "percent",
					Description: "Reduction in percent, 0 to 99",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "reset",
			Description: "Clear all reductions",
		},
	},
}

func EventReductionHandler(b *helperbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !b.IsAdmin(e.User().ID) {
			return utils.EH.CreateEphemeralError(e, "This command is restricted to helper admins.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "list":
			var sb strings.Builder
			for _, def := range b.Registry.All() {
				fmt.Fprintf(&sb, "**%s**: %.1f%%\n", def.Activity, def.EventReduction)
			}
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Title:       "Event reductions",
					Description: sb.String(),
					Color:       config.InfoColor,
				}},
			})

		case "set":
			activity, ok := game.Resolve(data.String("activity"))
			if !ok {
				return utils.EH.CreateErrorEmbed(e, "Unknown activity.")
			}
			percent := data.Float("percent")
			if err := b.Registry.SetEventReduction(ctx, activity, percent); err != nil {
				if errors.Is(err, cooldowns.ErrInvalidReduction) {
					return utils.EH.CreateErrorEmbed(e, "The reduction must be between 0 and 99 percent.")
				}
				return utils.EH.CreateErrorEmbed(e, "Failed to store the reduction. Please try again later.")
			}
			return utils.EH.CreateSuccessEmbed(e,
				fmt.Sprintf("Event reduction for **%s** set to **%.1f%%**.", activity, percent))

		case "reset":
			if err := b.Registry.ResetEventReductions(ctx); err != nil {
				return utils.EH.CreateErrorEmbed(e, "Failed to reset the reductions. Please try again later.")
			}
			return utils.EH.CreateSuccessEmbed(e, "All event reductions cleared.")
		}
		return utils.EH.CreateErrorEmbed(e, "Unknown subcommand.")
	}
}
