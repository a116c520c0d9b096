package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/disgoorg/rpg-helper/helperbot"
	"github.com/disgoorg/rpg-helper/helperbot/config"
	"github.com/disgoorg/rpg-helper/helperbot/game"
	"github.com/disgoorg/rpg-helper/helperbot/game/cooldowns"
	"github.com/disgoorg/rpg-helper/helperbot/game/timestring"
	"github.com/disgoorg/rpg-helper/helperbot/utils"
)

var CooldownSetup = discord.SlashCommandCreate{
	Name:        "cooldown-setup",
	Description: "Inspect and change base cooldowns",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "list",
			Description: "Show all base cooldowns",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "set",
			Description: "Set one activity's base cooldown",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "activity",
					Description: "The activity to change",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "seconds",
					Description: "The new base cooldown in seconds",
					Required:    true,
				},
			},
		},
	},
}

func CooldownSetupHandler(b *helperbot.Bot) handler.CommandHandler {
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
				fmt.Fprintf(&sb, "**%s**: %s\n", def.Activity,
					timestring.Format(time.Duration(def.BaseSeconds)*time.Second))
			}
			return e.CreateMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Title:       "Base cooldowns",
					Description: sb.String(),
					Color:       config.InfoColor,
				}},
			})

		case "set":
			activity, ok := game.Resolve(data.String("activity"))
			if !ok {
				return utils.EH.CreateErrorEmbed(e, "Unknown activity.")
			}
			seconds := int64(data.Int("seconds"))
			if err := b.Registry.SetBase(ctx, activity, seconds); err != nil {
				if errors.Is(err, cooldowns.ErrInvalidBase) {
					return utils.EH.CreateErrorEmbed(e, "The base cooldown must be positive.")
				}
				return utils.EH.CreateErrorEmbed(e, "Failed to store the cooldown. Please try again later.")
			}
			return utils.EH.CreateSuccessEmbed(e,
				fmt.Sprintf("Base cooldown for **%s** set to **%s**.",
					activity, timestring.Format(time.Duration(seconds)*time.Second)))
		}
		return utils.EH.CreateErrorEmbed(e, "Unknown subcommand.")
	}
}
