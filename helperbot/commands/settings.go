package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"

	"github.com/disgoorg/rpg-helper/helperbot"
	"github.com/disgoorg/rpg-helper/helperbot/config"
	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/database/repositories"
	"github.com/disgoorg/rpg-helper/helperbot/game"
	"github.com/disgoorg/rpg-helper/helperbot/game/cooldowns"
	"github.com/disgoorg/rpg-helper/helperbot/utils"
)

var Settings = discord.SlashCommandCreate{
	Name:        "settings",
	Description: "View and change your helper settings",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "view",
			Description: "Show your current settings",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "toggle",
			Description: "Switch a helper feature on or off",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "feature",
					Description: "The feature to switch",
					Required:    true,
					Choices: []discord.ApplicationCommandOptionChoiceString{
						{Name: "reactions", Value: "reactions"},
						{Name: "dnd-mode", Value: "dnd"},
						{Name: "ping-after-message", Value: "ping"},
						{Name: "context-helper", Value: "context"},
						{Name: "pet-helper", Value: "pet"},
						{Name: "megarace-helper", Value: "megarace"},
						{Name: "slash-commands", Value: "slash"},
					},
				},
				discord.ApplicationCommandOptionBool{
					Name:        "enabled",
					Description: "The new state",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "donor-tier",
			Description: "Set your donor tier (and optionally your partner's)",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "tier",
					Description: "Your donor tier",
					Required:    true,
					MinValue:    json.Ptr(0),
					MaxValue:    json.Ptr(cooldowns.MaxDonorTier),
				},
				discord.ApplicationCommandOptionInt{
					Name:        "partner-tier",
					Description: "Your hunt partner's donor tier",
					Required:    false,
					MinValue:    json.Ptr(0),
					MaxValue:    json.Ptr(cooldowns.MaxDonorTier),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "alert",
			Description: "Change one activity's reminder",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "activity",
					Description: "The activity to change",
					Required:    true,
				},
				discord.ApplicationCommandOptionBool{
					Name:        "enabled",
					Description: "Whether to remind you at all",
					Required:    true,
				},
				discord.ApplicationCommandOptionString{
					Name:        "message",
					Description: "Custom reminder text, {command} is replaced with the command",
					Required:    false,
				},
			},
		},
	},
}

func SettingsHandler(b *helperbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		user, err := b.UserRepository.GetByDiscordID(ctx, e.User().ID.String())
		if errors.Is(err, repositories.ErrFirstTimeUser) {
			return utils.EH.CreateInfoEmbed(e, "You are not registered yet. Use `/on` first.")
		}
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to load your settings. Please try again later.")
		}

		data := e.SlashCommandInteractionData()
		switch *data.SubCommandName {
		case "view":
			return viewSettings(e, user)
		case "toggle":
			return toggleSetting(ctx, b, e, user, data.String("feature"), data.Bool("enabled"))
		case "donor-tier":
			user.DonorTier = data.Int("tier")
			if partner, ok := data.OptInt("partner-tier"); ok {
				user.PartnerDonorTier = partner
			}
			if err = b.UserRepository.Update(ctx, user); err != nil {
				return utils.EH.CreateErrorEmbed(e, "Failed to save your settings. Please try again later.")
			}
			return utils.EH.CreateSuccessEmbed(e,
				fmt.Sprintf("Donor tier set to **%d** (partner: **%d**).", user.DonorTier, user.PartnerDonorTier))
		case "alert":
			return updateAlert(ctx, b, e, user, data)
		}
		return utils.EH.CreateErrorEmbed(e, "Unknown settings subcommand.")
	}
}

func viewSettings(e *handler.CommandEvent, user *models.User) error {
	onOff := func(v bool) string {
		if v {
			return "on"
		}
		return "off"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Helper**: %s\n", onOff(user.BotEnabled))
	fmt.Fprintf(&sb, "**Reactions**: %s\n", onOff(user.ReactionsEnabled))
	fmt.Fprintf(&sb, "**DND mode**: %s\n", onOff(user.DNDMode))
	fmt.Fprintf(&sb, "**Ping after message**: %s\n", onOff(user.PingAfterMessage))
	fmt.Fprintf(&sb, "**Context helper**: %s\n", onOff(user.ContextHelperEnabled))
	fmt.Fprintf(&sb, "**Pet helper**: %s\n", onOff(user.PetHelperEnabled))
	fmt.Fprintf(&sb, "**Megarace helper**: %s\n", onOff(user.MegaraceHelperEnabled))
	fmt.Fprintf(&sb, "**Slash commands**: %s\n", onOff(user.SlashMode))
	fmt.Fprintf(&sb, "**Donor tier**: %d (partner: %d)\n", user.DonorTier, user.PartnerDonorTier)

	var disabled []string
	for _, activity := range game.All {
		if !user.Alert(activity).Enabled {
			disabled = append(disabled, string(activity))
		}
	}
	if len(disabled) > 0 {
		fmt.Fprintf(&sb, "**Disabled reminders**: %s\n", strings.Join(disabled, ", "))
	}

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "Your settings",
			Description: sb.String(),
			Color:       config.InfoColor,
		}},
	})
}

func toggleSetting(ctx context.Context, b *helperbot.Bot, e *handler.CommandEvent, user *models.User, feature string, enabled bool) error {
	switch feature {
	case "reactions":
		user.ReactionsEnabled = enabled
	case "dnd":
		user.DNDMode = enabled
	case "ping":
		user.PingAfterMessage = enabled
	case "context":
		user.ContextHelperEnabled = enabled
	case "pet":
		user.PetHelperEnabled = enabled
	case "megarace":
		user.MegaraceHelperEnabled = enabled
	case "slash":
		user.SlashMode = enabled
	default:
		return utils.EH.CreateErrorEmbed(e, "Unknown feature.")
	}
	if err := b.UserRepository.Update(ctx, user); err != nil {
		return utils.EH.CreateErrorEmbed(e, "Failed to save your settings. Please try again later.")
	}
	state := "off"
	if enabled {
		state = "on"
	}
	return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Feature **%s** is now **%s**.", feature, state))
}

func updateAlert(ctx context.Context, b *helperbot.Bot, e *handler.CommandEvent, user *models.User, data discord.SlashCommandInteractionData) error {
	activity, ok := game.Resolve(data.String("activity"))
	if !ok {
		return utils.EH.CreateErrorEmbed(e, "Unknown activity. Check the spelling and try again.")
	}

	setting := user.Alert(activity)
	setting.Enabled = data.Bool("enabled")
	if message, ok := data.OptString("message"); ok && message != "" {
		setting.Message = message
	}
	user.SetAlert(activity, setting)

	if err := b.UserRepository.Update(ctx, user); err != nil {
		return utils.EH.CreateErrorEmbed(e, "Failed to save your settings. Please try again later.")
	}
	state := "off"
	if setting.Enabled {
		state = "on"
	}
	return utils.EH.CreateSuccessEmbed(e,
		fmt.Sprintf("Reminder for **%s** is now **%s**.", activity, state))
}
