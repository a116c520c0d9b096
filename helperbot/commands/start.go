package commands

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/disgoorg/rpg-helper/helperbot"
	"github.com/disgoorg/rpg-helper/helperbot/config"
	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/database/repositories"
	"github.com/disgoorg/rpg-helper/helperbot/utils"
)

var Start = discord.SlashCommandCreate{
	Name:        "on",
	Description: "Turn the helper on for you",
}

var Stop = discord.SlashCommandCreate{
	Name:        "off",
	Description: "Turn the helper off for you",
}

func StartHandler(b *helperbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		discordID := e.User().ID.String()
		user, err := b.UserRepository.GetByDiscordID(ctx, discordID)
		if errors.Is(err, repositories.ErrFirstTimeUser) {
			user = &models.User{
				DiscordID:             discordID,
				BotEnabled:            true,
				ReactionsEnabled:      true,
				ContextHelperEnabled:  true,
				PetHelperEnabled:      true,
				MegaraceHelperEnabled: true,
				SlashMode:             true,
				LastTrainingCommand:   "training",
				LastQuestCommand:      "quest",
			}
			if err = b.UserRepository.Create(ctx, user); err != nil {
				return utils.EH.CreateErrorEmbed(e, "Failed to register you. Please try again later.")
			}
			return utils.EH.CreateSuccessEmbed(e, "Hey there! I will now watch your cooldowns and remind you when commands are ready.")
		}
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to load your settings. Please try again later.")
		}

		if user.BotEnabled {
			return utils.EH.CreateInfoEmbed(e, "I am already turned on for you.")
		}
		user.BotEnabled = true
		if err = b.UserRepository.Update(ctx, user); err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to save your settings. Please try again later.")
		}
		return utils.EH.CreateSuccessEmbed(e, "Welcome back! Reminders are on again.")
	}
}

func StopHandler(b *helperbot.Bot) handler.CommandHandler {
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

		if !user.BotEnabled {
			return utils.EH.CreateInfoEmbed(e, "I am already turned off for you.")
		}
		user.BotEnabled = false
		if err = b.UserRepository.Update(ctx, user); err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to save your settings. Please try again later.")
		}
		return utils.EH.CreateSuccessEmbed(e, "All reminders are paused. Use `/on` to resume.")
	}
}
