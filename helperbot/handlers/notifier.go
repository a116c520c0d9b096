package handlers

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/database/repositories"
)

// ReminderNotifier delivers due reminders back to the channel the
// triggering message was seen in. Users in DND mode get addressed by name
// instead of pinged.
type ReminderNotifier struct {
	client bot.Client
	users  repositories.UserRepository
}

func NewReminderNotifier(client bot.Client, users repositories.UserRepository) *ReminderNotifier {
	return &ReminderNotifier{client: client, users: users}
}

func (n *ReminderNotifier) Notify(ctx context.Context, reminder *models.Reminder) error {
	userID, err := snowflake.Parse(reminder.UserID)
	if err != nil {
		return fmt.Errorf("invalid user id %q: %w", reminder.UserID, err)
	}
	channelID, err := snowflake.Parse(reminder.ChannelID)
	if err != nil {
		return fmt.Errorf("invalid channel id %q: %w", reminder.ChannelID, err)
	}

	dnd := false
	pingAfter := false
	if settings, err := n.users.GetByDiscordID(ctx, reminder.UserID); err == nil {
		if !settings.BotEnabled {
			return nil
		}
		dnd = settings.DNDMode
		pingAfter = settings.PingAfterMessage
	}

	content := fmt.Sprintf("<@%s> %s", userID, reminder.Message)
	if pingAfter {
		content = fmt.Sprintf("%s <@%s>", reminder.Message, userID)
	}
	create := discord.MessageCreate{Content: content}
	if dnd {
		// The reminder still lands in the channel but never pings.
		create.AllowedMentions = &discord.AllowedMentions{}
	}

	_, err = n.client.Rest().CreateMessage(channelID, create)
	return err
}
