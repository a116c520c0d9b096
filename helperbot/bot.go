package helperbot

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"

	"github.com/disgoorg/rpg-helper/helperbot/database"
	"github.com/disgoorg/rpg-helper/helperbot/database/repositories"
	"github.com/disgoorg/rpg-helper/helperbot/diagnostics"
	"github.com/disgoorg/rpg-helper/helperbot/game/cooldowns"
	"github.com/disgoorg/rpg-helper/helperbot/game/identity"
	"github.com/disgoorg/rpg-helper/helperbot/game/reminders"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string

	DB                 *database.DB
	UserRepository     repositories.UserRepository
	ReminderRepository *repositories.ReminderRepository
	CooldownRepository *repositories.CooldownRepository

	Registry    *cooldowns.Registry
	Scheduler   *reminders.Scheduler
	Resolver    *identity.Resolver
	Diagnostics *diagnostics.Tracker
}

// IsAdmin reports whether a user may run the operator commands.
func (b *Bot) IsAdmin(userID snowflake.ID) bool {
	for _, id := range b.Cfg.Bot.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		// IntentGuildMembers keeps the member cache populated; display-name
		// identity resolution iterates it.
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMembers, gateway.IntentGuildMessages, gateway.IntentMessageContent)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagMembers)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("RPG helper is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("your cooldowns"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
