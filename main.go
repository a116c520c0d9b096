package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/disgoorg/rpg-helper/helperbot"
	"github.com/disgoorg/rpg-helper/helperbot/commands"
	"github.com/disgoorg/rpg-helper/helperbot/database"
	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/database/repositories"
	"github.com/disgoorg/rpg-helper/helperbot/diagnostics"
	"github.com/disgoorg/rpg-helper/helperbot/game/cooldowns"
	"github.com/disgoorg/rpg-helper/helperbot/game/identity"
	"github.com/disgoorg/rpg-helper/helperbot/game/reminders"
	"github.com/disgoorg/rpg-helper/helperbot/handlers"
	"github.com/disgoorg/rpg-helper/helperbot/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting RPG helper",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := helperbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	logger.LogSystem("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err = db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.Any("error", err))
		os.Exit(-1)
	}

	b := helperbot.New(*cfg, version, commit)
	b.DB = db
	b.UserRepository = repositories.NewUserRepository(db.BunDB())
	b.ReminderRepository = repositories.NewReminderRepository(db.BunDB())
	b.CooldownRepository = repositories.NewCooldownRepository(db.BunDB())

	b.Registry, err = cooldowns.NewRegistry(ctx, b.CooldownRepository)
	if err != nil {
		slog.Error("Failed to initialize cooldown registry", slog.Any("error", err))
		os.Exit(-1)
	}

	b.Diagnostics, err = diagnostics.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		slog.Error("Failed to connect diagnostics store", slog.Any("error", err))
		os.Exit(-1)
	}
	defer b.Diagnostics.Close(context.Background())

	h := handler.New()
	h.Command("/version", commands.VersionHandler(b))
	h.Command("/on", handlers.WrapWithLogging("on", commands.StartHandler(b)))
	h.Command("/off", handlers.WrapWithLogging("off", commands.StopHandler(b)))
	h.Command("/settings", handlers.WrapWithLogging("settings", commands.SettingsHandler(b)))
	h.Command("/reminders", handlers.WrapWithLogging("reminders", commands.RemindersHandler(b)))
	h.Command("/event-reduction", handlers.WrapWithLogging("event-reduction", commands.EventReductionHandler(b)))
	h.Command("/cooldown-setup", handlers.WrapWithLogging("cooldown-setup", commands.CooldownSetupHandler(b)))
	h.Command("/time-skip", handlers.WrapWithLogging("time-skip", commands.TimeSkipHandler(b)))

	pipeline := handlers.NewMessagePipeline(b)
	listeners := append([]bot.EventListener{h, bot.NewListenerFunc(b.OnReady)}, pipeline.Listeners()...)
	if err = b.SetupBot(listeners...); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		b.Client.Close(shutdownCtx)
	}()

	b.Resolver = identity.NewResolver(handlers.NewCachedMemberSource(b.Client))

	notifier := handlers.NewReminderNotifier(b.Client, b.UserRepository)
	b.Scheduler = reminders.NewScheduler(b.ReminderRepository, notifier, func(r *models.Reminder, err error) {
		b.Diagnostics.Track(context.Background(), diagnostics.Record{
			Kind:        diagnostics.KindDeliveryDropped,
			Activity:    r.Activity,
			ChannelID:   r.ChannelID,
			MessageText: r.Message,
			Detail:      err.Error(),
		})
	})
	defer b.Scheduler.Shutdown()

	recovered, err := b.Scheduler.Recover(ctx)
	if err != nil {
		slog.Error("Failed to recover reminders", slog.Any("error", err))
		os.Exit(-1)
	}
	logger.LogSystem("Recovered reminders", slog.Int("count", recovered))

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("error_details", fmt.Sprintf("%+v", err)),
			)
			os.Exit(-1)
		}
	}

	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway", slog.Any("error", err))
		os.Exit(-1)
	}

	logger.LogSystem("RPG helper is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-s
	logger.LogSystem("Shutting down...")
}
