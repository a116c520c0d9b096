package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/semaphore"

	"github.com/disgoorg/rpg-helper/helperbot"
	"github.com/disgoorg/rpg-helper/helperbot/config"
	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/database/repositories"
	"github.com/disgoorg/rpg-helper/helperbot/diagnostics"
	"github.com/disgoorg/rpg-helper/helperbot/game"
	"github.com/disgoorg/rpg-helper/helperbot/game/classify"
	"github.com/disgoorg/rpg-helper/helperbot/game/cooldowns"
	"github.com/disgoorg/rpg-helper/helperbot/game/petcare"
	"github.com/disgoorg/rpg-helper/helperbot/game/reminders"
	"github.com/disgoorg/rpg-helper/helperbot/game/timestring"
	"github.com/disgoorg/rpg-helper/helperbot/logger"
)

const defaultMaxConcurrentMessages = 64

// MessagePipeline turns observed game-bot messages into reminders and
// helper replies. Each message runs in its own goroutine, bounded by a
// semaphore so a busy guild cannot exhaust the process.
type MessagePipeline struct {
	bot *helperbot.Bot
	sem *semaphore.Weighted
}

func NewMessagePipeline(b *helperbot.Bot) *MessagePipeline {
	limit := b.Cfg.Game.MaxConcurrentMessages
	if limit <= 0 {
		limit = defaultMaxConcurrentMessages
	}
	return &MessagePipeline{bot: b, sem: semaphore.NewWeighted(limit)}
}

// Listeners returns the gateway listeners feeding the pipeline.
func (p *MessagePipeline) Listeners() []bot.EventListener {
	return []bot.EventListener{
		bot.NewListenerFunc(p.onMessageCreate),
		bot.NewListenerFunc(p.onMessageUpdate),
	}
}

func (p *MessagePipeline) onMessageCreate(e *events.GuildMessageCreate) {
	p.dispatch(e.Client(), e.Message, e.GuildID)
}

// onMessageUpdate re-runs classification for edited messages. Slash
// responses arrive as an edit of a deferred placeholder. Messages whose
// components are all disabled are finished interactions and carry nothing
// new.
func (p *MessagePipeline) onMessageUpdate(e *events.GuildMessageUpdate) {
	if allComponentsDisabled(e.Message) {
		return
	}
	p.dispatch(e.Client(), e.Message, e.GuildID)
}

func (p *MessagePipeline) dispatch(client bot.Client, message discord.Message, guildID snowflake.ID) {
	if message.Author.ID != p.bot.Cfg.Game.BotID {
		return
	}

	if !p.sem.TryAcquire(1) {
		slog.Warn("Message pipeline saturated, dropping message",
			slog.String("type", "msg"),
			slog.String("message_id", message.ID.String()))
		return
	}
	go func() {
		defer p.sem.Release(1)
		ctx, cancel := context.WithTimeout(context.Background(), config.MessagePipelineTimeout)
		defer cancel()
		p.process(ctx, client, toClassifyMessage(client, message, guildID))
	}()
}

func (p *MessagePipeline) process(ctx context.Context, client bot.Client, msg *classify.Message) {
	events := classify.Classify(msg)
	if len(events) == 0 {
		return
	}

	userID, err := p.bot.Resolver.Resolve(ctx, msg, events[0])
	if err != nil {
		p.trackFailure(ctx, msg, diagnostics.KindIdentityNotFound, "", err.Error())
		p.react(client, msg, p.bot.Cfg.Game.WarningEmoji)
		return
	}

	settings, err := p.bot.UserRepository.GetByDiscordID(ctx, userID.String())
	if err != nil {
		if !errors.Is(err, repositories.ErrFirstTimeUser) {
			logger.LogError("Failed to load user settings", err,
				slog.String("user_id", userID.String()))
		}
		return
	}
	if !settings.BotEnabled {
		return
	}

	armed := false
	warned := false
	for _, ev := range events {
		switch ev.Kind {
		case classify.KindCooldown:
			ok, warn := p.handleCooldown(ctx, msg, ev, userID, settings)
			armed = armed || ok
			warned = warned || warn
		case classify.KindReady:
			if err := p.bot.Scheduler.Resolve(ctx, userID, ev.Activity); err != nil {
				logger.LogError("Failed to resolve reminder", err,
					slog.String("user_id", userID.String()),
					slog.String("activity", string(ev.Activity)))
			}
		case classify.KindBoost:
			warned = p.handleBoost(ctx, msg, ev, userID, settings) || warned
		case classify.KindHelper:
			p.handleHelper(ctx, client, msg, ev, settings)
		case classify.KindPetCare:
			p.handlePetCare(client, msg, settings)
		}
	}

	logger.LogPipeline("Game message processed",
		slog.String("message_id", msg.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("events", len(events)))

	if warned {
		p.react(client, msg, p.bot.Cfg.Game.WarningEmoji)
	} else if armed && settings.ReactionsEnabled {
		p.react(client, msg, p.bot.Cfg.Game.AckEmoji)
	}
}

// handleCooldown arms one reminder. It reports (armed, warned).
func (p *MessagePipeline) handleCooldown(ctx context.Context, msg *classify.Message, ev classify.Event, userID snowflake.ID, settings *models.User) (bool, bool) {
	alert := settings.Alert(ev.Activity)
	if !alert.Enabled {
		return false, false
	}

	var endTime time.Time
	switch ev.Source {
	case classify.SourceDuration:
		if ev.DurationText == "" {
			p.trackFailure(ctx, msg, diagnostics.KindMalformedDuration, string(ev.Activity), "countdown text not found")
			return false, true
		}
		d, err := timestring.Parse(ev.DurationText)
		if err != nil {
			p.trackFailure(ctx, msg, diagnostics.KindMalformedDuration, string(ev.Activity), ev.DurationText)
			return false, true
		}
		endTime = msg.CreatedAt.Add(d)
	case classify.SourceRegistry:
		d, err := p.bot.Registry.ActualCooldown(ev.Activity, settings.DonorTier)
		if err != nil {
			logger.LogError("Failed to compute cooldown", err,
				slog.String("activity", string(ev.Activity)))
			return false, false
		}
		endTime = msg.CreatedAt.Add(d)
	case classify.SourceClock:
		endTime = nextTournamentReset(msg.CreatedAt)
	}

	// A shared hunt runs on the partner's donor discount, not the one the
	// countdown was rendered with.
	if ev.Activity == game.ActivityHunt &&
		strings.Contains(settings.LastHuntMode, "together") &&
		settings.PartnerDonorTier < settings.DonorTier {
		endTime = endTime.Add(cooldowns.PartnerHuntDelta(settings.DonorTier, settings.PartnerDonorTier))
	}

	if !endTime.After(time.Now()) {
		return false, false
	}

	command := RenderCommand(ev, settings, p.bot.Cfg.Game.Prefix)
	reminder := &models.Reminder{
		UserID:    userID.String(),
		Activity:  string(ev.Activity),
		EndTime:   endTime,
		ChannelID: msg.ChannelID.String(),
		Message:   RenderAlertMessage(alert.Message, command),
	}
	if err := p.bot.Scheduler.Arm(ctx, reminder, !ev.KeepExisting); err != nil {
		// The overview lists only top up missing reminders; one armed from
		// the activity's own message keeps its time and text.
		if errors.Is(err, reminders.ErrReminderExists) {
			return true, false
		}
		logger.LogError("Failed to arm reminder", err,
			slog.String("user_id", userID.String()),
			slog.String("activity", string(ev.Activity)))
		return false, false
	}
	return true, false
}

func (p *MessagePipeline) handleBoost(ctx context.Context, msg *classify.Message, ev classify.Event, userID snowflake.ID, settings *models.User) bool {
	if !settings.MegaraceHelperEnabled {
		return false
	}
	if ev.Direction == 0 {
		p.trackFailure(ctx, msg, diagnostics.KindUnknownBoost, string(ev.Activity), "unrecognized boost outcome")
		return true
	}
	d, err := timestring.Parse(ev.DurationText)
	if err != nil || d == 0 {
		p.trackFailure(ctx, msg, diagnostics.KindMalformedDuration, string(ev.Activity), ev.DurationText)
		return true
	}

	delta := d
	if ev.Direction < 0 {
		delta = -d
	}
	err = p.bot.Scheduler.Adjust(ctx, userID, ev.Activity, delta)
	if err != nil && !errors.Is(err, reminders.ErrNoReminder) {
		logger.LogError("Failed to adjust reminder", err,
			slog.String("user_id", userID.String()),
			slog.String("activity", string(ev.Activity)))
	}
	return false
}

func (p *MessagePipeline) handleHelper(ctx context.Context, client bot.Client, msg *classify.Message, ev classify.Event, settings *models.User) {
	if !settings.ContextHelperEnabled {
		return
	}

	var description string
	switch ev.Helper {
	case classify.HelperPetFusion, classify.HelperPetCaught:
		description = suggestCommands("pets list")
	case classify.HelperPetClaim:
		description = suggestCommands("pets claim")
	case classify.HelperPetAdventure:
		description = suggestCommands("pets list", "pets adventure")
	case classify.HelperPetAdventureInstant:
		description = suggestCommands("pets claim", "pets adventure")
	case classify.HelperQuestBundle:
		description = p.questBundleSuggestion(ctx, msg)
	}
	if description == "" {
		return
	}

	p.reply(client, msg, discord.Embed{
		Description: description,
		Color:       config.EmbedDefaultColor,
	})
}

// questBundleSuggestion reads the quest category off the replied-to quest
// embed and suggests the commands that progress it.
func (p *MessagePipeline) questBundleSuggestion(ctx context.Context, msg *classify.Message) string {
	if msg.FetchReference == nil {
		return ""
	}
	ref, err := msg.FetchReference(ctx)
	if err != nil || ref == nil || ref.Embed == nil {
		return ""
	}

	var category string
	found := false
	for _, f := range ref.Embed.Fields {
		if category, found = classify.QuestCategory(strings.ToLower(f.Value)); found {
			break
		}
	}
	if !found {
		if category, found = classify.QuestCategory(strings.ToLower(ref.Embed.Description)); !found {
			return ""
		}
	}
	return suggestCommands(classify.QuestBundles[category]...)
}

func (p *MessagePipeline) handlePetCare(client bot.Client, msg *classify.Message, settings *models.User) {
	if !settings.PetHelperEnabled {
		return
	}
	happiness, hunger, ok := classify.PetStats(msg)
	if !ok {
		return
	}
	plan := petcare.Compute(happiness, hunger)

	description := "`" + plan.CommandLine() + "`"
	if plan.CommandLine() == "" {
		description = "Just catch it!"
	}
	p.reply(client, msg, discord.Embed{
		Description: description,
		Color:       config.EmbedDefaultColor,
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Catch chance: %.2f - %.2f%%", plan.ChanceMin, plan.ChanceMax),
		},
	})
}

func (p *MessagePipeline) reply(client bot.Client, msg *classify.Message, embed discord.Embed) {
	ctx, cancel := context.WithTimeout(context.Background(), config.ReplyTimeout)
	defer cancel()
	_, err := client.Rest().CreateMessage(msg.ChannelID, discord.MessageCreate{
		Embeds: []discord.Embed{embed},
		MessageReference: &discord.MessageReference{
			MessageID: &msg.ID,
		},
	}, rest.WithCtx(ctx))
	if err != nil {
		logger.LogError("Failed to send helper reply", err,
			slog.String("channel_id", msg.ChannelID.String()))
	}
}

func (p *MessagePipeline) react(client bot.Client, msg *classify.Message, emoji string) {
	if emoji == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.ReplyTimeout)
	defer cancel()
	if err := client.Rest().AddReaction(msg.ChannelID, msg.ID, emoji, rest.WithCtx(ctx)); err != nil {
		logger.LogError("Failed to add reaction", err,
			slog.String("message_id", msg.ID.String()))
	}
}

func (p *MessagePipeline) trackFailure(ctx context.Context, msg *classify.Message, kind, activity, detail string) {
	p.bot.Diagnostics.Track(ctx, diagnostics.Record{
		Kind:        kind,
		Activity:    activity,
		MessageID:   msg.ID.String(),
		ChannelID:   msg.ChannelID.String(),
		GuildID:     msg.GuildID.String(),
		MessageText: diagnosticText(msg),
		Detail:      detail,
	})
}

func suggestCommands(commands ...string) string {
	lines := make([]string, len(commands))
	for i, c := range commands {
		lines[i] = "`/" + c + "`"
	}
	return strings.Join(lines, "\n")
}

// nextTournamentReset is the daily tournament rollover: the next UTC
// midnight plus the few minutes the game takes to open entries again.
func nextTournamentReset(at time.Time) time.Time {
	midnight := at.UTC().Truncate(24 * time.Hour)
	return midnight.Add(24*time.Hour + 6*time.Minute)
}

func allComponentsDisabled(message discord.Message) bool {
	if len(message.Components) == 0 {
		return false
	}
	for _, row := range message.Components {
		for _, component := range row.Components() {
			if button, ok := component.(discord.ButtonComponent); ok && !button.Disabled {
				return false
			}
		}
	}
	return true
}

func diagnosticText(msg *classify.Message) string {
	parts := []string{msg.Content}
	if msg.Embed != nil {
		parts = append(parts, msg.Embed.Title, msg.Embed.Description, msg.Embed.FooterText)
		for _, f := range msg.Embed.Fields {
			parts = append(parts, f.Name+": "+f.Value)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// toClassifyMessage flattens a gateway message into the classifier's view.
func toClassifyMessage(client bot.Client, message discord.Message, guildID snowflake.ID) *classify.Message {
	msg := &classify.Message{
		ID:        message.ID,
		AuthorID:  message.Author.ID,
		ChannelID: message.ChannelID,
		GuildID:   guildID,
		CreatedAt: message.CreatedAt,
		Content:   message.Content,
	}

	if len(message.Embeds) > 0 {
		embed := message.Embeds[0]
		converted := &classify.Embed{
			Title:       embed.Title,
			Description: embed.Description,
		}
		if embed.Author != nil {
			converted.AuthorName = embed.Author.Name
			converted.AuthorIconURL = embed.Author.IconURL
		}
		if embed.Footer != nil {
			converted.FooterText = embed.Footer.Text
		}
		for _, f := range embed.Fields {
			converted.Fields = append(converted.Fields, classify.Field{Name: f.Name, Value: f.Value})
		}
		msg.Embed = converted
	}

	if message.Interaction != nil {
		msg.InteractionUserID = message.Interaction.User.ID
	}
	for _, mention := range message.Mentions {
		msg.Mentions = append(msg.Mentions, mention.ID)
	}

	if ref := message.MessageReference; ref != nil && ref.MessageID != nil {
		channelID := message.ChannelID
		if ref.ChannelID != nil {
			channelID = *ref.ChannelID
		}
		messageID := *ref.MessageID
		msg.FetchReference = func(ctx context.Context) (*classify.Message, error) {
			fetched, err := client.Rest().GetMessage(channelID, messageID)
			if err != nil {
				return nil, err
			}
			return toClassifyMessage(client, *fetched, guildID), nil
		}
	}
	return msg
}
