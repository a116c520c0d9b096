package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/disgoorg/rpg-helper/helperbot"
	"github.com/disgoorg/rpg-helper/helperbot/config"
	"github.com/disgoorg/rpg-helper/helperbot/game/timestring"
	"github.com/disgoorg/rpg-helper/helperbot/utils"
)

var Reminders = discord.SlashCommandCreate{
	Name:        "reminders",
	Description: "List your active reminders",
}

func RemindersHandler(b *helperbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		rows, err := b.Scheduler.ListByUser(ctx, e.User().ID)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to load your reminders. Please try again later.")
		}
		if len(rows) == 0 {
			return utils.EH.CreateInfoEmbed(e, "You have no active reminders. Go play!")
		}

		totalPages := (len(rows) + config.RemindersPerPage - 1) / config.RemindersPerPage
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * config.RemindersPerPage
				end := min(start+config.RemindersPerPage, len(rows))

				description := ""
				now := time.Now()
				for _, row := range rows[start:end] {
					left := row.EndTime.Sub(now)
					if left < 0 {
						left = 0
					}
					description += fmt.Sprintf("**%s** in **%s**\n", row.Activity, timestring.Format(left))
				}

				embed.SetTitle("Your reminders").
					SetDescription(description).
					SetColor(config.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d", page+1, totalPages), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
