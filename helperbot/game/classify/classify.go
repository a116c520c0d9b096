// Package classify turns raw game-bot messages into structured events.
// The rule tables live in rules.go; this file walks the shapes in a fixed
// priority order and stops at the first one that matches.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/disgoorg/rpg-helper/helperbot/game"
)

// Classify inspects one game-bot message and returns the events it implies.
// A nil result means the message matched no known shape and should be
// ignored. At most one shape matches per message; the cooldown overview is
// the only shape that yields more than one event. Every event records
// whether the message answered a structured interaction, since that decides
// the form of the rendered reply command.
func Classify(msg *Message) []Event {
	events := classifyShapes(msg)
	if msg.InteractionUserID != 0 {
		for i := range events {
			events[i].Slash = true
		}
	}
	return events
}

func classifyShapes(msg *Message) []Event {
	if events := classifyCooldownList(msg); events != nil {
		return events
	}
	if events := classifyReadyList(msg); events != nil {
		return events
	}
	if ev, ok := classifyDailyClaimed(msg); ok {
		return []Event{ev}
	}
	if ev, ok := classifyDailyAuthor(msg); ok {
		return []Event{ev}
	}
	if ev, ok := classifyMegaraceBoost(msg); ok {
		return []Event{ev}
	}
	if ev, ok := classifyMegaraceStart(msg); ok {
		return []Event{ev}
	}
	if ev, ok := classifyMegaraceStage(msg); ok {
		return []Event{ev}
	}
	if ev, ok := classifyMegaraceOverview(msg); ok {
		return []Event{ev}
	}
	if ev, ok := classifyMinirace(msg); ok {
		return []Event{ev}
	}
	if ev, ok := classifyPetApproach(msg); ok {
		return []Event{ev}
	}
	if ev, ok := classifyHelpers(msg); ok {
		return []Event{ev}
	}
	return nil
}

// classifyCooldownList handles the full cooldown overview: one cooldown
// event per activity still counting down, one ready event per activity
// already available.
func classifyCooldownList(msg *Message) []Event {
	if !containsAny(msg.footer(), cooldownListFooter) {
		return nil
	}
	fields := msg.fieldsText()
	events := make([]Event, 0, len(listEntries))
	for _, entry := range listEntries {
		if m := entry.cooldown.FindStringSubmatch(fields); m != nil {
			ev := Event{
				Kind:         KindCooldown,
				Activity:     entry.activity,
				DurationText: m[len(m)-1],
				Source:       SourceDuration,
				KeepExisting: true,
				NameText:     msg.AuthorName(),
				NamePatterns: listAuthorPatterns,
			}
			if len(m) == 3 {
				ev.Mode = strings.TrimSpace(m[1])
			}
			events = append(events, ev)
			continue
		}
		if containsAny(fields, entry.ready) {
			events = append(events, Event{
				Kind:         KindReady,
				Activity:     entry.activity,
				NameText:     msg.AuthorName(),
				NamePatterns: listAuthorPatterns,
			})
		}
	}
	if len(events) == 0 {
		return nil
	}
	return events
}

// classifyReadyList handles the short overview, which only lists commands
// that are off cooldown.
func classifyReadyList(msg *Message) []Event {
	if !containsAny(msg.footer(), readyListFooter) {
		return nil
	}
	fields := msg.fieldsText()
	events := make([]Event, 0, len(listEntries))
	for _, entry := range listEntries {
		if containsAny(fields, entry.ready) {
			events = append(events, Event{
				Kind:         KindReady,
				Activity:     entry.activity,
				NameText:     msg.AuthorName(),
				NamePatterns: listAuthorPatterns,
			})
		}
	}
	if len(events) == 0 {
		return nil
	}
	return events
}

// classifyDailyClaimed matches the refusal embed shown when the daily
// reward was already collected. The remaining wait lives in the title.
func classifyDailyClaimed(msg *Message) (Event, bool) {
	title := msg.title()
	if !containsAny(title, dailyClaimedTitle) {
		return Event{}, false
	}
	return Event{
		Kind:         KindCooldown,
		Activity:     game.ActivityDaily,
		DurationText: firstMatch(dailyTimestringPatterns, title),
		Source:       SourceDuration,
		NameText:     msg.AuthorName(),
		NamePatterns: dailyAuthorPatterns,
	}, true
}

// classifyDailyAuthor matches a successful daily claim, recognized by the
// author line suffix. The cooldown length comes from the registry.
func classifyDailyAuthor(msg *Message) (Event, bool) {
	if !strings.Contains(msg.author(), " — daily") {
		return Event{}, false
	}
	return Event{
		Kind:         KindCooldown,
		Activity:     game.ActivityDaily,
		Source:       SourceRegistry,
		NameText:     msg.AuthorName(),
		NamePatterns: dailyAuthorPatterns,
	}, true
}

// classifyMegaraceBoost matches the boost encounter, which shifts the
// armed stage reminder instead of replacing it.
func classifyMegaraceBoost(msg *Message) (Event, bool) {
	first := msg.field(0)
	if !containsAny(first.Name, megaraceBoostField) {
		return Event{}, false
	}
	ev := Event{
		Kind:         KindBoost,
		Activity:     game.ActivityMegarace,
		DurationText: firstMatch(boostDurationPatterns, first.Value),
		NameText:     msg.AuthorName(),
		NamePatterns: listAuthorPatterns,
	}
	switch {
	case containsAny(first.Value, boostIncreased):
		ev.Direction = 1
	case containsAny(first.Value, boostReduced):
		ev.Direction = -1
	}
	return ev, true
}

// classifyMegaraceStart matches the stage kickoff embed carrying a
// "total time" field with the full stage countdown.
func classifyMegaraceStart(msg *Message) (Event, bool) {
	if msg.Embed == nil {
		return Event{}, false
	}
	for i := range msg.Embed.Fields {
		f := msg.field(i)
		if !containsAny(f.Name, megaraceTotalTimeField) {
			continue
		}
		return Event{
			Kind:         KindCooldown,
			Activity:     game.ActivityMegarace,
			DurationText: firstMatch(megaraceTotalTimePatterns, " "+f.Value+" "),
			Source:       SourceDuration,
			NameText:     msg.AuthorName(),
			NamePatterns: listAuthorPatterns,
		}, true
	}
	return Event{}, false
}

// classifyMegaraceStage matches the mid-stage progress message, plain
// content with the remaining stage time.
func classifyMegaraceStage(msg *Message) (Event, bool) {
	content := msg.content()
	if !containsAny(content, megaraceStageContent) {
		return Event{}, false
	}
	return Event{
		Kind:         KindCooldown,
		Activity:     game.ActivityMegarace,
		DurationText: firstMatch(megaraceStagePatterns, content),
		Source:       SourceDuration,
		MentionSafe:  true,
		NameText:     msg.Content,
		NamePatterns: nameFromMessageStart,
	}, true
}

// classifyMegaraceOverview matches the weekly overview embed. A completed
// race resolves the reminder; otherwise the remaining time is armed.
func classifyMegaraceOverview(msg *Message) (Event, bool) {
	if !containsAny(msg.description(), megaraceOverviewDescription) {
		return Event{}, false
	}
	fields := msg.fieldsText()
	if containsAny(fields, megaraceCompletedField) {
		return Event{
			Kind:         KindReady,
			Activity:     game.ActivityMegarace,
			NameText:     msg.AuthorName(),
			NamePatterns: listAuthorPatterns,
		}, true
	}
	return Event{
		Kind:         KindCooldown,
		Activity:     game.ActivityMegarace,
		DurationText: firstMatch(megaraceOverviewPatterns, fields+"\n"),
		Source:       SourceDuration,
		NameText:     msg.AuthorName(),
		NamePatterns: listAuthorPatterns,
	}, true
}

// classifyMinirace matches both daily tournament entry shapes. The expiry
// is clock-derived (next reset), not read from the message.
func classifyMinirace(msg *Message) (Event, bool) {
	content := msg.content()
	if !containsAny(content, miniracePendingContent) && !containsAny(content, miniraceRidingContent) {
		return Event{}, false
	}
	return Event{
		Kind:         KindCooldown,
		Activity:     game.ActivityMinirace,
		Source:       SourceClock,
		MentionSafe:  true,
		NameText:     msg.Content,
		NamePatterns: nameFromMessageStart,
	}, true
}

// classifyPetApproach matches the wild pet encounter embed.
func classifyPetApproach(msg *Message) (Event, bool) {
	first := msg.field(0)
	if !containsAny(first.Name, petApproachField) && !containsAny(msg.description(), petApproachField) {
		return Event{}, false
	}
	return Event{
		Kind:         KindPetCare,
		NameText:     msg.Embed.Description,
		NamePatterns: petApproachPatterns,
	}, true
}

// classifyHelpers matches the context-helper shapes that prompt a
// follow-up command suggestion rather than a reminder.
func classifyHelpers(msg *Message) (Event, bool) {
	content := msg.content()
	switch {
	case containsAny(msg.description(), petFusionDescription):
		return Event{Kind: KindHelper, Helper: HelperPetFusion}, true
	case containsAny(content, petCaughtField) || containsAny(msg.fieldsText(), petCaughtField):
		return Event{Kind: KindHelper, Helper: HelperPetCaught}, true
	case containsAny(msg.title(), petClaimTitle):
		return Event{Kind: KindHelper, Helper: HelperPetClaim}, true
	case containsAny(content, petAdventureInstantContent):
		return Event{
			Kind:         KindHelper,
			Helper:       HelperPetAdventureInstant,
			MentionSafe:  true,
			NameText:     msg.Content,
			NamePatterns: nameFromMessageStart,
		}, true
	case containsAny(content, petAdventureContent):
		return Event{
			Kind:         KindHelper,
			Helper:       HelperPetAdventure,
			MentionSafe:  true,
			NameText:     msg.Content,
			NamePatterns: nameFromMessageStart,
		}, true
	case containsAny(content, questAcceptedContent):
		return Event{
			Kind:         KindHelper,
			Helper:       HelperQuestBundle,
			MentionSafe:  true,
			NameText:     msg.Content,
			NamePatterns: nameFromMessageStart,
		}, true
	}
	return Event{}, false
}

// PetStats reads the happiness and hunger values off a pet approach
// embed. The boolean is false when either stat is missing.
func PetStats(msg *Message) (happiness, hunger int, ok bool) {
	text := msg.description() + "\n" + msg.fieldsText()
	h := petHappinessPattern.FindStringSubmatch(text)
	g := petHungerPattern.FindStringSubmatch(text)
	if h == nil || g == nil {
		return 0, 0, false
	}
	happiness, err := strconv.Atoi(h[1])
	if err != nil {
		return 0, 0, false
	}
	hunger, err = strconv.Atoi(g[1])
	if err != nil {
		return 0, 0, false
	}
	return happiness, hunger, true
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
