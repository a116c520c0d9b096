package classify

import (
	"regexp"

	"github.com/disgoorg/rpg-helper/helperbot/game"
)

// Kind discriminates what a classified event asks the pipeline to do.
type Kind int

const (
	// KindCooldown arms (or re-arms) a reminder.
	KindCooldown Kind = iota
	// KindReady resolves an existing reminder without firing it.
	KindReady
	// KindBoost shifts an armed reminder's expiry by a signed delta.
	KindBoost
	// KindHelper replies with suggested follow-up commands.
	KindHelper
	// KindPetCare replies with the derived pet feed/pat sequence.
	KindPetCare
)

// Source says where a KindCooldown event's duration comes from.
type Source int

const (
	// SourceDuration: the message carries a live countdown in DurationText.
	SourceDuration Source = iota
	// SourceRegistry: the cooldown length comes from the registry.
	SourceRegistry
	// SourceClock: the expiry is derived from the wall clock (daily tournament
	// reset), not from message text.
	SourceClock
)

// HelperTopic identifies which context-helper reply an event asks for.
type HelperTopic int

const (
	HelperNone HelperTopic = iota
	HelperPetFusion
	HelperPetCaught
	HelperPetClaim
	HelperPetAdventure
	HelperPetAdventureInstant
	HelperQuestBundle
)

// Event is one structured fact extracted from a matched message.
type Event struct {
	Kind     Kind
	Activity game.Activity

	// DurationText is the raw countdown text for SourceDuration events.
	// Empty when the shape matched but the countdown could not be located;
	// the pipeline reports that as a malformed-duration diagnostic.
	DurationText string
	Source       Source

	// Mode is an optional command variant suffix (e.g. "hardmode") read off
	// the matched message text.
	Mode string

	// Slash reports whether the original invocation was a structured
	// interaction, which changes the rendered reply-command text.
	Slash bool

	// KeepExisting arms the reminder only when none is active yet. The
	// overview lists set it so a reminder armed from the activity's own
	// message is not clobbered.
	KeepExisting bool

	// Direction is +1/-1 for KindBoost; 0 when the boost sub-kind could not
	// be determined.
	Direction int

	Helper HelperTopic

	// MentionSafe allows the identity resolver to fall back to a single
	// explicit mention for this shape.
	MentionSafe bool

	// NameText and NamePatterns feed the display-name resolution strategy:
	// the raw zone text holding the acting user's name and the patterns
	// that extract it.
	NameText     string
	NamePatterns []*regexp.Regexp
}
