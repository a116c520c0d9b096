package classify

import (
	"regexp"

	"github.com/disgoorg/rpg-helper/helperbot/game"
)

// The literal phrase tables below mirror the game's output in English,
// Spanish and Portuguese. All matching runs on lowercased zone text.

var (
	cooldownListFooter = []string{
		"check the short version of this command",
		"revisa la versión más corta de este comando",
		"verifique a versão curta deste comando",
	}
	readyListFooter = []string{
		"check the long version of this command",
		"revisa la versión más larga de este comando",
		"verifique a versão longa deste comando",
	}
	dailyClaimedTitle = []string{
		"you have claimed your daily rewards already",
		"ya reclamaste tu recompensa diaria",
		"você já reivindicou sua recompensa diária",
	}
	megaraceStageContent = []string{
		"you have not reached the end of this stage",
		"aún no has llegado al final de esta etapa",
		"você ainda não chegou ao fim desta etapa",
	}
	miniracePendingContent = []string{
		"you are now in the list of pending players for a tournament",
	}
	miniraceRidingContent = []string{
		"started riding!",
	}
	megaraceTotalTimeField = []string{
		"total time",
		"tiempo total",
		"tempo total",
	}
	megaraceOverviewDescription = []string{
		"you can join megarace every week",
		"puedes entrar a la megacarrera cada semana",
		"você pode entrar na mega corrida toda semana",
	}
	megaraceCompletedField = []string{
		"megarace completed",
		"megacarrera completada",
		"megacorrida completa",
	}
	megaraceBoostField = []string{
		"passes through the boost",
	}
	boostIncreased = []string{"stage time increased"}
	boostReduced   = []string{"stage time reduced"}

	petFusionDescription = []string{
		"you have got a new pet",
		"conseguiste una nueva mascota",
		"você tem um novo pet",
	}
	petCaughtField = []string{
		"** is now following **",
		"** ahora sigue a **",
		"** agora segue **",
	}
	petClaimTitle = []string{
		"pet adventure rewards",
		"recompensas de pet adventure",
	}
	petAdventureContent = []string{
		"your pet has started an adventure and will be back",
		"pets have started an adventure!",
		"tu mascota empezó una aventura y volverá",
		"tus mascotas han comenzado una aventura!",
		"seu pet começou uma aventura e voltará",
		"seus pets começaram uma aventura!",
	}
	petAdventureInstantContent = []string{
		"the following pets are back instantly",
		"las siguientes mascotas están de vuelta instantaneamente",
		"os seguintes pets voltaram instantaneamente",
	}
	questAcceptedContent = []string{
		"got a **new quest**!",
		"consiguió una **nueva misión**",
		"conseguiu uma **nova missão**",
	}
	petApproachField = []string{
		"is approaching",
	}
)

// Duration extraction patterns per shape.
var (
	dailyTimestringPatterns = []*regexp.Regexp{
		regexp.MustCompile(`wait at least \*\*(.+?)\*\*`),
		regexp.MustCompile(`espera al menos \*\*(.+?)\*\*`),
		regexp.MustCompile(`espere pelo menos \*\*(.+?)\*\*`),
	}
	megaraceStagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`be there in \*\*(.+?)\*\*`),
		regexp.MustCompile(`allí en \*\*(.+?)\*\*`),
		regexp.MustCompile(`lá em \*\*(.+?)\*\*`),
	}
	megaraceTotalTimePatterns = []*regexp.Regexp{
		regexp.MustCompile(` \*\*(.+?)\*\* `),
	}
	megaraceOverviewPatterns = []*regexp.Regexp{
		regexp.MustCompile(`time remaining\*\*: (.+?)\n`),
		regexp.MustCompile(`ti?empo restante\*\*: (.+?)\n`),
	}
	boostDurationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:increased|reduced)__: \*\*(.+?)\*\*`),
	}
)

// Identity name extraction patterns.
var (
	nameFromMessageStart = []*regexp.Regexp{
		regexp.MustCompile(`^\*\*(.+?)\*\*`),
	}
	dailyAuthorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?)'s daily reward`),
		regexp.MustCompile(`^(.+?) — daily`),
	}
	petApproachPatterns = []*regexp.Regexp{
		regexp.MustCompile(`approaching \*\*(.+?)\*\*`),
	}
	listAuthorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^(.+?) — `),
		regexp.MustCompile(`^(.+?)'s `),
	}
)

// Pet approach stats, read off the approach embed's field value.
var (
	petHappinessPattern = regexp.MustCompile(`happiness\W*?(\d+)`)
	petHungerPattern    = regexp.MustCompile(`hunger\W*?(\d+)`)
)

// listEntry pairs one activity of the cooldown overview with the pattern
// capturing its countdown and the substrings marking it ready. Patterns
// with two capture groups carry a command mode suffix in the first one;
// the countdown is always the last group.
type listEntry struct {
	activity game.Activity
	cooldown *regexp.Regexp
	ready    []string
}

func listCooldownPattern(label string) *regexp.Regexp {
	return regexp.MustCompile(label + "`\\*\\* \\(\\*\\*(.+?)\\*\\*")
}

// listEntries covers every activity shown on the cooldown overview, in the
// game's display order. Truncated labels ("raining", "rena", "boss",
// "race") survive the locale-dependent prefixes in front of them.
var listEntries = []listEntry{
	{game.ActivityDaily, listCooldownPattern("daily"), []string{"daily`**"}},
	{game.ActivityWeekly, listCooldownPattern("weekly"), []string{"weekly`**"}},
	{game.ActivityLootbox, listCooldownPattern("lootbox"), []string{"lootbox`**"}},
	{game.ActivityHunt, regexp.MustCompile("hunt((?: hardmode)?)`\\*\\* \\(\\*\\*(.+?)\\*\\*"), []string{"hunt`**", "hunt hardmode`**"}},
	{game.ActivityAdventure, regexp.MustCompile("adventure((?: hardmode)?)`\\*\\* \\(\\*\\*(.+?)\\*\\*"), []string{"adventure`**", "adventure hardmode`**"}},
	{game.ActivityTraining, listCooldownPattern("raining"), []string{"raining`**"}},
	{game.ActivityQuest, listCooldownPattern("quest"), []string{"quest`**"}},
	{game.ActivityDuel, listCooldownPattern("duel"), []string{"duel`**"}},
	{game.ActivityArena, listCooldownPattern("rena"), []string{"rena`**"}},
	{game.ActivityDungeonMiniboss, listCooldownPattern("boss"), []string{"boss`**"}},
	{game.ActivityHorse, listCooldownPattern("race"), []string{"race`**"}},
	{game.ActivityVote, listCooldownPattern("vote"), []string{"vote`**"}},
	{game.ActivityFarm, listCooldownPattern("farm"), []string{"farm`**"}},
	{game.ActivityWork, regexp.MustCompile("(?:mine|pickaxe|drill|dynamite)`\\*\\* \\(\\*\\*(.+?)\\*\\*"), []string{"mine`**", "pickaxe`**", "drill`**", "dynamite`**"}},
}

// QuestBundles maps a quest category to its suggested command names.
var QuestBundles = map[string][]string{
	"gambling": {"big dice", "blackjack", "coinflip", "cups", "dice", "multidice", "slots", "wheel"},
	"guild":    {"guild raid", "guild upgrade"},
	"crafting": {"craft", "dismantle"},
	"cooking":  {"cook"},
	"trading":  {"trade items"},
}

// QuestCategory recovers the quest category from the quest embed's first
// field value. Unrecognized categories report false.
func QuestCategory(fieldValue string) (string, bool) {
	for category := range QuestBundles {
		if containsAny(fieldValue, []string{category + " quest"}) {
			return category, true
		}
	}
	return "", false
}
