package game

// Activity is one trackable in-game cooldown-bearing action.
type Activity string

const (
	ActivityDaily           Activity = "daily"
	ActivityWeekly          Activity = "weekly"
	ActivityLootbox         Activity = "lootbox"
	ActivityHunt            Activity = "hunt"
	ActivityAdventure       Activity = "adventure"
	ActivityTraining        Activity = "training"
	ActivityQuest           Activity = "quest"
	ActivityDuel            Activity = "duel"
	ActivityArena           Activity = "arena"
	ActivityDungeonMiniboss Activity = "dungeon-miniboss"
	ActivityHorse           Activity = "horse"
	ActivityVote            Activity = "vote"
	ActivityFarm            Activity = "farm"
	ActivityWork            Activity = "work"
	ActivityMegarace        Activity = "megarace"
	ActivityMinirace        Activity = "minirace"
)

// All lists every known activity in a stable order.
var All = []Activity{
	ActivityDaily,
	ActivityWeekly,
	ActivityLootbox,
	ActivityHunt,
	ActivityAdventure,
	ActivityTraining,
	ActivityQuest,
	ActivityDuel,
	ActivityArena,
	ActivityDungeonMiniboss,
	ActivityHorse,
	ActivityVote,
	ActivityFarm,
	ActivityWork,
	ActivityMegarace,
	ActivityMinirace,
}

// Aliases maps shorthand admin input to canonical activities.
var Aliases = map[string]Activity{
	"adv":      ActivityAdventure,
	"dungeon":  ActivityDungeonMiniboss,
	"miniboss": ActivityDungeonMiniboss,
	"mb":       ActivityDungeonMiniboss,
	"lb":       ActivityLootbox,
	"tr":       ActivityTraining,
	"mine":     ActivityWork,
	"race":     ActivityHorse,
	"breed":    ActivityHorse,
}

// Resolve maps raw admin input (canonical name or alias) to an activity.
func Resolve(name string) (Activity, bool) {
	if a, ok := Aliases[name]; ok {
		return a, true
	}
	for _, a := range All {
		if string(a) == name {
			return a, true
		}
	}
	return "", false
}

// DefaultBaseSeconds holds the base cooldown seconds seeded for each
// activity at first start. Administrators can change these afterwards.
var DefaultBaseSeconds = map[Activity]int64{
	ActivityDaily:           79200,
	ActivityWeekly:          604800,
	ActivityLootbox:         10800,
	ActivityHunt:            60,
	ActivityAdventure:       3600,
	ActivityTraining:        900,
	ActivityQuest:           21600,
	ActivityDuel:            7200,
	ActivityArena:           86400,
	ActivityDungeonMiniboss: 43200,
	ActivityHorse:           86400,
	ActivityVote:            43200,
	ActivityFarm:            600,
	ActivityWork:            300,
	ActivityMegarace:        1800,
	ActivityMinirace:        86400,
}
