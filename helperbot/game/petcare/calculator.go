// Package petcare derives the feed/pat sequence for catching a wild pet.
// Feeds lower hunger by 18 to 22 each, pats raise happiness by 8 to 12
// each, and a catch is guaranteed once happiness exceeds hunger by 85.
// At most 6 actions fit before the pet flees.
package petcare

import "strings"

const (
	maxActions      = 6
	guaranteedDelta = 85
)

// Plan is the suggested action sequence with its projected outcome range.
type Plan struct {
	Feeds int
	Pats  int

	// ChanceMin and ChanceMax bound the catch chance in percent, given the
	// random per-action effect. ChanceMax caps at 100.
	ChanceMin float64
	ChanceMax float64
}

// Compute plans the catch attempt for a pet's current happiness and hunger.
func Compute(happiness, hunger int) Plan {
	feeds := hunger / 20
	hungerRest := hunger % 20
	if hungerRest >= 10 {
		feeds++
		hungerRest -= 18
		if hungerRest < 0 {
			hungerRest = 0
		}
	}

	happinessMissing := (hungerRest + guaranteedDelta) - happiness
	pats := happinessMissing / 10
	if happinessMissing%10 > 5 {
		pats++
	}
	if feeds+pats > maxActions {
		pats = maxActions - feeds
	}

	hungerMin := clampZero(hunger - feeds*22)
	hungerMax := clampZero(hunger - feeds*18)
	happinessMin := clampZero(happiness + pats*8)
	happinessMax := clampZero(happiness + pats*12)

	chanceMin := 100.0 / guaranteedDelta * float64(happinessMin-hungerMax)
	chanceMax := 100.0 / guaranteedDelta * float64(happinessMax-hungerMin)
	if chanceMin > 100 {
		chanceMin = 100
	}
	if chanceMax > 100 {
		chanceMax = 100
	}

	return Plan{Feeds: feeds, Pats: pats, ChanceMin: chanceMin, ChanceMax: chanceMax}
}

// CommandLine renders the plan the way it is typed in chat, feeds first.
func (p Plan) CommandLine() string {
	parts := make([]string, 0, p.Feeds+p.Pats)
	for i := 0; i < p.Feeds; i++ {
		parts = append(parts, "FEED")
	}
	for i := 0; i < p.Pats; i++ {
		parts = append(parts, "PAT")
	}
	return strings.Join(parts, " ")
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
