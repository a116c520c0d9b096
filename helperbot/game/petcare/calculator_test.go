package petcare

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeTypicalEncounter(t *testing.T) {
	plan := Compute(12, 64)
	require.Equal(t, 3, plan.Feeds)
	require.Equal(t, 3, plan.Pats)
	require.InDelta(t, 30.59, plan.ChanceMin, 0.01)
	require.InDelta(t, 56.47, plan.ChanceMax, 0.01)
	require.Equal(t, "FEED FEED FEED PAT PAT PAT", plan.CommandLine())
}

func TestComputeActionCapLimitsPats(t *testing.T) {
	// Very hungry pet: feeds consume the whole action budget.
	plan := Compute(0, 120)
	require.Equal(t, 6, plan.Feeds)
	require.Equal(t, 0, plan.Pats)
}

func TestComputeHungerRemainderRoundsUp(t *testing.T) {
	// Remainder of 10 or more costs an extra feed.
	plan := Compute(50, 30)
	require.Equal(t, 2, plan.Feeds)
}

func TestComputeHappyAndFedPet(t *testing.T) {
	plan := Compute(90, 0)
	require.Zero(t, plan.Feeds)
	require.Zero(t, plan.Pats)
	require.Equal(t, 100.0, plan.ChanceMin)
	require.Equal(t, 100.0, plan.ChanceMax)
	require.Empty(t, plan.CommandLine())
}

func TestComputeChanceCapsAtHundred(t *testing.T) {
	plan := Compute(80, 10)
	require.LessOrEqual(t, plan.ChanceMax, 100.0)
}
