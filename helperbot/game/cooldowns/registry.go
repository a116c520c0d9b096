// Package cooldowns owns the per-activity cooldown definitions and the
// donor-tier arithmetic applied on top of them.
package cooldowns

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/game"
)

var (
	ErrUnknownActivity  = errors.New("cooldowns: unknown activity")
	ErrInvalidReduction = errors.New("cooldowns: event reduction must be in [0,99]")
	ErrInvalidBase      = errors.New("cooldowns: base seconds must be positive")
)

// MaxDonorTier caps the tier index into the multiplier table.
const MaxDonorTier = 3

// donorMultipliers holds the multiplicative cooldown discount per donor
// tier. Tiers above MaxDonorTier clamp to the last entry.
var donorMultipliers = [MaxDonorTier + 1]float64{1.0, 0.9, 0.8, 0.7}

// Definition is the in-memory view of one activity's cooldown.
type Definition struct {
	Activity       game.Activity
	BaseSeconds    int64
	EventReduction float64
}

// ActualSeconds applies the event reduction, then the donor-tier discount.
func (d Definition) ActualSeconds(donorTier int) int64 {
	secs := float64(d.BaseSeconds) * (1 - d.EventReduction/100)
	return int64(secs * DonorMultiplier(donorTier))
}

// DonorMultiplier returns the cooldown multiplier for a donor tier,
// clamping to the maximum tier.
func DonorMultiplier(tier int) float64 {
	if tier < 0 {
		tier = 0
	}
	if tier > MaxDonorTier {
		tier = MaxDonorTier
	}
	return donorMultipliers[tier]
}

// PartnerHuntDelta is the correction added to a shared hunt cooldown when
// the partner's donor tier is lower than the user's own: the countdown shown
// by the game reflects the user's discount, but the shared timer runs on the
// partner's. The delta is the per-minute multiplier difference in seconds.
func PartnerHuntDelta(userTier, partnerTier int) time.Duration {
	diff := 60*DonorMultiplier(partnerTier) - 60*DonorMultiplier(userTier)
	return time.Duration(diff * float64(time.Second))
}

// Repository is the persistence boundary for cooldown definitions.
type Repository interface {
	GetAll(ctx context.Context) ([]*models.Cooldown, error)
	Seed(ctx context.Context, defs []*models.Cooldown) error
	UpdateBase(ctx context.Context, activity string, baseSeconds int64) error
	UpdateEventReduction(ctx context.Context, activity string, percent float64) error
}

// Registry is the shared, read-mostly cooldown table. Reads take the read
// lock only; administrative writes persist first, then swap the in-memory
// definition under the write lock so no reader observes a torn update.
type Registry struct {
	mu   sync.RWMutex
	defs map[game.Activity]Definition
	repo Repository
}

// NewRegistry seeds missing definitions from game.DefaultBaseSeconds and
// loads the full table into memory.
func NewRegistry(ctx context.Context, repo Repository) (*Registry, error) {
	seed := make([]*models.Cooldown, 0, len(game.All))
	for _, activity := range game.All {
		seed = append(seed, &models.Cooldown{
			Activity:    string(activity),
			BaseSeconds: game.DefaultBaseSeconds[activity],
		})
	}
	if err := repo.Seed(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to seed cooldowns: %w", err)
	}

	rows, err := repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cooldowns: %w", err)
	}

	defs := make(map[game.Activity]Definition, len(rows))
	for _, row := range rows {
		defs[game.Activity(row.Activity)] = Definition{
			Activity:       game.Activity(row.Activity),
			BaseSeconds:    row.BaseSeconds,
			EventReduction: row.EventReduction,
		}
	}
	return &Registry{defs: defs, repo: repo}, nil
}

// Get returns the definition for an activity.
func (r *Registry) Get(activity game.Activity) (Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[activity]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %s", ErrUnknownActivity, activity)
	}
	return def, nil
}

// All returns a snapshot of every definition, ordered by activity name.
func (r *Registry) All() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Activity < out[j].Activity })
	return out
}

// ActualCooldown computes the effective cooldown for an activity and donor
// tier: event reduction first, then the tier discount.
func (r *Registry) ActualCooldown(activity game.Activity, donorTier int) (time.Duration, error) {
	def, err := r.Get(activity)
	if err != nil {
		return 0, err
	}
	return time.Duration(def.ActualSeconds(donorTier)) * time.Second, nil
}

// SetBase updates the base cooldown of an activity. The write is persisted
// before the in-memory table is swapped.
func (r *Registry) SetBase(ctx context.Context, activity game.Activity, seconds int64) error {
	if seconds <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBase, seconds)
	}
	if _, err := r.Get(activity); err != nil {
		return err
	}
	if err := r.repo.UpdateBase(ctx, string(activity), seconds); err != nil {
		return fmt.Errorf("failed to persist base cooldown: %w", err)
	}

	r.mu.Lock()
	def := r.defs[activity]
	def.BaseSeconds = seconds
	r.defs[activity] = def
	r.mu.Unlock()
	return nil
}

// SetEventReduction updates the event-wide percentage reduction of an
// activity. Out-of-range input is rejected before any mutation.
func (r *Registry) SetEventReduction(ctx context.Context, activity game.Activity, percent float64) error {
	if percent < 0 || percent > 99 {
		return fmt.Errorf("%w: %.1f", ErrInvalidReduction, percent)
	}
	if _, err := r.Get(activity); err != nil {
		return err
	}
	if err := r.repo.UpdateEventReduction(ctx, string(activity), percent); err != nil {
		return fmt.Errorf("failed to persist event reduction: %w", err)
	}

	r.mu.Lock()
	def := r.defs[activity]
	def.EventReduction = percent
	r.defs[activity] = def
	r.mu.Unlock()
	return nil
}

// ResetEventReductions sets every activity's event reduction back to zero.
func (r *Registry) ResetEventReductions(ctx context.Context) error {
	for _, def := range r.All() {
		if def.EventReduction == 0 {
			continue
		}
		if err := r.SetEventReduction(ctx, def.Activity, 0); err != nil {
			return err
		}
	}
	return nil
}
