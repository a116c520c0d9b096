package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/game/cooldowns"
)

// CooldownRepository persists the cooldown registry's definitions.
type CooldownRepository struct {
	db *bun.DB
}

func NewCooldownRepository(db *bun.DB) *CooldownRepository {
	return &CooldownRepository{db: db}
}

var _ cooldowns.Repository = (*CooldownRepository)(nil)

func (r *CooldownRepository) GetAll(ctx context.Context) ([]*models.Cooldown, error) {
	var rows []*models.Cooldown
	err := r.db.NewSelect().
		Model(&rows).
		Order("activity ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Seed inserts missing definitions and leaves existing rows untouched, so
// operator overrides survive restarts.
func (r *CooldownRepository) Seed(ctx context.Context, defs []*models.Cooldown) error {
	if len(defs) == 0 {
		return nil
	}
	now := time.Now()
	for _, def := range defs {
		def.CreatedAt = now
		def.UpdatedAt = now
	}
	_, err := r.db.NewInsert().
		Model(&defs).
		On("CONFLICT (activity) DO NOTHING").
		Exec(ctx)
	return err
}

func (r *CooldownRepository) UpdateBase(ctx context.Context, activity string, baseSeconds int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Cooldown)(nil)).
		Set("base_seconds = ?", baseSeconds).
		Set("updated_at = ?", time.Now()).
		Where("activity = ?", activity).
		Exec(ctx)
	return err
}

func (r *CooldownRepository) UpdateEventReduction(ctx context.Context, activity string, percent float64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Cooldown)(nil)).
		Set("event_reduction = ?", percent).
		Set("updated_at = ?", time.Now()).
		Where("activity = ?", activity).
		Exec(ctx)
	return err
}
