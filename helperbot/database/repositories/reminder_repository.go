package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/disgoorg/rpg-helper/helperbot/database/models"
	"github.com/disgoorg/rpg-helper/helperbot/game/reminders"
)

// ReminderRepository persists the scheduler's state. The (user_id,
// activity) unique index makes Upsert an atomic overwrite.
type ReminderRepository struct {
	db *bun.DB
}

func NewReminderRepository(db *bun.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

var _ reminders.Repository = (*ReminderRepository)(nil)

func (r *ReminderRepository) Upsert(ctx context.Context, reminder *models.Reminder, overwrite bool) error {
	now := time.Now()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now

	if !overwrite {
		res, err := r.db.NewInsert().
			Model(reminder).
			On("CONFLICT (user_id, activity) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, _ := res.RowsAffected(); affected == 0 {
			return reminders.ErrReminderExists
		}
		return nil
	}

	_, err := r.db.NewInsert().
		Model(reminder).
		On("CONFLICT (user_id, activity) DO UPDATE").
		Set("end_time = EXCLUDED.end_time").
		Set("channel_id = EXCLUDED.channel_id").
		Set("message = EXCLUDED.message").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *ReminderRepository) Get(ctx context.Context, userID string, activity string) (*models.Reminder, error) {
	reminder := new(models.Reminder)
	err := r.db.NewSelect().
		Model(reminder).
		Where("user_id = ?", userID).
		Where("activity = ?", activity).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reminders.ErrNoReminder
	}
	if err != nil {
		return nil, err
	}
	return reminder, nil
}

func (r *ReminderRepository) UpdateEndTime(ctx context.Context, userID string, activity string, endTime time.Time) error {
	res, err := r.db.NewUpdate().
		Model((*models.Reminder)(nil)).
		Set("end_time = ?", endTime).
		Set("updated_at = ?", time.Now()).
		Where("user_id = ?", userID).
		Where("activity = ?", activity).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return reminders.ErrNoReminder
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, userID string, activity string) error {
	res, err := r.db.NewDelete().
		Model((*models.Reminder)(nil)).
		Where("user_id = ?", userID).
		Where("activity = ?", activity).
		Exec(ctx)
	if err != nil {
		return err
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return reminders.ErrNoReminder
	}
	return nil
}

// GetAllActive returns reminders ending after the given instant. The zero
// time returns everything, which is what restart recovery wants: past-due
// rows must still fire.
func (r *ReminderRepository) GetAllActive(ctx context.Context, after time.Time) ([]*models.Reminder, error) {
	var rows []*models.Reminder
	q := r.db.NewSelect().
		Model(&rows).
		Order("end_time ASC")
	if !after.IsZero() {
		q = q.Where("end_time > ?", after)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ReminderRepository) GetAllByUser(ctx context.Context, userID string) ([]*models.Reminder, error) {
	var rows []*models.Reminder
	err := r.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("end_time ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
