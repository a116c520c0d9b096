package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Reminder is one outstanding timer. At most one row exists per
// (user_id, activity); the unique index enforcing that is created during
// schema initialization.
type Reminder struct {
	bun.BaseModel `bun:"table:reminders,alias:r"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id,notnull"`
	Activity  string    `bun:"activity,notnull"`
	EndTime   time.Time `bun:"end_time,notnull"`
	ChannelID string    `bun:"channel_id,notnull"`
	Message   string    `bun:"message,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
