package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Cooldown is the persisted definition for one activity: the base length in
// seconds and the event-wide percentage reduction currently applied to it.
type Cooldown struct {
	bun.BaseModel `bun:"table:cooldowns,alias:cd"`

	Activity       string  `bun:"activity,pk"`
	BaseSeconds    int64   `bun:"base_seconds,notnull"`
	EventReduction float64 `bun:"event_reduction,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
