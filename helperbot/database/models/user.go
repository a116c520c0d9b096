package models

import (
	"time"

	"github.com/disgoorg/rpg-helper/helperbot/game"
	"github.com/uptrace/bun"
)

// DefaultAlertMessage is the reminder template used until a user customizes
// one. The {command} placeholder is substituted at send time.
const DefaultAlertMessage = "Hey! It's time for {command}!"

// AlertSetting is one per-activity reminder toggle plus its message template.
type AlertSetting struct {
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

// User holds the per-user helper settings consulted by the message pipeline.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement"`
	DiscordID string `bun:"discord_id,notnull,unique"`

	BotEnabled            bool `bun:"bot_enabled,notnull,default:true"`
	ReactionsEnabled      bool `bun:"reactions_enabled,notnull,default:true"`
	DNDMode               bool `bun:"dnd_mode,notnull,default:false"`
	PingAfterMessage      bool `bun:"ping_after_message,notnull,default:false"`
	ContextHelperEnabled  bool `bun:"context_helper_enabled,notnull,default:true"`
	PetHelperEnabled      bool `bun:"pet_helper_enabled,notnull,default:true"`
	MegaraceHelperEnabled bool `bun:"megarace_helper_enabled,notnull,default:true"`
	SlashMode             bool `bun:"slash_mode,notnull,default:true"`

	DonorTier        int `bun:"donor_tier,notnull,default:0"`
	PartnerDonorTier int `bun:"partner_donor_tier,notnull,default:0"`

	// Last-used command variants, echoed back in reminder suggestions.
	LastHuntMode        string `bun:"last_hunt_mode"`
	LastAdventureMode   string `bun:"last_adventure_mode"`
	LastTrainingCommand string `bun:"last_training_command,notnull,default:'training'"`
	LastQuestCommand    string `bun:"last_quest_command,notnull,default:'quest'"`
	LastWorkCommand     string `bun:"last_work_command"`
	LastFarmSeed        string `bun:"last_farm_seed"`
	LastLootbox         string `bun:"last_lootbox"`

	// Per-activity alert settings stored as JSONB, keyed by activity name.
	Alerts map[string]AlertSetting `bun:"alerts,type:jsonb"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Alert returns the alert setting for an activity, falling back to an
// enabled default template when the user never customized it.
func (u *User) Alert(activity game.Activity) AlertSetting {
	if s, ok := u.Alerts[string(activity)]; ok {
		if s.Message == "" {
			s.Message = DefaultAlertMessage
		}
		return s
	}
	return AlertSetting{Enabled: true, Message: DefaultAlertMessage}
}

// SetAlert stores an alert setting for an activity.
func (u *User) SetAlert(activity game.Activity, setting AlertSetting) {
	if u.Alerts == nil {
		u.Alerts = make(map[string]AlertSetting)
	}
	u.Alerts[string(activity)] = setting
}
