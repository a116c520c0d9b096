package helperbot

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/disgoorg/rpg-helper/helperbot/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log   LogConfig         `toml:"log"`
	Bot   BotConfig         `toml:"bot"`
	DB    database.DBConfig `toml:"db"`
	Mongo MongoConfig       `toml:"mongo"`
	Game  GameConfig        `toml:"game"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`

	// AdminIDs gates the operator commands (event reductions, cooldown
	// setup, time skips).
	AdminIDs []snowflake.ID `toml:"admin_ids"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// MongoConfig points at the optional diagnostics store. An empty URI
// disables it.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// GameConfig identifies the game bot being observed and tunes replies.
type GameConfig struct {
	// BotID is the game bot's application ID; only its messages enter the
	// classification pipeline.
	BotID snowflake.ID `toml:"bot_id"`

	// Prefix is the game's text-command prefix used when rendering
	// non-slash command suggestions.
	Prefix string `toml:"prefix"`

	// AckEmoji confirms a reminder was armed; WarningEmoji marks messages
	// the pipeline matched but could not fully process.
	AckEmoji     string `toml:"ack_emoji"`
	WarningEmoji string `toml:"warning_emoji"`

	// MaxConcurrentMessages bounds the in-flight pipeline goroutines.
	MaxConcurrentMessages int64 `toml:"max_concurrent_messages"`
}
