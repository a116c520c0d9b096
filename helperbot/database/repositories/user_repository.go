package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"

	"github.com/disgoorg/rpg-helper/helperbot/database/models"
)

// ErrFirstTimeUser reports a lookup for a user who never registered with
// the helper. The pipeline treats these messages as not ours to handle.
var ErrFirstTimeUser = errors.New("repositories: user not registered")

const userCacheSize = 2048

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByDiscordID(ctx context.Context, discordID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, discordID string) error
}

type userRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewUserRepository(db *bun.DB) UserRepository {
	cache, _ := lru.New(userCacheSize)
	return &userRepository{db: db, cache: cache}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(user).
		On("CONFLICT (discord_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}
	r.cache.Remove(user.DiscordID)
	return nil
}

// GetByDiscordID reads through a small LRU cache. The settings lookup sits
// on the hot path of every classified message.
func (r *userRepository) GetByDiscordID(ctx context.Context, discordID string) (*models.User, error) {
	if cached, ok := r.cache.Get(discordID); ok {
		copied := *cached.(*models.User)
		return &copied, nil
	}

	user := new(models.User)
	err := r.db.NewSelect().
		Model(user).
		Where("discord_id = ?", discordID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFirstTimeUser
		}
		slog.Error("Failed to load user",
			slog.String("type", "db"),
			slog.String("operation", "GetByDiscordID"),
			slog.String("discord_id", discordID),
			slog.Any("error", err))
		return nil, err
	}

	copied := *user
	r.cache.Add(discordID, &copied)
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	r.cache.Remove(user.DiscordID)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, discordID string) error {
	_, err := r.db.NewDelete().
		Model((*models.User)(nil)).
		Where("discord_id = ?", discordID).
		Exec(ctx)
	if err != nil {
		return err
	}
	r.cache.Remove(discordID)
	return nil
}
