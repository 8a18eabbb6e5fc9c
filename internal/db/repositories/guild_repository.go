package repositories

import (
	"context"
	"fmt"

	models "aethex/emissary/internal/models/gorm"

	"gorm.io/gorm"
)

// GuildRepository manages guild registration rows with GORM
type GuildRepository struct {
	db *gorm.DB
}

// NewGuildRepository creates a new guild repository
func NewGuildRepository(db *gorm.DB) *GuildRepository {
	return &GuildRepository{db: db}
}

// GetByDiscordID retrieves a guild row by its Discord guild id
func (r *GuildRepository) GetByDiscordID(ctx context.Context, discordGuildID string) (*models.Guild, error) {
	var guild models.Guild

	err := r.db.WithContext(ctx).
		Where("discord_guild_id = ?", discordGuildID).
		First(&guild).Error

	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("guild is not registered")
		}
		return nil, fmt.Errorf("failed to fetch guild: %w", err)
	}

	return &guild, nil
}

// GetAllActive retrieves all active guilds
func (r *GuildRepository) GetAllActive(ctx context.Context) ([]models.Guild, error) {
	var guilds []models.Guild

	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&guilds).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch guilds: %w", err)
	}

	return guilds, nil
}

// Upsert registers a guild or refreshes its display name
func (r *GuildRepository) Upsert(ctx context.Context, discordGuildID, name string) error {
	guild := models.Guild{
		DiscordID: discordGuildID,
		Name:      name,
		IsActive:  true,
	}

	err := r.db.WithContext(ctx).
		Where("discord_guild_id = ?", discordGuildID).
		Assign(models.Guild{Name: name, IsActive: true}).
		FirstOrCreate(&guild).Error

	if err != nil {
		return fmt.Errorf("failed to upsert guild: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a guild row when the bot leaves
func (r *GuildRepository) Deactivate(ctx context.Context, discordGuildID string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Guild{}).
		Where("discord_guild_id = ?", discordGuildID).
		Update("is_active", false).Error

	if err != nil {
		return fmt.Errorf("failed to deactivate guild: %w", err)
	}
	return nil
}
