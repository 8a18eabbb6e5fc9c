package repositories

import (
	"context"
	"fmt"

	models "aethex/emissary/internal/models/gorm"

	"gorm.io/gorm"
)

// SyncHistoryRepo persists per-reconciliation audit rows
type SyncHistoryRepo struct {
	db *gorm.DB
}

// NewSyncHistoryRepo creates a new sync history repository
func NewSyncHistoryRepo(db *gorm.DB) *SyncHistoryRepo {
	return &SyncHistoryRepo{db: db}
}

// Record writes one audit row for a reconciliation attempt
func (r *SyncHistoryRepo) Record(ctx context.Context, rec *models.SyncRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to record sync outcome: %w", err)
	}
	return nil
}

// GetByDiscordID retrieves the most recent sync rows for a member, newest first
func (r *SyncHistoryRepo) GetByDiscordID(ctx context.Context, discordID string, limit int) ([]models.SyncRecord, error) {
	var records []models.SyncRecord

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	err := r.db.WithContext(ctx).
		Where("discord_id = ?", discordID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch sync history: %w", err)
	}

	return records, nil
}

// GetByGuild retrieves recent sync rows for one guild
func (r *SyncHistoryRepo) GetByGuild(ctx context.Context, guildID string, limit int) ([]models.SyncRecord, error) {
	var records []models.SyncRecord

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to fetch guild sync history: %w", err)
	}

	return records, nil
}
