package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncRecord is the audit row for one reconciliation attempt
type SyncRecord struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	GuildID   string    `gorm:"column:guild_id;index;not null"`
	DiscordID string    `gorm:"column:discord_id;index;not null"`
	Arm       string    `gorm:"column:arm;type:varchar(20);not null"`
	Outcome   string    `gorm:"column:outcome;type:varchar(30);not null"`
	Detail    string    `gorm:"column:detail"`
	Trigger   string    `gorm:"column:trigger_source;type:varchar(20);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (SyncRecord) TableName() string {
	return "sync_records"
}

// BeforeCreate generates the row id app-side so the model migrates on both
// Postgres and the sqlite test harness
func (r *SyncRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
