package gorm

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Guild struct {
	ID        string    `gorm:"column:id;primaryKey;type:uuid"`
	DiscordID string    `gorm:"column:discord_guild_id;uniqueIndex"`
	Name      string    `gorm:"column:name"`
	IsActive  bool      `gorm:"column:is_active;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	SyncRecords []SyncRecord `gorm:"foreignKey:GuildID;references:DiscordID"`
}

// TableName specifies the table name for GORM
func (Guild) TableName() string {
	return "guilds"
}

// BeforeCreate generates the row id app-side so the model migrates on both
// Postgres and the sqlite test harness
func (g *Guild) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}
