package entities

import (
	"time"

	"aethex/emissary/internal/constants"
)

// RoleMapping pins one Discord role per (guild, arm). RoleRef may be a
// platform role ID or an exact display name; resolution tries ID first.
type RoleMapping struct {
	ID        string        `db:"id"`
	GuildID   string        `db:"guild_id"`
	Arm       constants.Arm `db:"arm"`
	RoleRef   string        `db:"role_ref"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}
