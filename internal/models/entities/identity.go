package entities

import (
	"time"

	"aethex/emissary/internal/constants"
)

// LinkedIdentity ties a Discord account to an AeThex passport.
// Exactly one primary arm is held per identity at a time.
type LinkedIdentity struct {
	ID            string        `db:"id"`
	PassportID    string        `db:"passport_id"`
	DiscordID     *string       `db:"discord_id"`
	PrimaryArm    constants.Arm `db:"primary_arm"`
	VerifyCode    *string       `db:"verify_code"`
	CodeExpiresAt *time.Time    `db:"code_expires_at"`
	IsActive      bool          `db:"is_active"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// Linked reports whether the identity has completed verification
func (i *LinkedIdentity) Linked() bool {
	return i.DiscordID != nil && *i.DiscordID != ""
}
