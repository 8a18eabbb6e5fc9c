package responses

import "time"

// GuildSyncResult is one guild's reconciliation outcome
type GuildSyncResult struct {
	GuildID string `json:"guild_id"`
	Outcome string `json:"outcome"`
	RoleID  string `json:"role_id,omitempty"`
	Removed int    `json:"removed"`
}

// SyncSummary is the response for a member sync request
type SyncSummary struct {
	DiscordID string            `json:"discord_id"`
	Arm       string            `json:"arm"`
	Synced    int               `json:"synced"`
	Attempted int               `json:"attempted"`
	Guilds    []GuildSyncResult `json:"guilds"`
}

// MappingResponse is one role mapping row
type MappingResponse struct {
	GuildID   string    `json:"guild_id"`
	Arm       string    `json:"arm"`
	RoleRef   string    `json:"role_ref"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SyncHistoryEntry is one audit row
type SyncHistoryEntry struct {
	GuildID   string    `json:"guild_id"`
	Arm       string    `json:"arm"`
	Outcome   string    `json:"outcome"`
	Trigger   string    `json:"trigger"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IdentityResponse is the linkage state for one Discord account
type IdentityResponse struct {
	PassportID string `json:"passport_id"`
	DiscordID  string `json:"discord_id,omitempty"`
	PrimaryArm string `json:"primary_arm"`
	Linked     bool   `json:"linked"`
}

// VerifyCodeResponse returns a freshly issued verification code
type VerifyCodeResponse struct {
	Code      string `json:"code"`
	ExpiresIn int    `json:"expires_in"`
}
