package discord

import "context"

// Role is one guild role as seen at reconciliation time
type Role struct {
	ID   string
	Name string
}

// Member is a guild member snapshot. RoleIDs is live provider state; it is
// never cached beyond a single reconciliation call.
type Member struct {
	ID      string
	RoleIDs []string
}

// HasRole reports whether the member currently holds roleID
func (m *Member) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// MembershipProvider is the guild membership surface the reconciler consumes.
// Every method is a network call and may fail independently; absence of a
// member is reported as (nil, nil), not an error.
type MembershipProvider interface {
	// GuildIDs lists the guilds the bot currently has a presence in
	GuildIDs() []string

	// Member resolves a member within a guild. Returns (nil, nil) when the
	// account is not a member of that guild.
	Member(ctx context.Context, guildID, memberID string) (*Member, error)

	// GuildRoles returns the guild's live role catalog
	GuildRoles(ctx context.Context, guildID string) ([]Role, error)

	AddRole(ctx context.Context, guildID, memberID, roleID string) error
	RemoveRole(ctx context.Context, guildID, memberID, roleID string) error
}
