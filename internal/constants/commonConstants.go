package constants

type (
	RequestSource string
	APIStatus     string
	CachePrefix   string
)

const (
	RequestSourceAPI RequestSource = "API"
	RequestSourceBot RequestSource = "BOT"

	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixRoleMappings = "RM_"
	CachePrefixGuildConfig  = "GUILD_"
	CachePrefixIdentity     = "IDENT_"
)

// RoleRefreshStream is the Redis stream carrying queued member refreshes
const RoleRefreshStream = "role_refresh"
