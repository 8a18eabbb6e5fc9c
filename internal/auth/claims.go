package auth

// UserClaims is the common identity surface handlers read from the request
// context, regardless of whether the call arrived with an API key (bot) or a
// platform-issued JWT.
type UserClaims interface {
	Subject() string
	Source() string
	DiscordUserID() string
	DiscordGuildID() string
	IsAdmin() bool
}

// JWTClaims carries identity parsed from a platform bearer token
type JWTClaims struct {
	SubjectID string
	AdminFlag bool
}

func (c *JWTClaims) Subject() string        { return c.SubjectID }
func (c *JWTClaims) Source() string         { return "JWT" }
func (c *JWTClaims) DiscordUserID() string  { return "" }
func (c *JWTClaims) DiscordGuildID() string { return "" }
func (c *JWTClaims) IsAdmin() bool          { return c.AdminFlag }

// APIKeyClaims carries identity forwarded by the bot with an API key
type APIKeyClaims struct {
	KeyLabel      string
	DiscordUIDVal string
	DiscordGIDVal string
}

func (c *APIKeyClaims) Subject() string        { return c.KeyLabel }
func (c *APIKeyClaims) Source() string         { return "API_KEY" }
func (c *APIKeyClaims) DiscordUserID() string  { return c.DiscordUIDVal }
func (c *APIKeyClaims) DiscordGuildID() string { return c.DiscordGIDVal }
func (c *APIKeyClaims) IsAdmin() bool          { return true }
