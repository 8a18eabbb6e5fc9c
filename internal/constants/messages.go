package constants

const (
	StatusError            = "Error"
	StatusAlreadyLinked    = "Discord account already linked"
	StatusCodeExpired      = "Verification code expired"
	StatusCodeInvalid      = "Verification code did not match"
	StatusIdentityNotFound = "No AeThex passport found for Discord account"
	StatusInsertFailed     = "Unable to insert"
	StatusVerifyInit       = "Unable to initialise verification"
	StatusLinked           = "Passport has been linked"
)

const (
	MsgNotLinked        = "Your Discord account is not linked to an AeThex passport. Use /verify first."
	MsgUnknownArm       = "That realm is not one of the AeThex arms."
	MsgNoMapping        = "No role is configured for that arm on this server. Ask an admin to add one."
	MsgRoleMissing      = "The configured role no longer exists on this server. Ask an admin to fix the mapping."
	MsgSyncRetryLater   = "Something went wrong talking to Discord. Please try again in a minute."
	MsgDuplicateRequest = "Duplicate verification request!"
)
