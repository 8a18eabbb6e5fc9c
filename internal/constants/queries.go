package constants

const (
	GetIdentityByDiscordId = `
	SELECT * FROM linked_identities WHERE discord_id = $1
	`

	GetRoleMappingsForGuild = `
	SELECT * FROM role_mappings WHERE guild_id = $1 ORDER BY arm ASC
	`

	UpsertRoleMapping = `
	INSERT INTO role_mappings (guild_id, arm, role_ref)
	VALUES ($1, $2, $3)
	ON CONFLICT (guild_id, arm)
	DO UPDATE SET role_ref = EXCLUDED.role_ref, updated_at = NOW()
	RETURNING id, created_at, updated_at
	`

	DeleteRoleMapping = `
	DELETE FROM role_mappings WHERE guild_id = $1 AND arm = $2
	`

	GetStatusByApiKey = `
	SELECT id, label, status FROM api_keys WHERE id = $1
	`

	InsertIdentity = `
	INSERT INTO linked_identities (passport_id, primary_arm, verify_code, code_expires_at, is_active)
	VALUES ($1, $2, $3, $4, true)
	RETURNING id, created_at, updated_at
	`

	LinkIdentityDiscord = `
	UPDATE linked_identities
	SET discord_id = $2, verify_code = NULL, code_expires_at = NULL, updated_at = NOW()
	WHERE id = $1
	`

	SetIdentityArm = `
	UPDATE linked_identities SET primary_arm = $2, updated_at = NOW() WHERE discord_id = $1
	`

	SetIdentityVerifyCode = `
	UPDATE linked_identities
	SET verify_code = $2, code_expires_at = $3, updated_at = NOW()
	WHERE passport_id = $1
	`

	GetIdentityByVerifyCode = `
	SELECT * FROM linked_identities WHERE verify_code = $1 AND is_active = true
	`

	GetActiveLinkedIdentities = `
	SELECT * FROM linked_identities WHERE discord_id IS NOT NULL AND is_active = true
	`
)
