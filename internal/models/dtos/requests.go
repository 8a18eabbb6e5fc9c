package dtos

// UpsertMappingRequest sets the role for one (guild, arm)
type UpsertMappingRequest struct {
	RoleRef string `json:"role_ref"`
}

// SyncMemberRequest triggers a reconciliation for one member. Arm is
// optional; when empty the linked identity's primary arm is used.
type SyncMemberRequest struct {
	Arm   string `json:"arm,omitempty"`
	Defer bool   `json:"defer,omitempty"`
}

// CreateIdentityRequest registers a passport pending verification
type CreateIdentityRequest struct {
	PassportID string `json:"passport_id"`
	PrimaryArm string `json:"primary_arm"`
}
