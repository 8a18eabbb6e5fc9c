package constants

// Trigger sources for sync_records table
const (
	SyncTriggerVerify  = "VERIFY"
	SyncTriggerSetArm  = "SET_REALM"
	SyncTriggerRefresh = "REFRESH"
	SyncTriggerAdmin   = "ADMIN_API"
	SyncTriggerAudit   = "DRIFT_AUDIT"
)
