package model

// SyncStatus is the ephemeral display state of the sync manager. It is never
// persisted; after a run it always decays back to idle.
type SyncStatus string

const (
	SyncIdle    SyncStatus = "idle"
	SyncSyncing SyncStatus = "syncing"
	SyncSuccess SyncStatus = "success"
	SyncError   SyncStatus = "error"
)
