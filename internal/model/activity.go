package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityAction enumerates the auditable user actions.
type ActivityAction string

const (
	ActionItemCreated       ActivityAction = "item_created"
	ActionItemUpdated       ActivityAction = "item_updated"
	ActionItemDeleted       ActivityAction = "item_deleted"
	ActionQuantityAdjusted  ActivityAction = "quantity_adjusted"
	ActionUserLogin         ActivityAction = "user_login"
	ActionUserLogout        ActivityAction = "user_logout"
	ActionAlertAcknowledged ActivityAction = "alert_acknowledged"
	ActionAlertCleared      ActivityAction = "alert_cleared"
)

// ActivityEntry is an immutable, append-only audit record. The acting user is
// denormalized at write time so the log survives user edits and deletions.
type ActivityEntry struct {
	ID       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	UserName string         `gorm:"not null" json:"user_name"`
	Action   ActivityAction `gorm:"type:varchar(30);not null;index" json:"action"`
	Details  string         `gorm:"not null" json:"details"`
	Metadata map[string]any `gorm:"serializer:json" json:"metadata,omitempty"`
	// Timestamp is the authoritative order; display order is newest-first.
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}
