package model

import (
	"time"

	"github.com/google/uuid"
)

// AlertSeverity: "critical" when the item hit zero stock, "warning" otherwise.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "warning"
	SeverityCritical AlertSeverity = "critical"
)

// LowStockAlert flags that an item dipped to or below its threshold.
// CurrentQuantity and Threshold are snapshots taken at alert creation —
// they do NOT track the live item.
type LowStockAlert struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID          uuid.UUID     `gorm:"type:uuid;index;not null" json:"item_id"`
	ItemName        string        `gorm:"not null" json:"item_name"`
	CurrentQuantity int           `gorm:"not null" json:"current_quantity"`
	Threshold       int           `gorm:"not null" json:"threshold"`
	Severity        AlertSeverity `gorm:"type:varchar(10);not null" json:"severity"`
	Acknowledged    bool          `gorm:"not null;default:false" json:"acknowledged"`
	CreatedAt       time.Time     `json:"created_at"`
}
