package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold applies when a new item does not specify one.
const DefaultLowStockThreshold = 5

// InventoryItem is a locally owned inventory record. Dirty=true means the
// record carries local mutations not yet confirmed by the remote authority;
// only a successful sync run may clear it.
type InventoryItem struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"index;not null" json:"name"`
	SKU     string    `gorm:"index;not null" json:"sku"`
	Barcode string    `gorm:"index" json:"barcode,omitempty"`
	// Quantity is units on hand — never negative.
	Quantity          int             `gorm:"not null;default:0" json:"quantity"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	LowStockThreshold int             `gorm:"not null;default:5" json:"low_stock_threshold"`
	Dirty             bool            `gorm:"not null;default:true" json:"dirty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// LowStock reports whether the item is at or below its threshold.
func (i InventoryItem) LowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}
