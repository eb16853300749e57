package dto

import "github.com/shopspring/decimal"

type CreateItemRequest struct {
	Name    string `json:"name" validate:"required"`
	SKU     string `json:"sku" validate:"required"`
	Barcode string `json:"barcode"`
	// Quantity and price are validated non-negative at the store boundary too;
	// the binding-level tags give callers field-specific messages.
	Quantity int             `json:"quantity" validate:"min=0"`
	Price    decimal.Decimal `json:"price" validate:"min=0"`
	// Nil means "use the default threshold".
	LowStockThreshold *int `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

type UpdateItemRequest struct {
	Name              string          `json:"name" validate:"required"`
	SKU               string          `json:"sku" validate:"required"`
	Barcode           string          `json:"barcode"`
	Quantity          int             `json:"quantity" validate:"min=0"`
	Price             decimal.Decimal `json:"price" validate:"min=0"`
	LowStockThreshold int             `json:"low_stock_threshold" validate:"min=0"`
}

type AdjustQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}
