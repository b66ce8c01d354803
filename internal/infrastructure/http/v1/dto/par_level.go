package dto

import (
	"github.com/shopspring/decimal"
)

// SetParLevelRequest configures the par level for one item in a warehouse.
type SetParLevelRequest struct {
	ItemID              string          `json:"itemId" binding:"required"`
	Par                 decimal.Decimal `json:"par" binding:"required"`
	PreferredSupplierID *string         `json:"preferredSupplierId"`
}
