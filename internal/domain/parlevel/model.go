package parlevel

import (
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/core/id"
)

// ParLevel is a configured minimum quantity threshold per item and warehouse.
// When the ledger quantity drops below Par the advisor suggests reordering.
type ParLevel struct {
	ItemID              id.ID           `db:"item_id" json:"itemId"`
	WarehouseID         id.ID           `db:"warehouse_id" json:"warehouseId"`
	Par                 decimal.Decimal `db:"par" json:"par"`
	PreferredSupplierID *id.ID          `db:"preferred_supplier_id" json:"preferredSupplierId,omitempty"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updatedAt"`
}

// Suggestion is one reorder recommendation for an item below its par level.
type Suggestion struct {
	ItemID              id.ID           `json:"itemId"`
	WarehouseID         id.ID           `json:"warehouseId"`
	Par                 decimal.Decimal `json:"par"`
	Current             decimal.Decimal `json:"current"`
	Suggested           decimal.Decimal `json:"suggested"`
	PreferredSupplierID *id.ID          `json:"preferredSupplierId,omitempty"`
}
