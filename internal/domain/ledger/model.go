// Package ledger provides the stock ledger: per (item, warehouse) quantity
// and weighted-average cost, backed by an immutable movement log.
//
// All other components write through this package. Every mutating operation
// is designed to run inside the caller's transaction together with the
// caller's own writes; nothing here commits on its own.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/core/id"
)

// MovementType defines the kind of ledger entry.
type MovementType string

const (
	MovementReceipt     MovementType = "RECEIPT"
	MovementTransferOut MovementType = "TRANSFER_OUT"
	MovementTransferIn  MovementType = "TRANSFER_IN"
)

// ReferenceType identifies the workflow object that caused a movement.
type ReferenceType string

const (
	RefPurchaseOrder ReferenceType = "purchase_order"
	RefRequisition   ReferenceType = "requisition"
)

// Reference points at the causing workflow object.
type Reference struct {
	Type ReferenceType
	ID   id.ID
}

// StockLevel is the mutable ledger row for one (item, warehouse) pair.
// Created lazily on first inbound movement; never deleted. A level at zero
// quantity retains its last average cost so future receipts have a sane
// cost basis.
type StockLevel struct {
	ItemID      id.ID `db:"item_id" json:"itemId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	// Quantity is always >= 0.
	Quantity decimal.Decimal `db:"quantity" json:"quantity"`

	// AverageCost is the blended per-unit cost of the held quantity.
	AverageCost decimal.Decimal `db:"average_cost" json:"averageCost"`

	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// StockMovement is an immutable, append-only ledger entry. Movements are
// never updated or deleted: they are the audit trail and the only way
// quantities can be reconstructed independently of StockLevel.
type StockMovement struct {
	ID id.ID `db:"id" json:"id"`

	Type   MovementType `db:"type" json:"type"`
	ItemID id.ID        `db:"item_id" json:"itemId"`

	// SourceWarehouseID is set for TRANSFER_OUT/TRANSFER_IN.
	SourceWarehouseID *id.ID `db:"source_warehouse_id" json:"sourceWarehouseId,omitempty"`

	// DestWarehouseID is set for RECEIPT and TRANSFER_IN.
	DestWarehouseID *id.ID `db:"dest_warehouse_id" json:"destWarehouseId,omitempty"`

	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
	UnitCost  decimal.Decimal `db:"unit_cost" json:"unitCost"`
	TotalCost decimal.Decimal `db:"total_cost" json:"totalCost"`

	// Reference to the causing workflow object.
	RefType ReferenceType `db:"ref_type" json:"refType"`
	RefID   id.ID         `db:"ref_id" json:"refId"`

	CreatedBy string    `db:"created_by" json:"createdBy"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// SignedQuantity returns the quantity with direction applied for the given
// warehouse: outbound movements count negative.
func (m *StockMovement) SignedQuantity(warehouseID id.ID) decimal.Decimal {
	if m.Type == MovementTransferOut && m.SourceWarehouseID != nil && *m.SourceWarehouseID == warehouseID {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// StockBatch is an optional lot record created when a receipt specifies a
// batch number. Used for traceability and expiry, not for costing.
type StockBatch struct {
	ID          id.ID `db:"id" json:"id"`
	ItemID      id.ID `db:"item_id" json:"itemId"`
	WarehouseID id.ID `db:"warehouse_id" json:"warehouseId"`

	BatchNumber string          `db:"batch_number" json:"batchNumber"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitCost    decimal.Decimal `db:"unit_cost" json:"unitCost"`

	ExpiresAt *time.Time `db:"expires_at" json:"expiresAt,omitempty"`

	// RefID links the batch to the receipt that created it.
	RefID id.ID `db:"ref_id" json:"refId"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
