// Package procurement provides the purchase order workflow: the
// draft → approval → send → receive lifecycle that brings goods from a
// supplier into a warehouse through the stock ledger.
package procurement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/core/types"
)

// PurchaseOrder is the procurement document header. It owns its item rows;
// once any receipt exists the header and items are retained indefinitely for
// audit regardless of later cancellation.
type PurchaseOrder struct {
	ID id.ID `db:"id" json:"id"`

	// Number is the unique human-readable identifier (PO-YYYYMMDD-NNNN).
	Number string `db:"number" json:"number"`

	PropertyID  string `db:"property_id" json:"propertyId"`
	SupplierID  id.ID  `db:"supplier_id" json:"supplierId"`
	WarehouseID id.ID  `db:"warehouse_id" json:"warehouseId"`

	Status Status `db:"status" json:"status"`

	Subtotal decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax      decimal.Decimal `db:"tax" json:"tax"`
	Total    decimal.Decimal `db:"total" json:"total"`

	Notes string `db:"notes" json:"notes,omitempty"`

	CreatedBy  string `db:"created_by" json:"createdBy"`
	ApprovedBy string `db:"approved_by" json:"approvedBy,omitempty"`

	SubmittedAt *time.Time `db:"submitted_at" json:"submittedAt,omitempty"`
	ApprovedAt  *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	SentAt      *time.Time `db:"sent_at" json:"sentAt,omitempty"`

	// Version for optimistic locking
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Items []PurchaseOrderItem `db:"-" json:"items"`
}

// PurchaseOrderItem is one ordered line. ReceivedQty accumulates across
// receipts and never exceeds Quantity.
type PurchaseOrderItem struct {
	ID          id.ID           `db:"id" json:"id"`
	OrderID     id.ID           `db:"order_id" json:"orderId"`
	ItemID      id.ID           `db:"item_id" json:"itemId"`
	Quantity    decimal.Decimal `db:"quantity" json:"quantity"`
	UnitCost    decimal.Decimal `db:"unit_cost" json:"unitCost"`
	ReceivedQty decimal.Decimal `db:"received_qty" json:"receivedQty"`
}

// Remaining returns the quantity still receivable on this line.
func (i *PurchaseOrderItem) Remaining() decimal.Decimal {
	return i.Quantity.Sub(i.ReceivedQty)
}

// NewPurchaseOrder creates a DRAFT order with zero totals.
func NewPurchaseOrder(propertyID string, supplierID, warehouseID id.ID, createdBy string) *PurchaseOrder {
	now := time.Now().UTC()
	return &PurchaseOrder{
		ID:          id.New(),
		PropertyID:  propertyID,
		SupplierID:  supplierID,
		WarehouseID: warehouseID,
		Status:      StatusDraft,
		Subtotal:    decimal.Zero,
		Tax:         decimal.Zero,
		Total:       decimal.Zero,
		CreatedBy:   createdBy,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
		Items:       make([]PurchaseOrderItem, 0),
	}
}

// Validate checks header invariants.
func (po *PurchaseOrder) Validate(ctx context.Context) error {
	if po.PropertyID == "" {
		return apperror.NewValidation("property is required").
			WithDetail("field", "propertyId")
	}
	if id.IsNil(po.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	if id.IsNil(po.WarehouseID) {
		return apperror.NewValidation("warehouse is required").
			WithDetail("field", "warehouseId")
	}
	return nil
}

// FindItem returns the line for a stock item, or nil.
func (po *PurchaseOrder) FindItem(itemID id.ID) *PurchaseOrderItem {
	for idx := range po.Items {
		if po.Items[idx].ItemID == itemID {
			return &po.Items[idx]
		}
	}
	return nil
}

// RecalculateTotals recomputes subtotal and total from current lines.
// Tax stays whatever the presentation layer set (zero in this core).
func (po *PurchaseOrder) RecalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range po.Items {
		subtotal = subtotal.Add(types.LineTotal(item.Quantity, item.UnitCost))
	}
	po.Subtotal = types.RoundMoney(subtotal)
	po.Total = types.RoundMoney(po.Subtotal.Add(po.Tax))
}

// AllReceived reports whether every line is fully received.
func (po *PurchaseOrder) AllReceived() bool {
	if len(po.Items) == 0 {
		return false
	}
	for _, item := range po.Items {
		if item.ReceivedQty.LessThan(item.Quantity) {
			return false
		}
	}
	return true
}

// AnyReceived reports whether any line has been received at all.
func (po *PurchaseOrder) AnyReceived() bool {
	for _, item := range po.Items {
		if item.ReceivedQty.IsPositive() {
			return true
		}
	}
	return false
}

// Touch bumps the optimistic-lock version and the update timestamp.
func (po *PurchaseOrder) Touch() {
	po.Version++
	po.UpdatedAt = time.Now().UTC()
}

// AppendNote appends a line to the notes field.
func (po *PurchaseOrder) AppendNote(note string) {
	if note == "" {
		return
	}
	if po.Notes != "" {
		po.Notes += "\n"
	}
	po.Notes += note
}

// Receipt is one receiving event against an order. Immutable once created;
// many receipts may target one order.
type Receipt struct {
	ID         id.ID     `db:"id" json:"id"`
	OrderID    id.ID     `db:"order_id" json:"orderId"`
	ReceivedBy string    `db:"received_by" json:"receivedBy"`
	Notes      string    `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`

	Items []ReceiptItem `db:"-" json:"items"`
}

// ReceiptItem is one received line within a receiving event.
type ReceiptItem struct {
	ID        id.ID           `db:"id" json:"id"`
	ReceiptID id.ID           `db:"receipt_id" json:"receiptId"`
	ItemID    id.ID           `db:"item_id" json:"itemId"`
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`

	BatchNumber string     `db:"batch_number" json:"batchNumber,omitempty"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
}
