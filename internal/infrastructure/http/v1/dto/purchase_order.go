package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseOrderRequest opens a new draft order.
type CreatePurchaseOrderRequest struct {
	SupplierID  string `json:"supplierId" binding:"required"`
	WarehouseID string `json:"warehouseId" binding:"required"`
}

// OrderLineRequest adds or replaces one draft line.
type OrderLineRequest struct {
	ItemID   string          `json:"itemId" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost decimal.Decimal `json:"unitCost" binding:"required"`
}

// RejectRequest carries the mandatory rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelRequest carries an optional cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason"`
}

// ReceiveLineRequest is one received line of a delivery.
type ReceiveLineRequest struct {
	ItemID      string          `json:"itemId" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	BatchNumber string          `json:"batchNumber"`
	ExpiresAt   *time.Time      `json:"expiresAt"`
}

// ReceiveRequest records one receiving event against a sent order.
type ReceiveRequest struct {
	Notes string               `json:"notes"`
	Lines []ReceiveLineRequest `json:"lines" binding:"required,min=1,dive"`
}
