package dto

import (
	"github.com/shopspring/decimal"
)

// RequisitionLineRequest is one requested line.
type RequisitionLineRequest struct {
	ItemID   string          `json:"itemId" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateRequisitionRequest opens a new transfer request between two
// warehouses of the caller's property.
type CreateRequisitionRequest struct {
	SourceWarehouseID string                   `json:"sourceWarehouseId" binding:"required"`
	DestWarehouseID   string                   `json:"destWarehouseId" binding:"required"`
	Lines             []RequisitionLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// FulfillLineRequest is one issued line of a fulfillment event.
type FulfillLineRequest struct {
	ItemID   string          `json:"itemId" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// FulfillRequest records one fulfillment event against an approved
// requisition.
type FulfillRequest struct {
	Lines []FulfillLineRequest `json:"lines" binding:"required,min=1,dive"`
}
