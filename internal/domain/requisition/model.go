package requisition

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/core/types"
)

// Requisition is a request to move stock from a source warehouse to a
// destination warehouse within the same property. Fulfilling it produces
// paired transfer movements on the stock ledger.
type Requisition struct {
	ID                id.ID      `db:"id" json:"id"`
	Number            string     `db:"number" json:"number"`
	PropertyID        string     `db:"property_id" json:"propertyId"`
	SourceWarehouseID id.ID      `db:"source_warehouse_id" json:"sourceWarehouseId"`
	DestWarehouseID   id.ID      `db:"dest_warehouse_id" json:"destWarehouseId"`
	Status            Status     `db:"status" json:"status"`
	Notes             string     `db:"notes" json:"notes,omitempty"`
	RequestedBy       string     `db:"requested_by" json:"requestedBy"`
	ApprovedBy        string     `db:"approved_by" json:"approvedBy,omitempty"`
	ApprovedAt        *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	Version           int        `db:"version" json:"version"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`

	Items []RequisitionItem `db:"-" json:"items"`
}

// RequisitionItem is one requested line. FulfilledQty accumulates across
// fulfillment events and never exceeds Quantity.
type RequisitionItem struct {
	ID            id.ID           `db:"id" json:"id"`
	RequisitionID id.ID           `db:"requisition_id" json:"requisitionId"`
	ItemID        id.ID           `db:"item_id" json:"itemId"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	FulfilledQty  decimal.Decimal `db:"fulfilled_qty" json:"fulfilledQty"`
}

// Remaining returns the quantity still owed on this line.
func (i *RequisitionItem) Remaining() decimal.Decimal {
	return types.RoundQuantity(i.Quantity.Sub(i.FulfilledQty))
}

// RequestedLine is one line of a create request.
type RequestedLine struct {
	ItemID   id.ID
	Quantity decimal.Decimal
}

// NewRequisition builds a PENDING requisition with rounded line quantities.
func NewRequisition(propertyID string, sourceID, destID id.ID, requestedBy string, lines []RequestedLine) *Requisition {
	now := time.Now().UTC()
	req := &Requisition{
		ID:                id.New(),
		PropertyID:        propertyID,
		SourceWarehouseID: sourceID,
		DestWarehouseID:   destID,
		Status:            StatusPending,
		RequestedBy:       requestedBy,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
		Items:             make([]RequisitionItem, 0, len(lines)),
	}
	for _, line := range lines {
		req.Items = append(req.Items, RequisitionItem{
			ID:            id.New(),
			RequisitionID: req.ID,
			ItemID:        line.ItemID,
			Quantity:      types.RoundQuantity(line.Quantity),
			FulfilledQty:  decimal.Zero,
		})
	}
	return req
}

// Validate checks structural invariants of a new requisition.
func (r *Requisition) Validate(ctx context.Context) error {
	if r.PropertyID == "" {
		return apperror.NewValidation("property is required").WithDetail("field", "propertyId")
	}
	if id.IsNil(r.SourceWarehouseID) {
		return apperror.NewValidation("source warehouse is required").WithDetail("field", "sourceWarehouseId")
	}
	if id.IsNil(r.DestWarehouseID) {
		return apperror.NewValidation("destination warehouse is required").WithDetail("field", "destWarehouseId")
	}
	if r.SourceWarehouseID == r.DestWarehouseID {
		return apperror.NewValidation("source and destination warehouses must differ")
	}
	if r.RequestedBy == "" {
		return apperror.NewValidation("requester is required").WithDetail("field", "requestedBy")
	}
	if len(r.Items) == 0 {
		return apperror.NewValidation("at least one line item is required")
	}
	seen := make(map[id.ID]struct{}, len(r.Items))
	for _, line := range r.Items {
		if id.IsNil(line.ItemID) {
			return apperror.NewValidation("item is required").WithDetail("field", "itemId")
		}
		if !line.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("item_id", line.ItemID.String())
		}
		if _, dup := seen[line.ItemID]; dup {
			return apperror.NewDuplicate("requisition line", "item", line.ItemID.String())
		}
		seen[line.ItemID] = struct{}{}
	}
	return nil
}

// FindItem returns the line for itemID, or nil.
func (r *Requisition) FindItem(itemID id.ID) *RequisitionItem {
	for i := range r.Items {
		if r.Items[i].ItemID == itemID {
			return &r.Items[i]
		}
	}
	return nil
}

// AllFulfilled reports whether every line has been fully served.
func (r *Requisition) AllFulfilled() bool {
	if len(r.Items) == 0 {
		return false
	}
	for _, line := range r.Items {
		if line.FulfilledQty.LessThan(line.Quantity) {
			return false
		}
	}
	return true
}

// Touch advances the version and updated timestamp.
func (r *Requisition) Touch() {
	r.Version++
	r.UpdatedAt = time.Now().UTC()
}

// AppendNote adds a note line to the requisition.
func (r *Requisition) AppendNote(note string) {
	if r.Notes == "" {
		r.Notes = note
		return
	}
	r.Notes += "\n" + note
}
