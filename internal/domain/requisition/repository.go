package requisition

import (
	"context"
	"time"

	"innkeep/internal/core/id"
	"innkeep/pkg/numerator"
)

// ListFilter narrows requisition listings.
type ListFilter struct {
	PropertyID        string
	Status            *Status
	SourceWarehouseID *id.ID
	DestWarehouseID   *id.ID
	DateFrom          *time.Time
	DateTo            *time.Time
	Limit             int
	Offset            int
}

// Repository persists requisitions and their lines. GetForUpdate takes a row
// lock on the header and must run inside a transaction. The embedded
// numerator source serves date-scoped requisition numbers.
type Repository interface {
	numerator.Source

	Create(ctx context.Context, req *Requisition) error
	GetByID(ctx context.Context, reqID id.ID) (*Requisition, error)
	GetForUpdate(ctx context.Context, reqID id.ID) (*Requisition, error)
	Update(ctx context.Context, req *Requisition) error
	UpdateItemFulfilledQty(ctx context.Context, item RequisitionItem) error
	List(ctx context.Context, filter ListFilter) ([]*Requisition, error)
}
