package procurement

import (
	"context"
	"time"

	"innkeep/internal/core/id"
	"innkeep/pkg/numerator"
)

// Repository defines persistence operations for purchase orders.
// The repository also acts as the numerator.Source for PO numbers.
type Repository interface {
	numerator.Source

	Create(ctx context.Context, po *PurchaseOrder) error

	// GetByID retrieves a purchase order with its items.
	GetByID(ctx context.Context, poID id.ID) (*PurchaseOrder, error)

	// GetForUpdate retrieves a purchase order with its items under a row lock.
	// Must be called inside a transaction.
	GetForUpdate(ctx context.Context, poID id.ID) (*PurchaseOrder, error)

	GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error)

	// Update saves the header with optimistic locking.
	Update(ctx context.Context, po *PurchaseOrder) error

	// SaveItems replaces the item rows for a DRAFT order.
	SaveItems(ctx context.Context, poID id.ID, items []PurchaseOrderItem) error

	// UpdateItemReceivedQty bumps the cumulative received quantity on a line.
	UpdateItemReceivedQty(ctx context.Context, item PurchaseOrderItem) error

	// CreateReceipt persists one receiving event with its lines.
	CreateReceipt(ctx context.Context, receipt *Receipt) error

	// GetReceipts returns all receiving events for an order.
	GetReceipts(ctx context.Context, poID id.ID) ([]Receipt, error)

	List(ctx context.Context, filter ListFilter) ([]*PurchaseOrder, error)
}

// ListFilter for filtering purchase order queries.
type ListFilter struct {
	PropertyID  string
	Status      *Status
	SupplierID  *id.ID
	WarehouseID *id.ID
	DateFrom    *time.Time
	DateTo      *time.Time
	Limit       int
	Offset      int
}
