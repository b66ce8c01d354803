package warehouse

import (
	"context"

	"innkeep/internal/core/id"
)

// ListFilter for filtering warehouse queries.
type ListFilter struct {
	PropertyID string
	Type       *WarehouseType
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Repository defines the interface for Warehouse persistence.
type Repository interface {
	Create(ctx context.Context, wh *Warehouse) error
	GetByID(ctx context.Context, whID id.ID) (*Warehouse, error)
	GetByCode(ctx context.Context, propertyID, code string) (*Warehouse, error)

	// Update modifies an existing warehouse with optimistic locking.
	Update(ctx context.Context, wh *Warehouse) error

	List(ctx context.Context, filter ListFilter) ([]*Warehouse, error)
	ExistsByCode(ctx context.Context, propertyID, code string) (bool, error)
}
