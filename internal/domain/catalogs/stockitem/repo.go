package stockitem

import (
	"context"

	"innkeep/internal/core/id"
)

// ListFilter for filtering stock item queries.
type ListFilter struct {
	PropertyID string
	Category   string
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Repository defines the interface for StockItem persistence.
type Repository interface {
	Create(ctx context.Context, item *StockItem) error
	GetByID(ctx context.Context, itemID id.ID) (*StockItem, error)
	GetByCode(ctx context.Context, propertyID, code string) (*StockItem, error)
	Update(ctx context.Context, item *StockItem) error
	List(ctx context.Context, filter ListFilter) ([]*StockItem, error)
	ExistsByCode(ctx context.Context, propertyID, code string) (bool, error)
}
