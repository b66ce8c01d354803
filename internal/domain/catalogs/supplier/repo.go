package supplier

import (
	"context"

	"innkeep/internal/core/id"
)

// ListFilter for filtering supplier queries.
type ListFilter struct {
	PropertyID string
	Search     string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// Repository defines the interface for Supplier persistence.
type Repository interface {
	Create(ctx context.Context, sup *Supplier) error
	GetByID(ctx context.Context, supID id.ID) (*Supplier, error)
	Update(ctx context.Context, sup *Supplier) error
	List(ctx context.Context, filter ListFilter) ([]*Supplier, error)
	ExistsByCode(ctx context.Context, propertyID, code string) (bool, error)
}
