package parlevel

import (
	"context"

	"innkeep/internal/core/id"
)

// Repository persists par level configuration. Set is an upsert keyed on
// (item, warehouse).
type Repository interface {
	Set(ctx context.Context, level ParLevel) error
	Get(ctx context.Context, warehouseID, itemID id.ID) (*ParLevel, error)
	Remove(ctx context.Context, warehouseID, itemID id.ID) error
	ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]ParLevel, error)
}
