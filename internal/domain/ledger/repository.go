package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/core/id"
)

// Repository defines persistence operations for the stock ledger.
type Repository interface {
	// GetLevel returns the current level, or a zero-quantity level when the
	// (item, warehouse) pair has no row yet.
	GetLevel(ctx context.Context, warehouseID, itemID id.ID) (StockLevel, error)

	// GetLevelForUpdate returns the level with a row lock for read-check-write
	// sequences. Must be called inside a transaction.
	GetLevelForUpdate(ctx context.Context, warehouseID, itemID id.ID) (StockLevel, error)

	// SaveLevel upserts the level row.
	SaveLevel(ctx context.Context, level StockLevel) error

	// CreateMovements appends movements to the immutable log.
	CreateMovements(ctx context.Context, movements []StockMovement) error

	// CreateBatch records a lot for a receipt with a batch number.
	CreateBatch(ctx context.Context, batch StockBatch) error

	// ListLevelsByWarehouse returns levels for a warehouse.
	ListLevelsByWarehouse(ctx context.Context, warehouseID id.ID, filter LevelFilter) ([]StockLevel, error)

	// ListMovements returns movement history.
	ListMovements(ctx context.Context, filter MovementFilter) ([]StockMovement, error)

	// ListBatches returns batches for an item in a warehouse.
	ListBatches(ctx context.Context, filter BatchFilter) ([]StockBatch, error)

	// SumMovements reconstructs the quantity for an (item, warehouse) pair
	// from the movement log alone.
	SumMovements(ctx context.Context, warehouseID, itemID id.ID) (decimal.Decimal, error)
}

// LevelFilter for filtering level queries.
type LevelFilter struct {
	ItemIDs     []id.ID
	ExcludeZero bool
	Limit       int
	Offset      int
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	ItemID      *id.ID
	WarehouseID *id.ID
	Type        *MovementType
	RefType     *ReferenceType
	RefID       *id.ID
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

// BatchFilter for filtering batch queries.
type BatchFilter struct {
	ItemID        *id.ID
	WarehouseID   *id.ID
	BatchNumber   string
	ExpiresBefore *time.Time
	Limit         int
	Offset        int
}
