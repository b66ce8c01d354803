package ledger

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/core/types"
	"innkeep/pkg/logger"
)

// Service provides the ledger write path. Transactions are managed by the
// caller (the PO and requisition workflows); every method here assumes it
// runs inside one and performs its read-check-write against locked rows.
type Service struct {
	repo Repository
}

// NewService creates a new ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ReceiptEntry describes one inbound lot.
type ReceiptEntry struct {
	ItemID      id.ID
	WarehouseID id.ID
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal

	// BatchNumber, when non-empty, creates a StockBatch for traceability.
	BatchNumber string
	ExpiresAt   *time.Time
}

// ApplyReceipt increases the destination level, recomputes the weighted
// average cost and appends one RECEIPT movement. Returns the updated level.
func (s *Service) ApplyReceipt(ctx context.Context, entry ReceiptEntry, ref Reference, actorID string) (StockLevel, error) {
	if !entry.Quantity.IsPositive() {
		return StockLevel{}, apperror.NewValidation("receipt quantity must be positive").
			WithDetail("item_id", entry.ItemID.String())
	}
	if entry.UnitCost.IsNegative() {
		return StockLevel{}, apperror.NewValidation("unit cost cannot be negative").
			WithDetail("item_id", entry.ItemID.String())
	}

	qty := types.RoundQuantity(entry.Quantity)
	cost := types.RoundCost(entry.UnitCost)

	level, err := s.repo.GetLevelForUpdate(ctx, entry.WarehouseID, entry.ItemID)
	if err != nil {
		return StockLevel{}, fmt.Errorf("lock level: %w", err)
	}

	level.AverageCost = types.WeightedAverageCost(level.Quantity, level.AverageCost, qty, cost)
	level.Quantity = types.RoundQuantity(level.Quantity.Add(qty))
	level.UpdatedAt = time.Now().UTC()

	if err := s.repo.SaveLevel(ctx, level); err != nil {
		return StockLevel{}, fmt.Errorf("save level: %w", err)
	}

	dest := entry.WarehouseID
	movement := StockMovement{
		ID:              id.New(),
		Type:            MovementReceipt,
		ItemID:          entry.ItemID,
		DestWarehouseID: &dest,
		Quantity:        qty,
		UnitCost:        cost,
		TotalCost:       types.RoundMoney(qty.Mul(cost)),
		RefType:         ref.Type,
		RefID:           ref.ID,
		CreatedBy:       actorID,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.repo.CreateMovements(ctx, []StockMovement{movement}); err != nil {
		return StockLevel{}, fmt.Errorf("create movement: %w", err)
	}

	if entry.BatchNumber != "" {
		batch := StockBatch{
			ID:          id.New(),
			ItemID:      entry.ItemID,
			WarehouseID: entry.WarehouseID,
			BatchNumber: entry.BatchNumber,
			Quantity:    qty,
			UnitCost:    cost,
			ExpiresAt:   entry.ExpiresAt,
			RefID:       ref.ID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			return StockLevel{}, fmt.Errorf("create batch: %w", err)
		}
	}

	logger.Debug(ctx, "receipt applied",
		"item_id", entry.ItemID,
		"warehouse_id", entry.WarehouseID,
		"quantity", qty,
		"average_cost", level.AverageCost,
	)

	return level, nil
}

// TransferEntry describes one inter-warehouse move.
type TransferEntry struct {
	ItemID            id.ID
	SourceWarehouseID id.ID
	DestWarehouseID   id.ID
	Quantity          decimal.Decimal
}

// ApplyTransfer moves stock between two warehouses: decreases the source
// (average cost unchanged), increases the destination at the source's current
// average cost, and appends exactly one TRANSFER_OUT and one TRANSFER_IN
// movement referencing the same workflow id.
func (s *Service) ApplyTransfer(ctx context.Context, entry TransferEntry, ref Reference, actorID string) error {
	if !entry.Quantity.IsPositive() {
		return apperror.NewValidation("transfer quantity must be positive").
			WithDetail("item_id", entry.ItemID.String())
	}
	if entry.SourceWarehouseID == entry.DestWarehouseID {
		return apperror.NewValidation("source and destination warehouse must differ")
	}

	qty := types.RoundQuantity(entry.Quantity)

	// Lock both levels in a stable order so two opposing transfers cannot
	// deadlock on each other.
	first, second := entry.SourceWarehouseID, entry.DestWarehouseID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}
	levels := make(map[id.ID]StockLevel, 2)
	for _, whID := range []id.ID{first, second} {
		level, err := s.repo.GetLevelForUpdate(ctx, whID, entry.ItemID)
		if err != nil {
			return fmt.Errorf("lock level: %w", err)
		}
		levels[whID] = level
	}

	source := levels[entry.SourceWarehouseID]
	if source.Quantity.LessThan(qty) {
		return apperror.NewInsufficientStock(
			entry.ItemID.String(),
			qty.String(),
			source.Quantity.String(),
		)
	}

	unitCost := source.AverageCost
	now := time.Now().UTC()

	source.Quantity = types.RoundQuantity(source.Quantity.Sub(qty))
	source.UpdatedAt = now
	if err := s.repo.SaveLevel(ctx, source); err != nil {
		return fmt.Errorf("save source level: %w", err)
	}

	dest := levels[entry.DestWarehouseID]
	dest.AverageCost = types.WeightedAverageCost(dest.Quantity, dest.AverageCost, qty, unitCost)
	dest.Quantity = types.RoundQuantity(dest.Quantity.Add(qty))
	dest.UpdatedAt = now
	if err := s.repo.SaveLevel(ctx, dest); err != nil {
		return fmt.Errorf("save dest level: %w", err)
	}

	srcID, dstID := entry.SourceWarehouseID, entry.DestWarehouseID
	totalCost := types.RoundMoney(qty.Mul(unitCost))
	movements := []StockMovement{
		{
			ID:                id.New(),
			Type:              MovementTransferOut,
			ItemID:            entry.ItemID,
			SourceWarehouseID: &srcID,
			DestWarehouseID:   &dstID,
			Quantity:          qty,
			UnitCost:          unitCost,
			TotalCost:         totalCost,
			RefType:           ref.Type,
			RefID:             ref.ID,
			CreatedBy:         actorID,
			CreatedAt:         now,
		},
		{
			ID:                id.New(),
			Type:              MovementTransferIn,
			ItemID:            entry.ItemID,
			SourceWarehouseID: &srcID,
			DestWarehouseID:   &dstID,
			Quantity:          qty,
			UnitCost:          unitCost,
			TotalCost:         totalCost,
			RefType:           ref.Type,
			RefID:             ref.ID,
			CreatedBy:         actorID,
			CreatedAt:         now,
		},
	}
	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Debug(ctx, "transfer applied",
		"item_id", entry.ItemID,
		"source_warehouse_id", entry.SourceWarehouseID,
		"dest_warehouse_id", entry.DestWarehouseID,
		"quantity", qty,
	)

	return nil
}

// Requirement is one availability demand against a warehouse.
type Requirement struct {
	ItemID   id.ID
	Quantity decimal.Decimal
}

// Shortfall reports one item that cannot be served.
type Shortfall struct {
	ItemID    id.ID           `json:"itemId"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// CheckAvailability compares demands against current levels and returns the
// full set of shortfalls (empty when everything is available). Read-only.
func (s *Service) CheckAvailability(ctx context.Context, warehouseID id.ID, requirements []Requirement) ([]Shortfall, error) {
	var shortfalls []Shortfall
	for _, req := range requirements {
		if !req.Quantity.IsPositive() {
			continue
		}
		level, err := s.repo.GetLevel(ctx, warehouseID, req.ItemID)
		if err != nil {
			return nil, fmt.Errorf("get level for %s: %w", req.ItemID, err)
		}
		if level.Quantity.LessThan(req.Quantity) {
			shortfalls = append(shortfalls, Shortfall{
				ItemID:    req.ItemID,
				Requested: req.Quantity,
				Available: level.Quantity,
			})
		}
	}
	return shortfalls, nil
}

// GetLevel returns the current level for one (item, warehouse) pair.
func (s *Service) GetLevel(ctx context.Context, warehouseID, itemID id.ID) (StockLevel, error) {
	return s.repo.GetLevel(ctx, warehouseID, itemID)
}

// GetWarehouseLevels returns all non-zero levels in a warehouse.
func (s *Service) GetWarehouseLevels(ctx context.Context, warehouseID id.ID) ([]StockLevel, error) {
	return s.repo.ListLevelsByWarehouse(ctx, warehouseID, LevelFilter{ExcludeZero: true})
}

// GetMovements returns movement history.
func (s *Service) GetMovements(ctx context.Context, filter MovementFilter) ([]StockMovement, error) {
	return s.repo.ListMovements(ctx, filter)
}

// GetBatches returns lot records.
func (s *Service) GetBatches(ctx context.Context, filter BatchFilter) ([]StockBatch, error) {
	return s.repo.ListBatches(ctx, filter)
}

// Reconciliation compares a level row against the movement log.
type Reconciliation struct {
	ItemID       id.ID           `json:"itemId"`
	WarehouseID  id.ID           `json:"warehouseId"`
	LevelQty     decimal.Decimal `json:"levelQuantity"`
	MovementsQty decimal.Decimal `json:"movementsQuantity"`
	Consistent   bool            `json:"consistent"`
}

// ReconcileLevel rebuilds the quantity from the movement log and compares it
// against the stored level. The two must agree exactly.
func (s *Service) ReconcileLevel(ctx context.Context, warehouseID, itemID id.ID) (Reconciliation, error) {
	level, err := s.repo.GetLevel(ctx, warehouseID, itemID)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("get level: %w", err)
	}

	sum, err := s.repo.SumMovements(ctx, warehouseID, itemID)
	if err != nil {
		return Reconciliation{}, fmt.Errorf("sum movements: %w", err)
	}

	return Reconciliation{
		ItemID:       itemID,
		WarehouseID:  warehouseID,
		LevelQty:     level.Quantity,
		MovementsQty: sum,
		Consistent:   level.Quantity.Equal(sum),
	}, nil
}
