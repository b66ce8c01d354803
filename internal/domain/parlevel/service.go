package parlevel

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/core/types"
	"innkeep/internal/domain/catalogs/stockitem"
	"innkeep/internal/domain/catalogs/supplier"
	"innkeep/internal/domain/catalogs/warehouse"
	"innkeep/internal/domain/ledger"
)

// Service maintains par level configuration and produces reorder
// suggestions. Advisory only; it reads the ledger and never writes to it.
type Service struct {
	repo       Repository
	warehouses warehouse.Repository
	items      stockitem.Repository
	suppliers  supplier.Repository
	ledger     *ledger.Service
}

// NewService creates a new par level service.
func NewService(
	repo Repository,
	warehouses warehouse.Repository,
	items stockitem.Repository,
	suppliers supplier.Repository,
	ledgerSvc *ledger.Service,
) *Service {
	return &Service{
		repo:       repo,
		warehouses: warehouses,
		items:      items,
		suppliers:  suppliers,
		ledger:     ledgerSvc,
	}
}

// Set configures or replaces the par level for an item in a warehouse.
func (s *Service) Set(ctx context.Context, warehouseID, itemID id.ID, par decimal.Decimal, preferredSupplierID *id.ID) (*ParLevel, error) {
	if !par.IsPositive() {
		return nil, apperror.NewValidation("par level must be positive").
			WithDetail("item_id", itemID.String())
	}
	if _, err := s.warehouses.GetByID(ctx, warehouseID); err != nil {
		return nil, err
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	if preferredSupplierID != nil {
		if _, err := s.suppliers.GetByID(ctx, *preferredSupplierID); err != nil {
			return nil, err
		}
	}

	level := ParLevel{
		ItemID:              itemID,
		WarehouseID:         warehouseID,
		Par:                 types.RoundQuantity(par),
		PreferredSupplierID: preferredSupplierID,
		UpdatedAt:           time.Now().UTC(),
	}
	if err := s.repo.Set(ctx, level); err != nil {
		return nil, err
	}
	return &level, nil
}

// Remove deletes the par level configuration for an item in a warehouse.
func (s *Service) Remove(ctx context.Context, warehouseID, itemID id.ID) error {
	return s.repo.Remove(ctx, warehouseID, itemID)
}

// ListByWarehouse returns all configured par levels for a warehouse.
func (s *Service) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]ParLevel, error) {
	return s.repo.ListByWarehouse(ctx, warehouseID)
}

// GetSuggestedItems compares each configured par level against the current
// ledger quantity and reports every item sitting below par, with
// suggested = par - current. Items at or above par are omitted.
func (s *Service) GetSuggestedItems(ctx context.Context, warehouseID id.ID) ([]Suggestion, error) {
	if _, err := s.warehouses.GetByID(ctx, warehouseID); err != nil {
		return nil, err
	}

	levels, err := s.repo.ListByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(levels))
	for _, pl := range levels {
		stock, err := s.ledger.GetLevel(ctx, warehouseID, pl.ItemID)
		if err != nil {
			return nil, err
		}
		if stock.Quantity.GreaterThanOrEqual(pl.Par) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			ItemID:              pl.ItemID,
			WarehouseID:         warehouseID,
			Par:                 pl.Par,
			Current:             stock.Quantity,
			Suggested:           types.RoundQuantity(pl.Par.Sub(stock.Quantity)),
			PreferredSupplierID: pl.PreferredSupplierID,
		})
	}
	return suggestions, nil
}
