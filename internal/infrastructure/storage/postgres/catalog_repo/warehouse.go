package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"innkeep/internal/domain/catalogs/warehouse"
	"innkeep/internal/infrastructure/storage/postgres"
)

const warehouseTable = "warehouses"

// Compile-time check.
var _ warehouse.Repository = (*WarehouseRepo)(nil)

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	*baseCatalogRepo[*warehouse.Warehouse]
}

// NewWarehouseRepo creates a new warehouse repository.
func NewWarehouseRepo(txm *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		baseCatalogRepo: newBaseCatalogRepo(
			txm,
			warehouseTable,
			postgres.ExtractDBColumns[warehouse.Warehouse](),
			func() *warehouse.Warehouse { return &warehouse.Warehouse{} },
		),
	}
}

// List retrieves warehouses with filtering.
func (r *WarehouseRepo) List(ctx context.Context, filter warehouse.ListFilter) ([]*warehouse.Warehouse, error) {
	q := r.baseSelect().OrderBy("code ASC")

	if filter.PropertyID != "" {
		q = q.Where(squirrel.Eq{"property_id": filter.PropertyID})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	q = paginate(q, filter.Limit, filter.Offset)

	var items []*warehouse.Warehouse
	if err := r.selectList(ctx, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}
