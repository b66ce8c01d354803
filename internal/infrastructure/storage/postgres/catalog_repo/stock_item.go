package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"innkeep/internal/domain/catalogs/stockitem"
	"innkeep/internal/infrastructure/storage/postgres"
)

const stockItemTable = "stock_items"

var _ stockitem.Repository = (*StockItemRepo)(nil)

// StockItemRepo implements stockitem.Repository.
type StockItemRepo struct {
	*baseCatalogRepo[*stockitem.StockItem]
}

// NewStockItemRepo creates a new stock item repository.
func NewStockItemRepo(txm *postgres.TxManager) *StockItemRepo {
	return &StockItemRepo{
		baseCatalogRepo: newBaseCatalogRepo(
			txm,
			stockItemTable,
			postgres.ExtractDBColumns[stockitem.StockItem](),
			func() *stockitem.StockItem { return &stockitem.StockItem{} },
		),
	}
}

// List retrieves stock items with filtering and name/code search.
func (r *StockItemRepo) List(ctx context.Context, filter stockitem.ListFilter) ([]*stockitem.StockItem, error) {
	q := r.baseSelect().OrderBy("code ASC")

	if filter.PropertyID != "" {
		q = q.Where(squirrel.Eq{"property_id": filter.PropertyID})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	q = paginate(q, filter.Limit, filter.Offset)

	var items []*stockitem.StockItem
	if err := r.selectList(ctx, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}
