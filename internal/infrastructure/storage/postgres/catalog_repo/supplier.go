package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"innkeep/internal/domain/catalogs/supplier"
	"innkeep/internal/infrastructure/storage/postgres"
)

const supplierTable = "suppliers"

var _ supplier.Repository = (*SupplierRepo)(nil)

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*baseCatalogRepo[*supplier.Supplier]
}

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		baseCatalogRepo: newBaseCatalogRepo(
			txm,
			supplierTable,
			postgres.ExtractDBColumns[supplier.Supplier](),
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}

// List retrieves suppliers with filtering.
func (r *SupplierRepo) List(ctx context.Context, filter supplier.ListFilter) ([]*supplier.Supplier, error) {
	q := r.baseSelect().OrderBy("name ASC")

	if filter.PropertyID != "" {
		q = q.Where(squirrel.Eq{"property_id": filter.PropertyID})
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

	var items []*supplier.Supplier
	if err := r.selectList(ctx, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}
