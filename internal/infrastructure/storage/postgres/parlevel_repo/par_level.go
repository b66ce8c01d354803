// Package parlevel_repo provides the PostgreSQL implementation of the par
// level repository.
package parlevel_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/domain/parlevel"
	"innkeep/internal/infrastructure/storage/postgres"
)

const parLevelTable = "par_levels"

var _ parlevel.Repository = (*ParLevelRepo)(nil)

// ParLevelRepo implements parlevel.Repository.
type ParLevelRepo struct {
	txm  *postgres.TxManager
	cols []string
}

// NewParLevelRepo creates a new par level repository.
func NewParLevelRepo(txm *postgres.TxManager) *ParLevelRepo {
	return &ParLevelRepo{
		txm:  txm,
		cols: postgres.ExtractDBColumns[parlevel.ParLevel](),
	}
}

func (r *ParLevelRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Set upserts the par level keyed on (item, warehouse).
func (r *ParLevelRepo) Set(ctx context.Context, level parlevel.ParLevel) error {
	q := r.builder().
		Insert(parLevelTable).
		SetMap(postgres.StructToMap(level)).
		Suffix(`ON CONFLICT (item_id, warehouse_id) DO UPDATE
			SET par = EXCLUDED.par,
			    preferred_supplier_id = EXCLUDED.preferred_supplier_id,
			    updated_at = EXCLUDED.updated_at`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("set par level: %w", err)
	}
	return nil
}

// Get retrieves the par level for an item in a warehouse.
func (r *ParLevelRepo) Get(ctx context.Context, warehouseID, itemID id.ID) (*parlevel.ParLevel, error) {
	q := r.builder().
		Select(r.cols...).
		From(parLevelTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Eq{"item_id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	level := &parlevel.ParLevel{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), level, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(parLevelTable, itemID.String())
		}
		return nil, fmt.Errorf("get par level: %w", err)
	}
	return level, nil
}

// Remove deletes the par level for an item in a warehouse.
func (r *ParLevelRepo) Remove(ctx context.Context, warehouseID, itemID id.ID) error {
	q := r.builder().
		Delete(parLevelTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Eq{"item_id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete par level: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(parLevelTable, itemID.String())
	}
	return nil
}

// ListByWarehouse returns all par levels configured for a warehouse.
func (r *ParLevelRepo) ListByWarehouse(ctx context.Context, warehouseID id.ID) ([]parlevel.ParLevel, error) {
	q := r.builder().
		Select(r.cols...).
		From(parLevelTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		OrderBy("item_id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var levels []parlevel.ParLevel
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &levels, sql, args...); err != nil {
		return nil, fmt.Errorf("list par levels: %w", err)
	}
	return levels, nil
}
