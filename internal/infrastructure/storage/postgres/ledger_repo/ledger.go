// Package ledger_repo provides the PostgreSQL implementation of the stock
// ledger repository.
package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"innkeep/internal/core/id"
	"innkeep/internal/domain/ledger"
	"innkeep/internal/infrastructure/storage/postgres"
)

const (
	levelTable    = "stock_levels"
	movementTable = "stock_movements"
	batchTable    = "stock_batches"
)

var _ ledger.Repository = (*LedgerRepo)(nil)

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	txm *postgres.TxManager

	levelCols    []string
	movementCols []string
	batchCols    []string
}

// NewLedgerRepo creates a new stock ledger repository.
func NewLedgerRepo(txm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:          txm,
		levelCols:    postgres.ExtractDBColumns[ledger.StockLevel](),
		movementCols: postgres.ExtractDBColumns[ledger.StockMovement](),
		batchCols:    postgres.ExtractDBColumns[ledger.StockBatch](),
	}
}

func (r *LedgerRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// GetLevel returns the current level, or a zero-quantity level when no row
// exists for the pair yet. An absent row and a zero row are equivalent.
func (r *LedgerRepo) GetLevel(ctx context.Context, warehouseID, itemID id.ID) (ledger.StockLevel, error) {
	return r.getLevel(ctx, warehouseID, itemID, false)
}

// GetLevelForUpdate returns the level with a FOR UPDATE row lock. A pair
// that has never been written gets its zero row inserted first: FOR UPDATE
// cannot lock a row that does not exist, and without one two concurrent
// first receipts would both read zero and the later upsert would overwrite
// the earlier. Callers must be inside a transaction; the lock is released on
// commit or rollback.
func (r *LedgerRepo) GetLevelForUpdate(ctx context.Context, warehouseID, itemID id.ID) (ledger.StockLevel, error) {
	sql, args, err := ensureLevelQuery(warehouseID, itemID)
	if err != nil {
		return ledger.StockLevel{}, fmt.Errorf("build ensure: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return ledger.StockLevel{}, fmt.Errorf("ensure level: %w", err)
	}
	return r.getLevel(ctx, warehouseID, itemID, true)
}

// ensureLevelQuery builds the zero-row insert that gives FOR UPDATE a row
// to lock on first contact with an (item, warehouse) pair. DO NOTHING keeps
// an existing row untouched; the conflicting insert still waits for any
// concurrent inserting transaction, so first writes serialize here.
func ensureLevelQuery(warehouseID, itemID id.ID) (string, []any, error) {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert(levelTable).
		Columns("item_id", "warehouse_id", "quantity", "average_cost", "updated_at").
		Values(itemID, warehouseID, decimal.Zero, decimal.Zero, time.Now().UTC()).
		Suffix("ON CONFLICT (item_id, warehouse_id) DO NOTHING").
		ToSql()
}

func levelQuery(cols []string, warehouseID, itemID id.ID, lock bool) (string, []any, error) {
	q := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select(cols...).
		From(levelTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		Where(squirrel.Eq{"item_id": itemID})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}
	return q.ToSql()
}

func (r *LedgerRepo) getLevel(ctx context.Context, warehouseID, itemID id.ID, lock bool) (ledger.StockLevel, error) {
	sql, args, err := levelQuery(r.levelCols, warehouseID, itemID, lock)
	if err != nil {
		return ledger.StockLevel{}, fmt.Errorf("build query: %w", err)
	}

	var level ledger.StockLevel
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &level, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return ledger.StockLevel{
				ItemID:      itemID,
				WarehouseID: warehouseID,
				Quantity:    decimal.Zero,
				AverageCost: decimal.Zero,
			}, nil
		}
		return ledger.StockLevel{}, fmt.Errorf("get level: %w", err)
	}
	return level, nil
}

// SaveLevel upserts the level row keyed on (item, warehouse).
func (r *LedgerRepo) SaveLevel(ctx context.Context, level ledger.StockLevel) error {
	level.UpdatedAt = time.Now().UTC()

	q := r.builder().
		Insert(levelTable).
		SetMap(postgres.StructToMap(level)).
		Suffix(`ON CONFLICT (item_id, warehouse_id) DO UPDATE
			SET quantity = EXCLUDED.quantity,
			    average_cost = EXCLUDED.average_cost,
			    updated_at = EXCLUDED.updated_at`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("save level: %w", err)
	}
	return nil
}

// CreateMovements appends rows to the immutable movement log. There is no
// update or delete path for movements anywhere in this package.
func (r *LedgerRepo) CreateMovements(ctx context.Context, movements []ledger.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	q := r.builder().Insert(movementTable).Columns(r.movementCols...)
	for _, m := range movements {
		data := postgres.StructToMap(m)
		vals := make([]any, 0, len(r.movementCols))
		for _, col := range r.movementCols {
			vals = append(vals, data[col])
		}
		q = q.Values(vals...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}
	return nil
}

// CreateBatch records a lot for a batch-tracked receipt.
func (r *LedgerRepo) CreateBatch(ctx context.Context, batch ledger.StockBatch) error {
	sql, args, err := r.builder().
		Insert(batchTable).
		SetMap(postgres.StructToMap(batch)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// ListLevelsByWarehouse returns levels for a warehouse ordered by item.
func (r *LedgerRepo) ListLevelsByWarehouse(ctx context.Context, warehouseID id.ID, filter ledger.LevelFilter) ([]ledger.StockLevel, error) {
	q := r.builder().
		Select(r.levelCols...).
		From(levelTable).
		Where(squirrel.Eq{"warehouse_id": warehouseID}).
		OrderBy("item_id ASC")

	if len(filter.ItemIDs) > 0 {
		q = q.Where(squirrel.Eq{"item_id": filter.ItemIDs})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.NotEq{"quantity": decimal.Zero})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var levels []ledger.StockLevel
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &levels, sql, args...); err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	return levels, nil
}

// ListMovements returns movement history, newest first.
func (r *LedgerRepo) ListMovements(ctx context.Context, filter ledger.MovementFilter) ([]ledger.StockMovement, error) {
	q := r.builder().
		Select(r.movementCols...).
		From(movementTable).
		OrderBy("created_at DESC", "id DESC")

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"source_warehouse_id": *filter.WarehouseID},
			squirrel.Eq{"dest_warehouse_id": *filter.WarehouseID},
		})
	}
	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.RefType != nil {
		q = q.Where(squirrel.Eq{"ref_type": *filter.RefType})
	}
	if filter.RefID != nil {
		q = q.Where(squirrel.Eq{"ref_id": *filter.RefID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.ToDate})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []ledger.StockMovement
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return movements, nil
}

// ListBatches returns batches, soonest expiry first.
func (r *LedgerRepo) ListBatches(ctx context.Context, filter ledger.BatchFilter) ([]ledger.StockBatch, error) {
	q := r.builder().
		Select(r.batchCols...).
		From(batchTable).
		OrderBy("expires_at ASC NULLS LAST", "created_at ASC")

	if filter.ItemID != nil {
		q = q.Where(squirrel.Eq{"item_id": *filter.ItemID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.BatchNumber != "" {
		q = q.Where(squirrel.Eq{"batch_number": filter.BatchNumber})
	}
	if filter.ExpiresBefore != nil {
		q = q.Where(squirrel.Lt{"expires_at": *filter.ExpiresBefore})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var batches []ledger.StockBatch
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// SumMovements rebuilds the quantity for an (item, warehouse) pair from the
// movement log alone: inbound rows add, outbound rows subtract.
func (r *LedgerRepo) SumMovements(ctx context.Context, warehouseID, itemID id.ID) (decimal.Decimal, error) {
	sql := `
		SELECT COALESCE(SUM(
			CASE
				WHEN dest_warehouse_id = $1 THEN quantity
				WHEN source_warehouse_id = $1 THEN -quantity
				ELSE 0
			END), 0)
		FROM ` + movementTable + `
		WHERE item_id = $2
		  AND (source_warehouse_id = $1 OR dest_warehouse_id = $1)`

	var sum decimal.Decimal
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, warehouseID, itemID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum movements: %w", err)
	}
	return sum, nil
}
