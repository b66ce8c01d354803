// Package procurement_repo provides the PostgreSQL implementation of the
// purchase order repository.
package procurement_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/domain/procurement"
	"innkeep/internal/infrastructure/storage/postgres"
)

const (
	orderTable       = "purchase_orders"
	orderItemTable   = "purchase_order_items"
	receiptTable     = "po_receipts"
	receiptItemTable = "po_receipt_items"
)

var _ procurement.Repository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implements procurement.Repository.
type PurchaseOrderRepo struct {
	txm *postgres.TxManager

	orderCols       []string
	itemCols        []string
	receiptCols     []string
	receiptItemCols []string
}

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txm *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		txm:             txm,
		orderCols:       postgres.ExtractDBColumns[procurement.PurchaseOrder](),
		itemCols:        postgres.ExtractDBColumns[procurement.PurchaseOrderItem](),
		receiptCols:     postgres.ExtractDBColumns[procurement.Receipt](),
		receiptItemCols: postgres.ExtractDBColumns[procurement.ReceiptItem](),
	}
}

func (r *PurchaseOrderRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// HighestNumber returns the lexically greatest order number for a prefix.
// Numbers are zero-padded, so lexical and numeric order agree.
func (r *PurchaseOrderRepo) HighestNumber(ctx context.Context, prefix string) (string, error) {
	q := r.builder().
		Select("number").
		From(orderTable).
		Where(squirrel.Like{"number": prefix + "%"}).
		OrderBy("number DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var number string
	err = r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&number)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("highest number: %w", err)
	}
	return number, nil
}

// Create inserts the order header and its items. The unique index on number
// backstops the generator against a concurrent same-day insert.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *procurement.PurchaseOrder) error {
	sql, args, err := r.builder().
		Insert(orderTable).
		SetMap(postgres.StructToMap(po)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate(orderTable, "number", po.Number)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	return r.insertItems(ctx, po.Items)
}

// GetByID retrieves the order with its items.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, poID id.ID) (*procurement.PurchaseOrder, error) {
	return r.get(ctx, squirrel.Eq{"id": poID}, poID.String(), false)
}

// GetForUpdate retrieves the order with its items under a FOR UPDATE lock on
// the header row. Must run inside a transaction.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, poID id.ID) (*procurement.PurchaseOrder, error) {
	return r.get(ctx, squirrel.Eq{"id": poID}, poID.String(), true)
}

// GetByNumber retrieves an order by its document number.
func (r *PurchaseOrderRepo) GetByNumber(ctx context.Context, number string) (*procurement.PurchaseOrder, error) {
	return r.get(ctx, squirrel.Eq{"number": number}, number, false)
}

func (r *PurchaseOrderRepo) get(ctx context.Context, where squirrel.Eq, key string, lock bool) (*procurement.PurchaseOrder, error) {
	q := r.builder().
		Select(r.orderCols...).
		From(orderTable).
		Where(where)
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	po := &procurement.PurchaseOrder{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), po, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(orderTable, key)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	po.Items, err = r.loadItems(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) loadItems(ctx context.Context, poID id.ID) ([]procurement.PurchaseOrderItem, error) {
	q := r.builder().
		Select(r.itemCols...).
		From(orderItemTable).
		Where(squirrel.Eq{"order_id": poID}).
		OrderBy("id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []procurement.PurchaseOrderItem
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return items, nil
}

// Update saves the header with optimistic locking. Services bump the
// version before saving, so the row must still hold the previous one.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *procurement.PurchaseOrder) error {
	data := postgres.StructToMap(po)
	delete(data, "id")
	delete(data, "created_at")

	q := r.builder().
		Update(orderTable).
		SetMap(data).
		Where(squirrel.Eq{"id": po.ID}).
		Where(squirrel.Eq{"version": po.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(orderTable, po.ID)
	}
	return nil
}

// SaveItems replaces item rows for a draft order.
func (r *PurchaseOrderRepo) SaveItems(ctx context.Context, poID id.ID, items []procurement.PurchaseOrderItem) error {
	sql, args, err := r.builder().
		Delete(orderItemTable).
		Where(squirrel.Eq{"order_id": poID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}

	return r.insertItems(ctx, items)
}

func (r *PurchaseOrderRepo) insertItems(ctx context.Context, items []procurement.PurchaseOrderItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder().Insert(orderItemTable).Columns(r.itemCols...)
	for _, item := range items {
		data := postgres.StructToMap(item)
		vals := make([]any, 0, len(r.itemCols))
		for _, col := range r.itemCols {
			vals = append(vals, data[col])
		}
		q = q.Values(vals...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

// UpdateItemReceivedQty bumps the cumulative received quantity on one line.
func (r *PurchaseOrderRepo) UpdateItemReceivedQty(ctx context.Context, item procurement.PurchaseOrderItem) error {
	q := r.builder().
		Update(orderItemTable).
		Set("received_qty", item.ReceivedQty).
		Where(squirrel.Eq{"id": item.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update received qty: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(orderItemTable, item.ID.String())
	}
	return nil
}

// CreateReceipt persists one receiving event with its lines.
func (r *PurchaseOrderRepo) CreateReceipt(ctx context.Context, receipt *procurement.Receipt) error {
	sql, args, err := r.builder().
		Insert(receiptTable).
		SetMap(postgres.StructToMap(receipt)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}

	if len(receipt.Items) == 0 {
		return nil
	}
	q := r.builder().Insert(receiptItemTable).Columns(r.receiptItemCols...)
	for _, item := range receipt.Items {
		data := postgres.StructToMap(item)
		vals := make([]any, 0, len(r.receiptItemCols))
		for _, col := range r.receiptItemCols {
			vals = append(vals, data[col])
		}
		q = q.Values(vals...)
	}

	sql, args, err = q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert receipt items: %w", err)
	}
	return nil
}

// GetReceipts returns all receiving events for an order, oldest first.
func (r *PurchaseOrderRepo) GetReceipts(ctx context.Context, poID id.ID) ([]procurement.Receipt, error) {
	q := r.builder().
		Select(r.receiptCols...).
		From(receiptTable).
		Where(squirrel.Eq{"order_id": poID}).
		OrderBy("created_at ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var receipts []procurement.Receipt
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &receipts, sql, args...); err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}

	for i := range receipts {
		itemsQ := r.builder().
			Select(r.receiptItemCols...).
			From(receiptItemTable).
			Where(squirrel.Eq{"receipt_id": receipts[i].ID}).
			OrderBy("id ASC")

		sql, args, err := itemsQ.ToSql()
		if err != nil {
			return nil, fmt.Errorf("build query: %w", err)
		}
		if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &receipts[i].Items, sql, args...); err != nil {
			return nil, fmt.Errorf("load receipt items: %w", err)
		}
	}
	return receipts, nil
}

// List retrieves order headers with filtering, newest first. Items are not
// loaded for listings.
func (r *PurchaseOrderRepo) List(ctx context.Context, filter procurement.ListFilter) ([]*procurement.PurchaseOrder, error) {
	q := r.builder().
		Select(r.orderCols...).
		From(orderTable).
		OrderBy("created_at DESC")

	if filter.PropertyID != "" {
		q = q.Where(squirrel.Eq{"property_id": filter.PropertyID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.Lt{"created_at": *filter.DateTo})
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

	var orders []*procurement.PurchaseOrder
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &orders, sql, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
