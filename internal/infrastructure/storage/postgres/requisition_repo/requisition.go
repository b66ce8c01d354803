// Package requisition_repo provides the PostgreSQL implementation of the
// requisition repository.
package requisition_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/domain/requisition"
	"innkeep/internal/infrastructure/storage/postgres"
)

const (
	reqTable     = "requisitions"
	reqItemTable = "requisition_items"
)

var _ requisition.Repository = (*RequisitionRepo)(nil)

// RequisitionRepo implements requisition.Repository.
type RequisitionRepo struct {
	txm *postgres.TxManager

	reqCols  []string
	itemCols []string
}

// NewRequisitionRepo creates a new requisition repository.
func NewRequisitionRepo(txm *postgres.TxManager) *RequisitionRepo {
	return &RequisitionRepo{
		txm:      txm,
		reqCols:  postgres.ExtractDBColumns[requisition.Requisition](),
		itemCols: postgres.ExtractDBColumns[requisition.RequisitionItem](),
	}
}

func (r *RequisitionRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// HighestNumber returns the lexically greatest requisition number for a
// prefix, or empty when none exists.
func (r *RequisitionRepo) HighestNumber(ctx context.Context, prefix string) (string, error) {
	q := r.builder().
		Select("number").
		From(reqTable).
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

// Create inserts the requisition header and its lines.
func (r *RequisitionRepo) Create(ctx context.Context, req *requisition.Requisition) error {
	sql, args, err := r.builder().
		Insert(reqTable).
		SetMap(postgres.StructToMap(req)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		if postgres.IsUniqueViolation(err) {
			return apperror.NewDuplicate(reqTable, "number", req.Number)
		}
		return fmt.Errorf("insert requisition: %w", err)
	}

	if len(req.Items) == 0 {
		return nil
	}
	q := r.builder().Insert(reqItemTable).Columns(r.itemCols...)
	for _, item := range req.Items {
		data := postgres.StructToMap(item)
		vals := make([]any, 0, len(r.itemCols))
		for _, col := range r.itemCols {
			vals = append(vals, data[col])
		}
		q = q.Values(vals...)
	}

	sql, args, err = q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert requisition items: %w", err)
	}
	return nil
}

// GetByID retrieves the requisition with its lines.
func (r *RequisitionRepo) GetByID(ctx context.Context, reqID id.ID) (*requisition.Requisition, error) {
	return r.get(ctx, reqID, false)
}

// GetForUpdate retrieves the requisition with its lines under a FOR UPDATE
// lock on the header row. Must run inside a transaction.
func (r *RequisitionRepo) GetForUpdate(ctx context.Context, reqID id.ID) (*requisition.Requisition, error) {
	return r.get(ctx, reqID, true)
}

func (r *RequisitionRepo) get(ctx context.Context, reqID id.ID, lock bool) (*requisition.Requisition, error) {
	q := r.builder().
		Select(r.reqCols...).
		From(reqTable).
		Where(squirrel.Eq{"id": reqID})
	if lock {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	req := &requisition.Requisition{}
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), req, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(reqTable, reqID.String())
		}
		return nil, fmt.Errorf("get requisition: %w", err)
	}

	itemsQ := r.builder().
		Select(r.itemCols...).
		From(reqItemTable).
		Where(squirrel.Eq{"requisition_id": reqID}).
		OrderBy("id ASC")

	sql, args, err = itemsQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &req.Items, sql, args...); err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	return req, nil
}

// Update saves the header with optimistic locking. Services bump the
// version before saving, so the row must still hold the previous one.
func (r *RequisitionRepo) Update(ctx context.Context, req *requisition.Requisition) error {
	data := postgres.StructToMap(req)
	delete(data, "id")
	delete(data, "created_at")

	q := r.builder().
		Update(reqTable).
		SetMap(data).
		Where(squirrel.Eq{"id": req.ID}).
		Where(squirrel.Eq{"version": req.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update requisition: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(reqTable, req.ID)
	}
	return nil
}

// UpdateItemFulfilledQty bumps the cumulative fulfilled quantity on one line.
func (r *RequisitionRepo) UpdateItemFulfilledQty(ctx context.Context, item requisition.RequisitionItem) error {
	q := r.builder().
		Update(reqItemTable).
		Set("fulfilled_qty", item.FulfilledQty).
		Where(squirrel.Eq{"id": item.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update fulfilled qty: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(reqItemTable, item.ID.String())
	}
	return nil
}

// List retrieves requisition headers with filtering, newest first.
func (r *RequisitionRepo) List(ctx context.Context, filter requisition.ListFilter) ([]*requisition.Requisition, error) {
	q := r.builder().
		Select(r.reqCols...).
		From(reqTable).
		OrderBy("created_at DESC")

	if filter.PropertyID != "" {
		q = q.Where(squirrel.Eq{"property_id": filter.PropertyID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.SourceWarehouseID != nil {
		q = q.Where(squirrel.Eq{"source_warehouse_id": *filter.SourceWarehouseID})
	}
	if filter.DestWarehouseID != nil {
		q = q.Where(squirrel.Eq{"dest_warehouse_id": *filter.DestWarehouseID})
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

	var reqs []*requisition.Requisition
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &reqs, sql, args...); err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	return reqs, nil
}
