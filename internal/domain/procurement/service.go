package procurement

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"innkeep/internal/core/apperror"
	"innkeep/internal/core/id"
	"innkeep/internal/core/tx"
	"innkeep/internal/core/types"
	"innkeep/internal/domain/audit"
	"innkeep/internal/domain/catalogs/stockitem"
	"innkeep/internal/domain/catalogs/supplier"
	"innkeep/internal/domain/catalogs/warehouse"
	"innkeep/internal/domain/event"
	"innkeep/internal/domain/ledger"
	"innkeep/pkg/logger"
	"innkeep/pkg/numerator"
)

const entityName = "purchase order"

// Service provides the purchase order workflow. Every ledger-mutating
// operation executes its read-check-write sequence inside one transaction;
// audit events go to the sink only after the transaction commits.
type Service struct {
	repo       Repository
	warehouses warehouse.Repository
	suppliers  supplier.Repository
	items      stockitem.Repository
	ledger     *ledger.Service
	numbers    *numerator.Service
	txManager  tx.Manager
	sink       audit.Sink
	events     event.Publisher
}

// NewService creates a new purchase order service.
func NewService(
	repo Repository,
	warehouses warehouse.Repository,
	suppliers supplier.Repository,
	items stockitem.Repository,
	ledgerSvc *ledger.Service,
	txManager tx.Manager,
	sink audit.Sink,
	events event.Publisher,
) *Service {
	if sink == nil {
		sink = audit.NopSink{}
	}
	if events == nil {
		events = event.NopPublisher{}
	}
	return &Service{
		repo:       repo,
		warehouses: warehouses,
		suppliers:  suppliers,
		items:      items,
		ledger:     ledgerSvc,
		numbers:    numerator.New(repo),
		txManager:  txManager,
		sink:       sink,
		events:     events,
	}
}

func (s *Service) publish(ctx context.Context, poID id.ID, eventType string, payload any) error {
	return s.events.Publish(ctx, event.Event{
		AggregateType: "purchase_order",
		AggregateID:   poID,
		Type:          eventType,
		Payload:       payload,
	})
}

// Create starts a new DRAFT purchase order. Supplier and destination
// warehouse must exist and be active. The PO number is a date-scoped
// sequence generated inside the same transaction that inserts the order.
func (s *Service) Create(ctx context.Context, propertyID string, supplierID, warehouseID id.ID, createdBy string) (*PurchaseOrder, error) {
	po := NewPurchaseOrder(propertyID, supplierID, warehouseID, createdBy)
	if err := po.Validate(ctx); err != nil {
		return nil, err
	}
	if createdBy == "" {
		return nil, apperror.NewValidation("creator is required").WithDetail("field", "createdBy")
	}

	sup, err := s.suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if !sup.IsActive {
		return nil, apperror.NewValidation("supplier is not active").
			WithDetail("supplier_id", supplierID.String())
	}

	wh, err := s.warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if !wh.IsActive {
		return nil, apperror.NewValidation("warehouse is not active").
			WithDetail("warehouse_id", warehouseID.String())
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.NextNumber(ctx, numerator.DefaultConfig("PO"), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		po.Number = number

		if err := s.repo.Create(ctx, po); err != nil {
			return fmt.Errorf("create purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, po.ID, audit.ActionCreated, createdBy).
		WithDetail("number", po.Number))

	logger.Info(ctx, "purchase order created",
		"id", po.ID,
		"number", po.Number,
		"supplier_id", supplierID,
		"warehouse_id", warehouseID,
	)
	return po, nil
}

// AddItem adds a line to a DRAFT order and recomputes totals in the same
// transaction. A duplicate stock item on one order is rejected.
func (s *Service) AddItem(ctx context.Context, poID, itemID id.ID, quantity, unitCost decimal.Decimal) (*PurchaseOrder, error) {
	if err := validateLine(itemID, quantity, unitCost); err != nil {
		return nil, err
	}
	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	var po *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if err := requireDraft(po); err != nil {
			return err
		}
		if po.FindItem(itemID) != nil {
			return apperror.NewDuplicate("purchase order line", "item", itemID.String())
		}

		po.Items = append(po.Items, PurchaseOrderItem{
			ID:          id.New(),
			OrderID:     po.ID,
			ItemID:      itemID,
			Quantity:    types.RoundQuantity(quantity),
			UnitCost:    types.RoundCost(unitCost),
			ReceivedQty: decimal.Zero,
		})
		return s.saveDraftLines(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// UpdateItem changes quantity or unit cost of an existing DRAFT line.
func (s *Service) UpdateItem(ctx context.Context, poID, itemID id.ID, quantity, unitCost decimal.Decimal) (*PurchaseOrder, error) {
	if err := validateLine(itemID, quantity, unitCost); err != nil {
		return nil, err
	}

	var po *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if err := requireDraft(po); err != nil {
			return err
		}

		line := po.FindItem(itemID)
		if line == nil {
			return apperror.NewNotFound("purchase order line", itemID.String())
		}
		line.Quantity = types.RoundQuantity(quantity)
		line.UnitCost = types.RoundCost(unitCost)

		return s.saveDraftLines(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// RemoveItem deletes a DRAFT line and recomputes totals.
func (s *Service) RemoveItem(ctx context.Context, poID, itemID id.ID) (*PurchaseOrder, error) {
	var po *PurchaseOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		po, err = s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if err := requireDraft(po); err != nil {
			return err
		}

		kept := po.Items[:0]
		found := false
		for _, line := range po.Items {
			if line.ItemID == itemID {
				found = true
				continue
			}
			kept = append(kept, line)
		}
		if !found {
			return apperror.NewNotFound("purchase order line", itemID.String())
		}
		po.Items = kept

		return s.saveDraftLines(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// SubmitForApproval moves DRAFT to PENDING_APPROVAL. At least one line is
// required.
func (s *Service) SubmitForApproval(ctx context.Context, poID id.ID, actorID string) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if len(po.Items) == 0 {
			return apperror.NewValidation("at least one line item is required")
		}
		if err := transition(po, StatusPendingApproval); err != nil {
			return err
		}
		now := time.Now().UTC()
		po.SubmittedAt = &now
		if err := s.repo.Update(ctx, po); err != nil {
			return err
		}
		return s.publish(ctx, po.ID, event.TypeOrderSubmitted, map[string]any{"number": po.Number})
	})
	if err != nil {
		return err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, poID, audit.ActionSubmitted, actorID))
	return nil
}

// Approve moves PENDING_APPROVAL to APPROVED, stamping approver and time.
func (s *Service) Approve(ctx context.Context, poID id.ID, approverID string) error {
	if approverID == "" {
		return apperror.NewValidation("approver is required").WithDetail("field", "approverId")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if err := transition(po, StatusApproved); err != nil {
			return err
		}
		now := time.Now().UTC()
		po.ApprovedBy = approverID
		po.ApprovedAt = &now
		if err := s.repo.Update(ctx, po); err != nil {
			return err
		}
		return s.publish(ctx, po.ID, event.TypeOrderApproved, map[string]any{
			"number":   po.Number,
			"approver": approverID,
		})
	})
	if err != nil {
		return err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, poID, audit.ActionApproved, approverID))
	logger.Info(ctx, "purchase order approved", "id", poID, "approver", approverID)
	return nil
}

// Reject returns a PENDING_APPROVAL order to DRAFT, appending the reason to
// the order notes. The reason is mandatory.
func (s *Service) Reject(ctx context.Context, poID id.ID, approverID, reason string) error {
	if reason == "" {
		return apperror.NewValidation("rejection reason is required").WithDetail("field", "reason")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if err := transition(po, StatusDraft); err != nil {
			return err
		}
		po.SubmittedAt = nil
		po.AppendNote("rejected: " + reason)
		return s.repo.Update(ctx, po)
	})
	if err != nil {
		return err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, poID, audit.ActionRejected, approverID).
		WithDetail("reason", reason))
	return nil
}

// SendToSupplier moves APPROVED to SENT, stamping the sent time. Actual
// delivery to the supplier is an external collaborator invoked after commit.
func (s *Service) SendToSupplier(ctx context.Context, poID id.ID, actorID string) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if err := transition(po, StatusSent); err != nil {
			return err
		}
		now := time.Now().UTC()
		po.SentAt = &now
		if err := s.repo.Update(ctx, po); err != nil {
			return err
		}
		return s.publish(ctx, po.ID, event.TypeOrderSent, map[string]any{
			"number":      po.Number,
			"supplier_id": po.SupplierID,
		})
	})
	if err != nil {
		return err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, poID, audit.ActionSent, actorID))
	return nil
}

// ReceiveLine is one line of a receiving request.
type ReceiveLine struct {
	ItemID      id.ID
	Quantity    decimal.Decimal
	BatchNumber string
	ExpiresAt   *time.Time
}

// Receive records one receiving event against a SENT or PARTIALLY_RECEIVED
// order. The whole call is rejected if any line would exceed its ordered
// quantity; otherwise the receipt, ledger writes, line bumps and status
// recompute happen as one atomic unit.
func (s *Service) Receive(ctx context.Context, poID id.ID, receiverID, notes string, lines []ReceiveLine) (*Receipt, error) {
	if receiverID == "" {
		return nil, apperror.NewValidation("receiver is required").WithDetail("field", "receiverId")
	}
	if len(lines) == 0 {
		return nil, apperror.NewValidation("at least one receive line is required")
	}
	for _, line := range lines {
		if !line.Quantity.IsPositive() {
			return nil, apperror.NewValidation("receive quantity must be positive").
				WithDetail("item_id", line.ItemID.String())
		}
	}

	var receipt *Receipt
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		// A fully received order falls through to the per-line limit check:
		// every line has zero remaining, so the caller sees the overage
		// rather than a transition error.
		if !po.Status.CanReceive() && po.Status != StatusReceived {
			return apperror.NewBusinessRule(apperror.CodeInvalidTransition,
				fmt.Sprintf("cannot receive goods in status %s", po.Status)).
				WithDetail("status", string(po.Status))
		}

		// Validate every line before any write. Duplicate items within one
		// request accumulate against the same ordered limit.
		requested := make(map[id.ID]decimal.Decimal, len(lines))
		for _, line := range lines {
			item := po.FindItem(line.ItemID)
			if item == nil {
				return apperror.NewNotFound("purchase order line", line.ItemID.String())
			}
			qty := types.RoundQuantity(line.Quantity)
			already := requested[line.ItemID]
			if already.Add(qty).GreaterThan(item.Remaining()) {
				return apperror.NewReceiveLimitExceeded(
					line.ItemID.String(),
					already.Add(qty).String(),
					item.Remaining().String(),
				)
			}
			requested[line.ItemID] = already.Add(qty)
		}

		receipt = &Receipt{
			ID:         id.New(),
			OrderID:    po.ID,
			ReceivedBy: receiverID,
			Notes:      notes,
			CreatedAt:  time.Now().UTC(),
			Items:      make([]ReceiptItem, 0, len(lines)),
		}
		for _, line := range lines {
			receipt.Items = append(receipt.Items, ReceiptItem{
				ID:          id.New(),
				ReceiptID:   receipt.ID,
				ItemID:      line.ItemID,
				Quantity:    types.RoundQuantity(line.Quantity),
				BatchNumber: line.BatchNumber,
				ExpiresAt:   line.ExpiresAt,
			})
		}
		if err := s.repo.CreateReceipt(ctx, receipt); err != nil {
			return fmt.Errorf("create receipt: %w", err)
		}

		ref := ledger.Reference{Type: ledger.RefPurchaseOrder, ID: po.ID}
		for _, line := range lines {
			item := po.FindItem(line.ItemID)

			if _, err := s.ledger.ApplyReceipt(ctx, ledger.ReceiptEntry{
				ItemID:      line.ItemID,
				WarehouseID: po.WarehouseID,
				Quantity:    line.Quantity,
				UnitCost:    item.UnitCost,
				BatchNumber: line.BatchNumber,
				ExpiresAt:   line.ExpiresAt,
			}, ref, receiverID); err != nil {
				return err
			}

			item.ReceivedQty = types.RoundQuantity(item.ReceivedQty.Add(types.RoundQuantity(line.Quantity)))
			if err := s.repo.UpdateItemReceivedQty(ctx, *item); err != nil {
				return fmt.Errorf("update received qty: %w", err)
			}
		}

		newStatus := StatusPartiallyReceived
		if po.AllReceived() {
			newStatus = StatusReceived
		}
		if err := transition(po, newStatus); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, po); err != nil {
			return err
		}
		return s.publish(ctx, po.ID, event.TypeOrderReceived, map[string]any{
			"number":     po.Number,
			"receipt_id": receipt.ID,
			"status":     newStatus,
		})
	})
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, poID, audit.ActionReceived, receiverID).
		WithDetail("receipt_id", receipt.ID.String()).
		WithDetail("lines", len(receipt.Items)))

	logger.Info(ctx, "purchase order receipt recorded",
		"id", poID,
		"receipt_id", receipt.ID,
		"lines", len(receipt.Items),
	)
	return receipt, nil
}

// Close moves RECEIVED to CLOSED. Bookkeeping only, no ledger effect.
func (s *Service) Close(ctx context.Context, poID id.ID, actorID string) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if err := transition(po, StatusClosed); err != nil {
			return err
		}
		return s.repo.Update(ctx, po)
	})
	if err != nil {
		return err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, poID, audit.ActionClosed, actorID))
	return nil
}

// Cancel terminates a non-terminal order, appending the reason. Received
// goods stay on the ledger; the order and its items are retained for audit.
func (s *Service) Cancel(ctx context.Context, poID id.ID, actorID, reason string) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		po, err := s.repo.GetForUpdate(ctx, poID)
		if err != nil {
			return err
		}
		if err := transition(po, StatusCancelled); err != nil {
			return err
		}
		po.AppendNote("cancelled: " + reason)
		if err := s.repo.Update(ctx, po); err != nil {
			return err
		}
		return s.publish(ctx, po.ID, event.TypeOrderCancelled, map[string]any{
			"number": po.Number,
			"reason": reason,
		})
	})
	if err != nil {
		return err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, poID, audit.ActionCancelled, actorID).
		WithDetail("reason", reason))
	return nil
}

// GetByID retrieves a purchase order with items.
func (s *Service) GetByID(ctx context.Context, poID id.ID) (*PurchaseOrder, error) {
	return s.repo.GetByID(ctx, poID)
}

// GetReceipts returns the receiving history of an order.
func (s *Service) GetReceipts(ctx context.Context, poID id.ID) ([]Receipt, error) {
	return s.repo.GetReceipts(ctx, poID)
}

// List retrieves purchase orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*PurchaseOrder, error) {
	return s.repo.List(ctx, filter)
}

// GetPendingForApproval returns orders awaiting approval for a warehouse.
func (s *Service) GetPendingForApproval(ctx context.Context, warehouseID id.ID) ([]*PurchaseOrder, error) {
	status := StatusPendingApproval
	return s.repo.List(ctx, ListFilter{Status: &status, WarehouseID: &warehouseID})
}

// --- helpers ---

func validateLine(itemID id.ID, quantity, unitCost decimal.Decimal) error {
	if id.IsNil(itemID) {
		return apperror.NewValidation("item is required").WithDetail("field", "itemId")
	}
	if !quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("item_id", itemID.String())
	}
	if unitCost.IsNegative() {
		return apperror.NewValidation("unit cost cannot be negative").
			WithDetail("item_id", itemID.String())
	}
	return nil
}

func requireDraft(po *PurchaseOrder) error {
	if po.Status != StatusDraft {
		return apperror.NewBusinessRule(apperror.CodeInvalidTransition,
			"line items can only be modified while the order is a draft").
			WithDetail("status", string(po.Status))
	}
	return nil
}

// transition validates and applies a status change on the loaded header.
func transition(po *PurchaseOrder, target Status) error {
	if !po.Status.CanTransitionTo(target) {
		return apperror.NewInvalidTransition(entityName, string(po.Status), string(target))
	}
	po.Status = target
	po.Touch()
	return nil
}

// saveDraftLines persists line changes and the recomputed totals in the
// caller's transaction, so totals never drift from lines.
func (s *Service) saveDraftLines(ctx context.Context, po *PurchaseOrder) error {
	po.RecalculateTotals()
	po.Touch()
	if err := s.repo.SaveItems(ctx, po.ID, po.Items); err != nil {
		return fmt.Errorf("save lines: %w", err)
	}
	if err := s.repo.Update(ctx, po); err != nil {
		return fmt.Errorf("update totals: %w", err)
	}
	return nil
}
