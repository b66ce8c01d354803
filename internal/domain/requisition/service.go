package requisition

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
	"innkeep/internal/domain/catalogs/warehouse"
	"innkeep/internal/domain/event"
	"innkeep/internal/domain/ledger"
	"innkeep/pkg/logger"
	"innkeep/pkg/numerator"
)

const entityName = "requisition"

// Service provides the requisition and transfer workflow. Fulfillment is
// all-or-nothing per call: either every requested line moves on the ledger
// or nothing does.
type Service struct {
	repo       Repository
	warehouses warehouse.Repository
	ledger     *ledger.Service
	numbers    *numerator.Service
	txManager  tx.Manager
	sink       audit.Sink
	events     event.Publisher
}

// NewService creates a new requisition service.
func NewService(
	repo Repository,
	warehouses warehouse.Repository,
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
		ledger:     ledgerSvc,
		numbers:    numerator.New(repo),
		txManager:  txManager,
		sink:       sink,
		events:     events,
	}
}

func (s *Service) publish(ctx context.Context, reqID id.ID, eventType string, payload any) error {
	return s.events.Publish(ctx, event.Event{
		AggregateType: "requisition",
		AggregateID:   reqID,
		Type:          eventType,
		Payload:       payload,
	})
}

// Create registers a PENDING requisition. Both warehouses must exist, be
// active, differ, and belong to the same property; transfers never cross
// property boundaries.
func (s *Service) Create(ctx context.Context, propertyID string, sourceID, destID id.ID, requestedBy string, lines []RequestedLine) (*Requisition, error) {
	req := NewRequisition(propertyID, sourceID, destID, requestedBy, lines)
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	source, err := s.warehouses.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	dest, err := s.warehouses.GetByID(ctx, destID)
	if err != nil {
		return nil, err
	}
	for _, wh := range []*warehouse.Warehouse{source, dest} {
		if !wh.IsActive {
			return nil, apperror.NewValidation("warehouse is not active").
				WithDetail("warehouse_id", wh.ID.String())
		}
		if wh.PropertyID != propertyID {
			return nil, apperror.NewValidation("warehouse belongs to another property").
				WithDetail("warehouse_id", wh.ID.String())
		}
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		number, err := s.numbers.NextNumber(ctx, numerator.DefaultConfig("REQ"), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		req.Number = number

		if err := s.repo.Create(ctx, req); err != nil {
			return fmt.Errorf("create requisition: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, req.ID, audit.ActionCreated, requestedBy).
		WithDetail("number", req.Number))

	logger.Info(ctx, "requisition created",
		"id", req.ID,
		"number", req.Number,
		"source_warehouse_id", sourceID,
		"dest_warehouse_id", destID,
	)
	return req, nil
}

// Approve moves PENDING to APPROVED.
func (s *Service) Approve(ctx context.Context, reqID id.ID, approverID string) error {
	if approverID == "" {
		return apperror.NewValidation("approver is required").WithDetail("field", "approverId")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		req, err := s.repo.GetForUpdate(ctx, reqID)
		if err != nil {
			return err
		}
		if err := transition(req, StatusApproved); err != nil {
			return err
		}
		now := time.Now().UTC()
		req.ApprovedBy = approverID
		req.ApprovedAt = &now
		if err := s.repo.Update(ctx, req); err != nil {
			return err
		}
		return s.publish(ctx, req.ID, event.TypeRequisitionApproved, map[string]any{
			"number":   req.Number,
			"approver": approverID,
		})
	})
	if err != nil {
		return err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, reqID, audit.ActionApproved, approverID))
	return nil
}

// Reject terminally refuses a PENDING requisition. The reason is mandatory
// and is kept on the requisition notes.
func (s *Service) Reject(ctx context.Context, reqID id.ID, approverID, reason string) error {
	if reason == "" {
		return apperror.NewValidation("rejection reason is required").WithDetail("field", "reason")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		req, err := s.repo.GetForUpdate(ctx, reqID)
		if err != nil {
			return err
		}
		if err := transition(req, StatusRejected); err != nil {
			return err
		}
		req.AppendNote("rejected: " + reason)
		return s.repo.Update(ctx, req)
	})
	if err != nil {
		return err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, reqID, audit.ActionRejected, approverID).
		WithDetail("reason", reason))
	return nil
}

// FulfillLine is one line of a fulfillment request.
type FulfillLine struct {
	ItemID   id.ID
	Quantity decimal.Decimal
}

// Fulfill records stock transfers for an APPROVED or PARTIALLY_FULFILLED
// requisition. Zero-quantity lines are skipped, so callers may send the full
// requested list with zeros on lines they are not touching. Every effective
// line is validated against its remaining quantity and against source
// warehouse availability before any ledger write; a shortage on any line
// rejects the whole call with the complete shortfall set.
func (s *Service) Fulfill(ctx context.Context, reqID id.ID, actorID string, lines []FulfillLine) (*Requisition, error) {
	if actorID == "" {
		return nil, apperror.NewValidation("actor is required").WithDetail("field", "actorId")
	}
	for _, line := range lines {
		if line.Quantity.IsNegative() {
			return nil, apperror.NewValidation("fulfillment quantity cannot be negative").
				WithDetail("item_id", line.ItemID.String())
		}
	}
	effective := make([]FulfillLine, 0, len(lines))
	for _, line := range lines {
		if line.Quantity.IsPositive() {
			effective = append(effective, line)
		}
	}
	if len(effective) == 0 {
		return nil, apperror.NewValidation("at least one fulfillment line with a positive quantity is required")
	}
	lines = effective

	var req *Requisition
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.repo.GetForUpdate(ctx, reqID)
		if err != nil {
			return err
		}
		if !req.Status.CanFulfill() {
			return apperror.NewBusinessRule(apperror.CodeInvalidTransition,
				fmt.Sprintf("cannot fulfill requisition in status %s", req.Status)).
				WithDetail("status", string(req.Status))
		}

		// Pass one: every line must belong to the requisition and fit within
		// its remaining quantity. Duplicates in one request accumulate.
		requested := make(map[id.ID]decimal.Decimal, len(lines))
		for _, line := range lines {
			item := req.FindItem(line.ItemID)
			if item == nil {
				return apperror.NewNotFound("requisition line", line.ItemID.String())
			}
			total := requested[line.ItemID].Add(types.RoundQuantity(line.Quantity))
			if total.GreaterThan(item.Remaining()) {
				return apperror.NewBusinessRule(apperror.CodeBusinessRule,
					"fulfillment exceeds remaining requested quantity").
					WithDetail("item_id", line.ItemID.String()).
					WithDetail("requested", total.String()).
					WithDetail("remaining", item.Remaining().String())
			}
			requested[line.ItemID] = total
		}

		// Pass two: availability across all lines, reported in full.
		requirements := make([]ledger.Requirement, 0, len(requested))
		for itemID, qty := range requested {
			requirements = append(requirements, ledger.Requirement{ItemID: itemID, Quantity: qty})
		}
		shortfalls, err := s.ledger.CheckAvailability(ctx, req.SourceWarehouseID, requirements)
		if err != nil {
			return err
		}
		if len(shortfalls) > 0 {
			bulk := make([]apperror.StockShortfall, 0, len(shortfalls))
			for _, sf := range shortfalls {
				bulk = append(bulk, apperror.StockShortfall{
					ItemID:    sf.ItemID.String(),
					Requested: sf.Requested.String(),
					Available: sf.Available.String(),
				})
			}
			return apperror.NewInsufficientStockBulk(bulk)
		}

		ref := ledger.Reference{Type: ledger.RefRequisition, ID: req.ID}
		for _, line := range lines {
			item := req.FindItem(line.ItemID)

			if err := s.ledger.ApplyTransfer(ctx, ledger.TransferEntry{
				ItemID:            line.ItemID,
				SourceWarehouseID: req.SourceWarehouseID,
				DestWarehouseID:   req.DestWarehouseID,
				Quantity:          line.Quantity,
			}, ref, actorID); err != nil {
				return err
			}

			item.FulfilledQty = types.RoundQuantity(item.FulfilledQty.Add(types.RoundQuantity(line.Quantity)))
			if err := s.repo.UpdateItemFulfilledQty(ctx, *item); err != nil {
				return fmt.Errorf("update fulfilled qty: %w", err)
			}
		}

		newStatus := StatusPartiallyFulfilled
		if req.AllFulfilled() {
			newStatus = StatusFulfilled
		}
		if err := transition(req, newStatus); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, req); err != nil {
			return err
		}
		return s.publish(ctx, req.ID, event.TypeRequisitionFulfilled, map[string]any{
			"number": req.Number,
			"status": newStatus,
		})
	})
	if err != nil {
		return nil, err
	}

	s.sink.Record(ctx, audit.NewEvent(entityName, reqID, audit.ActionFulfilled, actorID).
		WithDetail("lines", len(lines)).
		WithDetail("status", string(req.Status)))

	logger.Info(ctx, "requisition fulfilled",
		"id", reqID,
		"lines", len(lines),
		"status", req.Status,
	)
	return req, nil
}

// CheckAvailability reports, without any side effect, which remaining lines
// of a requisition the source warehouse cannot currently serve.
func (s *Service) CheckAvailability(ctx context.Context, reqID id.ID) ([]ledger.Shortfall, error) {
	req, err := s.repo.GetByID(ctx, reqID)
	if err != nil {
		return nil, err
	}

	requirements := make([]ledger.Requirement, 0, len(req.Items))
	for _, item := range req.Items {
		if remaining := item.Remaining(); remaining.IsPositive() {
			requirements = append(requirements, ledger.Requirement{ItemID: item.ItemID, Quantity: remaining})
		}
	}
	return s.ledger.CheckAvailability(ctx, req.SourceWarehouseID, requirements)
}

// GetByID retrieves a requisition with items.
func (s *Service) GetByID(ctx context.Context, reqID id.ID) (*Requisition, error) {
	return s.repo.GetByID(ctx, reqID)
}

// List retrieves requisitions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Requisition, error) {
	return s.repo.List(ctx, filter)
}

// GetPendingForApproval returns PENDING requisitions drawing on a source
// warehouse, for the storekeeper's approval queue.
func (s *Service) GetPendingForApproval(ctx context.Context, sourceWarehouseID id.ID) ([]*Requisition, error) {
	status := StatusPending
	return s.repo.List(ctx, ListFilter{Status: &status, SourceWarehouseID: &sourceWarehouseID})
}

// GetReadyForFulfillment returns APPROVED requisitions drawing on a source
// warehouse.
func (s *Service) GetReadyForFulfillment(ctx context.Context, sourceWarehouseID id.ID) ([]*Requisition, error) {
	status := StatusApproved
	return s.repo.List(ctx, ListFilter{Status: &status, SourceWarehouseID: &sourceWarehouseID})
}

func transition(req *Requisition, target Status) error {
	if !req.Status.CanTransitionTo(target) {
		return apperror.NewInvalidTransition(entityName, string(req.Status), string(target))
	}
	req.Status = target
	req.Touch()
	return nil
}
