// Package event defines the domain event publisher used by the workflow
// services. Events are written through a transactional outbox: they commit
// or roll back together with the state change that caused them.
package event

import (
	"context"

	"innkeep/internal/core/id"
)

// Event types emitted by the workflows.
const (
	TypeOrderSubmitted       = "purchase_order.submitted"
	TypeOrderApproved        = "purchase_order.approved"
	TypeOrderSent            = "purchase_order.sent"
	TypeOrderReceived        = "purchase_order.received"
	TypeOrderCancelled       = "purchase_order.cancelled"
	TypeRequisitionApproved  = "requisition.approved"
	TypeRequisitionFulfilled = "requisition.fulfilled"
)

// Event is one domain occurrence published to downstream consumers.
type Event struct {
	AggregateType string
	AggregateID   id.ID
	Type          string
	Payload       any
}

// Publisher writes events. Implementations must be called inside the
// transaction that produces the state change.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards events. Used in tests.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }
