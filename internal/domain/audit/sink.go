// Package audit defines the fire-and-forget audit sink consumed by the
// workflow services. Recording happens after the core transaction commits;
// a sink failure is logged and never propagated, so ledger atomicity is
// never entangled with audit delivery.
package audit

import (
	"context"
	"time"

	"innkeep/internal/core/id"
	"innkeep/pkg/logger"
)

// Action identifies the audited workflow event.
type Action string

const (
	ActionCreated     Action = "created"
	ActionSubmitted   Action = "submitted"
	ActionApproved    Action = "approved"
	ActionRejected    Action = "rejected"
	ActionSent        Action = "sent"
	ActionReceived    Action = "received"
	ActionFulfilled   Action = "fulfilled"
	ActionClosed      Action = "closed"
	ActionCancelled   Action = "cancelled"
	ActionDeactivated Action = "deactivated"
)

// Event is one workflow occurrence worth auditing.
type Event struct {
	EntityType string
	EntityID   id.ID
	Action     Action
	UserID     string
	Details    map[string]any
	OccurredAt time.Time
}

// Sink receives audit events. Implementations must be safe to call after the
// originating transaction has committed.
type Sink interface {
	Record(ctx context.Context, event Event)
}

// NewEvent builds an event stamped with the current time.
func NewEvent(entityType string, entityID id.ID, action Action, userID string) Event {
	return Event{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
}

// WithDetail adds a detail key to the event.
func (e Event) WithDetail(key string, value any) Event {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NopSink discards events. Used in tests and when auditing is disabled.
type NopSink struct{}

// Record implements Sink.
func (NopSink) Record(ctx context.Context, event Event) {}

// LogSink writes events to the structured log only.
type LogSink struct{}

// Record implements Sink.
func (LogSink) Record(ctx context.Context, event Event) {
	logger.Info(ctx, "audit event",
		"entity_type", event.EntityType,
		"entity_id", event.EntityID,
		"action", event.Action,
		"actor", event.UserID,
	)
}
