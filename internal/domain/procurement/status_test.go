package procurement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusPendingApproval, true},
		{StatusPendingApproval, StatusApproved, true},
		{StatusPendingApproval, StatusDraft, true},
		{StatusApproved, StatusSent, true},
		{StatusSent, StatusPartiallyReceived, true},
		{StatusSent, StatusReceived, true},
		{StatusPartiallyReceived, StatusPartiallyReceived, true},
		{StatusPartiallyReceived, StatusReceived, true},
		{StatusReceived, StatusClosed, true},

		{StatusDraft, StatusApproved, false},
		{StatusDraft, StatusSent, false},
		{StatusApproved, StatusReceived, false},
		{StatusReceived, StatusSent, false},
		{StatusClosed, StatusCancelled, false},
		{StatusCancelled, StatusDraft, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestStatusCancellableFromAnyNonTerminal(t *testing.T) {
	for _, s := range []Status{
		StatusDraft, StatusPendingApproval, StatusApproved,
		StatusSent, StatusPartiallyReceived,
	} {
		assert.True(t, s.CanTransitionTo(StatusCancelled), "from %s", s)
	}
	// fully received orders can only be closed
	for _, s := range []Status{StatusReceived, StatusClosed, StatusCancelled} {
		assert.False(t, s.CanTransitionTo(StatusCancelled), "from %s", s)
	}
}

func TestStatusCanReceive(t *testing.T) {
	assert.True(t, StatusSent.CanReceive())
	assert.True(t, StatusPartiallyReceived.CanReceive())
	assert.False(t, StatusApproved.CanReceive())
	assert.False(t, StatusDraft.CanReceive())
	assert.False(t, StatusReceived.CanReceive())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusReceived.IsTerminal())
	assert.True(t, StatusClosed.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusSent.IsTerminal())
	assert.False(t, StatusPartiallyReceived.IsTerminal())
}
