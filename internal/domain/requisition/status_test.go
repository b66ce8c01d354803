package requisition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusFulfilled, false},
		{StatusApproved, StatusPartiallyFulfilled, true},
		{StatusApproved, StatusFulfilled, true},
		{StatusApproved, StatusRejected, false},
		{StatusPartiallyFulfilled, StatusPartiallyFulfilled, true},
		{StatusPartiallyFulfilled, StatusFulfilled, true},
		{StatusPartiallyFulfilled, StatusRejected, false},
		{StatusFulfilled, StatusPartiallyFulfilled, false},
		{StatusRejected, StatusApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusCanFulfill(t *testing.T) {
	assert.True(t, StatusApproved.CanFulfill())
	assert.True(t, StatusPartiallyFulfilled.CanFulfill())
	assert.False(t, StatusPending.CanFulfill())
	assert.False(t, StatusFulfilled.CanFulfill())
	assert.False(t, StatusRejected.CanFulfill())
}

func TestStatusIsTerminal(t *testing.T) {
	assert.True(t, StatusFulfilled.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusApproved.IsTerminal())
	assert.False(t, StatusPartiallyFulfilled.IsTerminal())
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusApproved, StatusPartiallyFulfilled, StatusFulfilled, StatusRejected} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, Status("SHIPPED").IsValid())
}
