package requisition

// Status is the lifecycle state of an internal requisition.
type Status string

const (
	StatusPending            Status = "PENDING"
	StatusApproved           Status = "APPROVED"
	StatusPartiallyFulfilled Status = "PARTIALLY_FULFILLED"
	StatusFulfilled          Status = "FULFILLED"
	StatusRejected           Status = "REJECTED"
)

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusPartiallyFulfilled, StatusFulfilled},
	// Staying partially fulfilled across several transfer events is legal.
	StatusPartiallyFulfilled: {StatusPartiallyFulfilled, StatusFulfilled},
	StatusFulfilled:          {},
	StatusRejected:           {},
}

// CanTransitionTo reports whether moving from s to target is allowed.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanFulfill reports whether stock transfers may be recorded in status s.
func (s Status) CanFulfill() bool {
	return s == StatusApproved || s == StatusPartiallyFulfilled
}

// IsValid reports whether s is a known status value.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}
