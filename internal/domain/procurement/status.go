package procurement

// Status is the purchase order lifecycle state.
type Status string

const (
	StatusDraft             Status = "DRAFT"
	StatusPendingApproval   Status = "PENDING_APPROVAL"
	StatusApproved          Status = "APPROVED"
	StatusSent              Status = "SENT"
	StatusPartiallyReceived Status = "PARTIALLY_RECEIVED"
	StatusReceived          Status = "RECEIVED"
	StatusClosed            Status = "CLOSED"
	StatusCancelled         Status = "CANCELLED"
)

// transitions is the closed set of legal status moves. The self-transition on
// PARTIALLY_RECEIVED covers repeated partial receipts.
var transitions = map[Status][]Status{
	StatusDraft:             {StatusPendingApproval, StatusCancelled},
	StatusPendingApproval:   {StatusApproved, StatusDraft, StatusCancelled},
	StatusApproved:          {StatusSent, StatusCancelled},
	StatusSent:              {StatusPartiallyReceived, StatusReceived, StatusCancelled},
	StatusPartiallyReceived: {StatusPartiallyReceived, StatusReceived, StatusCancelled},
	StatusReceived:          {StatusClosed},
	StatusClosed:            {},
	StatusCancelled:         {},
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the workflow is complete. Terminal orders cannot
// be cancelled; RECEIVED only admits the CLOSED bookkeeping step.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusReceived, StatusClosed, StatusCancelled:
		return true
	}
	return false
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanReceive reports whether goods may be received against this status.
func (s Status) CanReceive() bool {
	return s == StatusSent || s == StatusPartiallyReceived
}
