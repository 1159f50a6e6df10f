package order

import (
	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusPreparing     Status = "PREPARING"
	StatusRiderAssigned Status = "RIDER_ASSIGNED"
	StatusDelivering    Status = "DELIVERING"
	StatusCompleted     Status = "COMPLETED"
	StatusRejected      Status = "REJECTED"
	StatusCancelled     Status = "CANCELLED"
)

// transitions is the allowed-next-states table. Statuses absent from a value
// list are unreachable from that key; terminal statuses have empty lists.
var transitions = map[Status][]Status{
	StatusPending:       {StatusPreparing, StatusRejected, StatusCancelled},
	StatusPreparing:     {StatusRiderAssigned, StatusRejected},
	StatusRiderAssigned: {StatusDelivering},
	StatusDelivering:    {StatusCompleted},
	StatusCompleted:     {},
	StatusRejected:      {},
	StatusCancelled:     {},
}

// AllStatuses returns every valid order status. Useful for exhaustive checks.
func AllStatuses() []Status {
	return []Status{
		StatusPending, StatusPreparing, StatusRiderAssigned,
		StatusDelivering, StatusCompleted, StatusRejected, StatusCancelled,
	}
}

// Validate checks that the status is one of the known lifecycle states.
func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return errs.NewValueIsInvalidError("order status " + string(s))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition leaves this status.
func (s Status) IsTerminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransitTo reports whether the transition s -> next is allowed.
// Pure function of (current, target); it has no side effects and is callable
// independent of persistence.
func (s Status) CanTransitTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitTo returns the next status when the transition is legal, or an
// InvalidTransitionError carrying both endpoints otherwise.
func (s Status) TransitTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return "", err
	}
	if !s.CanTransitTo(next) {
		return "", errs.NewInvalidTransitionError("order", string(s), string(next))
	}
	return next, nil
}
