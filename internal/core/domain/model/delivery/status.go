package delivery

import (
	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery.
type Status string

const (
	StatusPending       Status = "PENDING"
	StatusRiderAssigned Status = "RIDER_ASSIGNED"
	StatusPickedUp      Status = "PICKED_UP"
	StatusInProgress    Status = "IN_PROGRESS"
	StatusCompleted     Status = "COMPLETED"
	StatusCanceled      Status = "CANCELED"
	StatusRejected      Status = "REJECTED"
)

// transitions enforces the monotonic progression; CANCELED and REJECTED are
// reachable from every non-terminal state, COMPLETED only from IN_PROGRESS.
var transitions = map[Status][]Status{
	StatusPending:       {StatusRiderAssigned, StatusCanceled, StatusRejected},
	StatusRiderAssigned: {StatusPickedUp, StatusCanceled, StatusRejected},
	StatusPickedUp:      {StatusInProgress, StatusCanceled, StatusRejected},
	StatusInProgress:    {StatusCompleted, StatusCanceled, StatusRejected},
	StatusCompleted:     {},
	StatusCanceled:      {},
	StatusRejected:      {},
}

// AllStatuses returns every valid delivery status.
func AllStatuses() []Status {
	return []Status{
		StatusPending, StatusRiderAssigned, StatusPickedUp,
		StatusInProgress, StatusCompleted, StatusCanceled, StatusRejected,
	}
}

// Validate checks that the status is a known lifecycle state.
func (s Status) Validate() error {
	if _, ok := transitions[s]; !ok {
		return errs.NewValueIsInvalidError("delivery status " + string(s))
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
func (s Status) CanTransitTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitTo returns the next status on a legal transition, or an
// InvalidTransitionError carrying both endpoints.
func (s Status) TransitTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return "", err
	}
	if !s.CanTransitTo(next) {
		return "", errs.NewInvalidTransitionError("delivery", string(s), string(next))
	}
	return next, nil
}
