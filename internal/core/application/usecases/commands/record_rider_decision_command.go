package commands

import (
	"errors"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRecordRiderDecisionCommandIsNotConstructed = errors.New(
	"RecordRiderDecisionCommand must be created via NewRecordRiderDecisionCommand constructor",
)

// RecordRiderDecisionCommand represents a rider's answer to a delivery offer.
// An acceptance carries the rider's ETA estimate in minutes.
type RecordRiderDecisionCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.OrderID
	riderID    kernel.RiderID
	decision   events.Decision
	etaMinutes float64

	guard guard.ConstructorGuard
}

// NewRecordRiderDecisionCommand creates a command recording a rider decision.
func NewRecordRiderDecisionCommand(
	orderID kernel.OrderID,
	riderID kernel.RiderID,
	decision events.Decision,
	etaMinutes float64,
) (RecordRiderDecisionCommand, error) {
	cmd := RecordRiderDecisionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(orderID.Validate(), riderID.Validate()); err != nil {
		return RecordRiderDecisionCommand{}, err
	}
	if decision != events.DecisionAccept && decision != events.DecisionReject {
		return RecordRiderDecisionCommand{}, errs.NewValueIsInvalidError("decision")
	}
	if decision == events.DecisionAccept && etaMinutes < 0 {
		return RecordRiderDecisionCommand{}, errs.NewValueIsInvalidError("etaMinutes")
	}

	cmd.orderID = orderID
	cmd.riderID = riderID
	cmd.decision = decision
	cmd.etaMinutes = etaMinutes
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordRiderDecisionCommand) Validate() error {
	return c.guard.Validate(ErrRecordRiderDecisionCommandIsNotConstructed)
}

// OrderID returns the order whose delivery was offered.
func (c RecordRiderDecisionCommand) OrderID() kernel.OrderID { return c.orderID }

// RiderID returns the deciding rider.
func (c RecordRiderDecisionCommand) RiderID() kernel.RiderID { return c.riderID }

// Decision returns ACCEPT or REJECT.
func (c RecordRiderDecisionCommand) Decision() events.Decision { return c.decision }

// EtaMinutes returns the rider's ETA estimate for an acceptance.
func (c RecordRiderDecisionCommand) EtaMinutes() float64 { return c.etaMinutes }
