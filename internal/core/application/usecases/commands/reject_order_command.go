package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand represents the store declining a paid order while it is
// still PENDING. Handling it releases the stock reservation and notifies the
// customer through an OrderRejected event.
type RejectOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.OrderID
	reason  string

	guard guard.ConstructorGuard
}

// NewRejectOrderCommand creates a command for the store's rejection.
// A reason is required; the customer paid and deserves one.
func NewRejectOrderCommand(orderID kernel.OrderID, reason string) (RejectOrderCommand, error) {
	cmd := RejectOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return RejectOrderCommand{}, err
	}
	if reason == "" {
		return RejectOrderCommand{}, errs.NewValueIsRequiredError("reason")
	}
	cmd.orderID = orderID
	cmd.reason = reason
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

// OrderID returns the rejected order.
func (c RejectOrderCommand) OrderID() kernel.OrderID { return c.orderID }

// Reason returns the store's reason.
func (c RejectOrderCommand) Reason() string { return c.reason }
