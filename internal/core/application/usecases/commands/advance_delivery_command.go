package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAdvanceDeliveryCommandIsNotConstructed = errors.New(
	"AdvanceDeliveryCommand must be created via NewAdvanceDeliveryCommand constructor",
)

// AdvanceDeliveryCommand represents a rider-reported delivery progression:
// picked up at the store, en route, handed over. Rider assignment is not an
// advance; it goes through RecordRiderDecisionCommand.
type AdvanceDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.DeliveryID
	next       delivery.Status

	guard guard.ConstructorGuard
}

// NewAdvanceDeliveryCommand creates a command advancing a delivery.
func NewAdvanceDeliveryCommand(
	deliveryID kernel.DeliveryID,
	next delivery.Status,
) (AdvanceDeliveryCommand, error) {
	cmd := AdvanceDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(deliveryID.Validate(), next.Validate()); err != nil {
		return AdvanceDeliveryCommand{}, err
	}
	cmd.deliveryID = deliveryID
	cmd.next = next
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery to advance.
func (c AdvanceDeliveryCommand) DeliveryID() kernel.DeliveryID { return c.deliveryID }

// Next returns the reported target status.
func (c AdvanceDeliveryCommand) Next() delivery.Status { return c.next }
