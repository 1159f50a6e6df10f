package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// OrderLine is one requested product line at checkout. The unit price is the
// price shown to the customer; it is frozen into the order item snapshot.
type OrderLine struct {
	ProductID kernel.ProductID
	UnitPrice kernel.Money
	Quantity  int
}

// PlaceOrderCommand represents a paid checkout: the customer, the store, the
// destination and the product lines. Handling it creates the order, reserves
// stock and emits the paid-order events in one transaction.
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	customerID    kernel.CustomerID
	storeID       kernel.StoreID
	address       string
	note          string
	deliveryPrice kernel.Money
	lines         []OrderLine

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand creates a command to place an order.
// Requires a valid customer and store, a non-empty address and at least one
// line with a positive quantity.
func NewPlaceOrderCommand(
	customerID kernel.CustomerID,
	storeID kernel.StoreID,
	address string,
	note string,
	deliveryPrice kernel.Money,
	lines []OrderLine,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setStoreID(storeID),
		cmd.setAddress(address),
		cmd.setLines(lines),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	cmd.note = note
	cmd.deliveryPrice = deliveryPrice
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

// CustomerID returns the ordering customer.
func (c PlaceOrderCommand) CustomerID() kernel.CustomerID { return c.customerID }

// StoreID returns the selling store.
func (c PlaceOrderCommand) StoreID() kernel.StoreID { return c.storeID }

// Address returns the delivery destination.
func (c PlaceOrderCommand) Address() string { return c.address }

// Note returns the customer note for the store.
func (c PlaceOrderCommand) Note() string { return c.note }

// DeliveryPrice returns the delivery fee agreed at checkout.
func (c PlaceOrderCommand) DeliveryPrice() kernel.Money { return c.deliveryPrice }

// Lines returns the requested product lines.
func (c PlaceOrderCommand) Lines() []OrderLine {
	return append([]OrderLine(nil), c.lines...)
}

func (c *PlaceOrderCommand) setCustomerID(customerID kernel.CustomerID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	c.customerID = customerID
	return nil
}

func (c *PlaceOrderCommand) setStoreID(storeID kernel.StoreID) error {
	if err := storeID.Validate(); err != nil {
		return err
	}
	c.storeID = storeID
	return nil
}

func (c *PlaceOrderCommand) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}
	c.address = address
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return err
		}
		if line.Quantity <= 0 {
			return errs.NewValueIsInvalidError("quantity")
		}
	}
	c.lines = append([]OrderLine(nil), lines...)
	return nil
}
