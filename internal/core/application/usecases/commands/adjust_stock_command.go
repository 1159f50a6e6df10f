package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAdjustStockCommandIsNotConstructed = errors.New(
	"AdjustStockCommand must be created via NewAdjustStockCommand or NewSetStockQuantityCommand constructor",
)

// AdjustStockCommand represents an administrative stock mutation: either a
// signed delta (restock, shrinkage correction) or an absolute override from a
// warehouse count.
type AdjustStockCommand struct { //nolint:recvcheck //using for validation
	productID kernel.ProductID
	quantity  int
	absolute  bool

	guard guard.ConstructorGuard
}

// NewAdjustStockCommand creates a command applying a signed delta to a
// product's stock. A zero delta is rejected as a likely caller bug.
func NewAdjustStockCommand(productID kernel.ProductID, delta int) (AdjustStockCommand, error) {
	cmd := AdjustStockCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := productID.Validate(); err != nil {
		return AdjustStockCommand{}, err
	}
	if delta == 0 {
		return AdjustStockCommand{}, errs.NewValueIsInvalidError("delta")
	}
	cmd.productID = productID
	cmd.quantity = delta
	return cmd, nil
}

// NewSetStockQuantityCommand creates a command overriding a product's stock
// with an absolute non-negative quantity.
func NewSetStockQuantityCommand(productID kernel.ProductID, quantity int) (AdjustStockCommand, error) {
	cmd := AdjustStockCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := productID.Validate(); err != nil {
		return AdjustStockCommand{}, err
	}
	if quantity < 0 {
		return AdjustStockCommand{}, errs.NewValueIsInvalidError("quantity")
	}
	cmd.productID = productID
	cmd.quantity = quantity
	cmd.absolute = true
	return cmd, nil
}

// Validate ensures the command was created through a constructor.
func (c AdjustStockCommand) Validate() error {
	return c.guard.Validate(ErrAdjustStockCommandIsNotConstructed)
}

// ProductID returns the product whose stock changes.
func (c AdjustStockCommand) ProductID() kernel.ProductID { return c.productID }

// Quantity returns the delta, or the absolute target when IsAbsolute.
func (c AdjustStockCommand) Quantity() int { return c.quantity }

// IsAbsolute reports whether the quantity overrides instead of adjusting.
func (c AdjustStockCommand) IsAbsolute() bool { return c.absolute }
