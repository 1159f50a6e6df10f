package order

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Item is a snapshot of one ordered product line. Price and quantity are
// frozen at order time and must not track the live product price.
type Item struct {
	productID kernel.ProductID
	unitPrice kernel.Money
	quantity  int
}

// NewItem creates an order item snapshot.
func NewItem(productID kernel.ProductID, unitPrice kernel.Money, quantity int) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			errors.New("must be greater than 0"))
	}
	return Item{productID: productID, unitPrice: unitPrice, quantity: quantity}, nil
}

// ProductID returns the product this line refers to.
func (i Item) ProductID() kernel.ProductID {
	return i.productID
}

// UnitPrice returns the per-unit price captured at order time.
func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// LinePrice returns unit price times quantity.
func (i Item) LinePrice() kernel.Money {
	return i.unitPrice.Mul(int64(i.quantity))
}
