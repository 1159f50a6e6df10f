package order

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// Order is the aggregate root of the order lifecycle. It belongs to a store
// and a customer, owns its item snapshots exclusively and carries the monetary
// breakdown (store price + delivery price = total price).
//
// Invariants:
//   - status transitions go through the transition table only
//   - items are immutable once the order leaves PENDING
//   - the delivery reference is set at most once, when the store accepts
type Order struct {
	id         kernel.OrderID
	storeID    kernel.StoreID
	customerID kernel.CustomerID
	items      []Item

	status Status

	storePrice    kernel.Money
	deliveryPrice kernel.Money
	totalPrice    kernel.Money

	address string
	note    string

	deliveryID *kernel.DeliveryID

	isConstructed bool
}

// NewOrder creates a PENDING order from item snapshots. The store price is the
// sum of the line prices and the total adds the delivery price on top.
func NewOrder(
	id kernel.OrderID,
	storeID kernel.StoreID,
	customerID kernel.CustomerID,
	address string,
	note string,
	deliveryPrice kernel.Money,
	items []Item,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		storeID.Validate(),
		customerID.Validate(),
	); err != nil {
		return nil, err
	}
	if address == "" {
		return nil, errs.NewValueIsRequiredError("address")
	}
	if len(items) == 0 {
		return nil, errs.NewValueIsRequiredError("items")
	}

	storePrice := kernel.ZeroMoney()
	for _, item := range items {
		storePrice = storePrice.Add(item.LinePrice())
	}

	return &Order{
		id:            id,
		storeID:       storeID,
		customerID:    customerID,
		items:         append([]Item(nil), items...),
		status:        StatusPending,
		storePrice:    storePrice,
		deliveryPrice: deliveryPrice,
		totalPrice:    storePrice.Add(deliveryPrice),
		address:       address,
		note:          note,
		isConstructed: true,
	}, nil
}

// RestoreOrder reconstructs an order from persistence without re-running the
// creation rules. The stored status must still be a known one.
func RestoreOrder(
	id kernel.OrderID,
	storeID kernel.StoreID,
	customerID kernel.CustomerID,
	address string,
	note string,
	storePrice kernel.Money,
	deliveryPrice kernel.Money,
	status Status,
	items []Item,
	deliveryID *kernel.DeliveryID,
) (*Order, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		id:            id,
		storeID:       storeID,
		customerID:    customerID,
		items:         append([]Item(nil), items...),
		status:        status,
		storePrice:    storePrice,
		deliveryPrice: deliveryPrice,
		totalPrice:    storePrice.Add(deliveryPrice),
		address:       address,
		note:          note,
		deliveryID:    deliveryID,
		isConstructed: true,
	}, nil
}

// Validate ensures the order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order identifier.
func (o *Order) ID() kernel.OrderID { return o.id }

// StoreID returns the selling store.
func (o *Order) StoreID() kernel.StoreID { return o.storeID }

// CustomerID returns the ordering customer.
func (o *Order) CustomerID() kernel.CustomerID { return o.customerID }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// Items returns a copy of the item snapshots.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// StorePrice returns the sum of all line prices.
func (o *Order) StorePrice() kernel.Money { return o.storePrice }

// DeliveryPrice returns the delivery fee.
func (o *Order) DeliveryPrice() kernel.Money { return o.deliveryPrice }

// TotalPrice returns store price plus delivery price.
func (o *Order) TotalPrice() kernel.Money { return o.totalPrice }

// Address returns the delivery address captured at checkout.
func (o *Order) Address() string { return o.address }

// Note returns the customer note for the store.
func (o *Order) Note() string { return o.note }

// DeliveryID returns the attached delivery, or nil before store acceptance.
func (o *Order) DeliveryID() *kernel.DeliveryID { return o.deliveryID }

// TransitTo moves the order to the target status when the transition table
// allows it. On an illegal transition the order is left untouched and an
// InvalidTransitionError{From,To} is returned; transitions are never retried
// by the aggregate itself.
func (o *Order) TransitTo(next Status) error {
	newStatus, err := o.status.TransitTo(next)
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// AddItem appends an item snapshot. Only allowed while the order is PENDING;
// a paid order's item list is immutable.
func (o *Order) AddItem(item Item) error {
	if o.status != StatusPending {
		return errs.NewValueIsInvalidErrorWithCause("items",
			errors.New("items are frozen once the order leaves PENDING"))
	}
	o.items = append(o.items, item)
	o.storePrice = o.storePrice.Add(item.LinePrice())
	o.totalPrice = o.storePrice.Add(o.deliveryPrice)
	return nil
}

// AttachDelivery records the delivery created for this order.
// The reference is write-once.
func (o *Order) AttachDelivery(deliveryID kernel.DeliveryID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}
	if o.deliveryID != nil {
		return errs.NewValueIsInvalidErrorWithCause("deliveryId",
			errors.New("order already has a delivery"))
	}
	o.deliveryID = &deliveryID
	return nil
}
