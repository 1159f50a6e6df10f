package delivery

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not
// created through NewDelivery or RestoreDelivery.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery")

// Delivery is the aggregate owned by the dispatch engine. It is logically 1:1
// with its order, copies the store and customer references from it, and tracks
// the rider assignment, the ETA and the riders already tried during matching.
type Delivery struct {
	id         kernel.DeliveryID
	orderID    kernel.OrderID
	storeID    kernel.StoreID
	customerID kernel.CustomerID
	riderID    *kernel.RiderID

	status Status

	expectedMinutes  float64
	remainingMinutes float64
	charge           kernel.Money

	requestedAt time.Time
	triedRiders []kernel.RiderID

	isConstructed bool
}

// NewDelivery creates a Pending delivery for an order entering preparation.
func NewDelivery(
	id kernel.DeliveryID,
	orderID kernel.OrderID,
	storeID kernel.StoreID,
	customerID kernel.CustomerID,
	charge kernel.Money,
	requestedAt time.Time,
) (*Delivery, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		storeID.Validate(),
		customerID.Validate(),
	); err != nil {
		return nil, err
	}

	return &Delivery{
		id:            id,
		orderID:       orderID,
		storeID:       storeID,
		customerID:    customerID,
		status:        StatusPending,
		charge:        charge,
		requestedAt:   requestedAt,
		isConstructed: true,
	}, nil
}

// RestoreDelivery reconstructs a delivery from persistence.
// A delivery past Pending must carry its rider.
func RestoreDelivery(
	id kernel.DeliveryID,
	orderID kernel.OrderID,
	storeID kernel.StoreID,
	customerID kernel.CustomerID,
	riderID *kernel.RiderID,
	status Status,
	expectedMinutes float64,
	remainingMinutes float64,
	charge kernel.Money,
	requestedAt time.Time,
	triedRiders []kernel.RiderID,
) (*Delivery, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if riderID == nil && (status == StatusRiderAssigned || status == StatusPickedUp ||
		status == StatusInProgress || status == StatusCompleted) {
		return nil, errs.NewValueIsRequiredError("riderId")
	}

	return &Delivery{
		id:               id,
		orderID:          orderID,
		storeID:          storeID,
		customerID:       customerID,
		riderID:          riderID,
		status:           status,
		expectedMinutes:  expectedMinutes,
		remainingMinutes: remainingMinutes,
		charge:           charge,
		requestedAt:      requestedAt,
		triedRiders:      append([]kernel.RiderID(nil), triedRiders...),
		isConstructed:    true,
	}, nil
}

// Validate ensures the delivery was built through a constructor.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// ID returns the delivery identifier.
func (d *Delivery) ID() kernel.DeliveryID { return d.id }

// OrderID returns the order this delivery fulfills.
func (d *Delivery) OrderID() kernel.OrderID { return d.orderID }

// StoreID returns the originating store.
func (d *Delivery) StoreID() kernel.StoreID { return d.storeID }

// CustomerID returns the receiving customer.
func (d *Delivery) CustomerID() kernel.CustomerID { return d.customerID }

// RiderID returns the assigned rider, or nil while unassigned.
func (d *Delivery) RiderID() *kernel.RiderID { return d.riderID }

// Status returns the current lifecycle status.
func (d *Delivery) Status() Status { return d.status }

// ExpectedMinutes returns the ETA recorded at rider assignment.
func (d *Delivery) ExpectedMinutes() float64 { return d.expectedMinutes }

// RemainingMinutes returns the last reported remaining time.
func (d *Delivery) RemainingMinutes() float64 { return d.remainingMinutes }

// Charge returns the delivery charge.
func (d *Delivery) Charge() kernel.Money { return d.charge }

// RequestedAt returns when the delivery entered the matching pool.
func (d *Delivery) RequestedAt() time.Time { return d.requestedAt }

// TriedRiders returns the riders that already rejected this delivery.
func (d *Delivery) TriedRiders() []kernel.RiderID {
	return append([]kernel.RiderID(nil), d.triedRiders...)
}

// HasTriedRider reports whether the rider already rejected this delivery.
func (d *Delivery) HasTriedRider(riderID kernel.RiderID) bool {
	for _, tried := range d.triedRiders {
		if tried == riderID {
			return true
		}
	}
	return false
}

// MarkRiderTried excludes a rider from further matching rounds.
func (d *Delivery) MarkRiderTried(riderID kernel.RiderID) {
	if !d.HasTriedRider(riderID) {
		d.triedRiders = append(d.triedRiders, riderID)
	}
}

// AssignRider assigns a rider and records the ETA. Valid only from Pending;
// any other status fails with DeliveryNotPendingError and leaves the delivery
// unchanged.
func (d *Delivery) AssignRider(riderID kernel.RiderID, etaMinutes float64) error {
	if err := riderID.Validate(); err != nil {
		return err
	}
	if d.status != StatusPending {
		return errs.NewDeliveryNotPendingError(int64(d.id), string(d.status))
	}
	if etaMinutes < 0 {
		return errs.NewValueIsInvalidError("etaMinutes")
	}

	d.riderID = &riderID
	d.status = StatusRiderAssigned
	d.expectedMinutes = etaMinutes
	d.remainingMinutes = etaMinutes
	return nil
}

// Advance moves the delivery to the next status along the monotonic
// progression. Advancing into RiderAssigned must go through AssignRider so the
// rider invariant holds.
func (d *Delivery) Advance(next Status) error {
	if next == StatusRiderAssigned && d.riderID == nil {
		return errs.NewValueIsRequiredError("riderId")
	}

	newStatus, err := d.status.TransitTo(next)
	if err != nil {
		return err
	}
	d.status = newStatus

	if newStatus.IsTerminal() {
		d.remainingMinutes = 0
	}
	return nil
}

// UpdateRemainingTime records the rider's reported remaining minutes.
func (d *Delivery) UpdateRemainingTime(minutes float64) error {
	if minutes < 0 {
		return errs.NewValueIsInvalidError("remainingMinutes")
	}
	if d.status.IsTerminal() {
		return errs.NewInvalidTransitionError("delivery", string(d.status), string(d.status))
	}
	d.remainingMinutes = minutes
	return nil
}
