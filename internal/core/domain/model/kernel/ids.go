package kernel

import "marketplace/internal/pkg/errs"

// Typed numeric identifiers for the aggregates of the marketplace.
// Keeping them distinct prevents accidentally passing a rider ID where an
// order ID is expected, at zero runtime cost.
type (
	OrderID        int64
	DeliveryID     int64
	ProductID      int64
	StoreID        int64
	CustomerID     int64
	RiderID        int64
	NotificationID int64
)

// Validate reports whether the ID refers to a persisted order.
func (id OrderID) Validate() error {
	return validateID(int64(id), "orderId")
}

// Validate reports whether the ID refers to a persisted delivery.
func (id DeliveryID) Validate() error {
	return validateID(int64(id), "deliveryId")
}

// Validate reports whether the ID refers to a persisted product.
func (id ProductID) Validate() error {
	return validateID(int64(id), "productId")
}

// Validate reports whether the ID refers to a persisted store.
func (id StoreID) Validate() error {
	return validateID(int64(id), "storeId")
}

// Validate reports whether the ID refers to a persisted customer profile.
func (id CustomerID) Validate() error {
	return validateID(int64(id), "customerId")
}

// Validate reports whether the ID refers to a persisted rider profile.
func (id RiderID) Validate() error {
	return validateID(int64(id), "riderId")
}

// Validate reports whether the ID refers to a persisted notification.
func (id NotificationID) Validate() error {
	return validateID(int64(id), "notificationId")
}

func validateID(raw int64, paramName string) error {
	if raw <= 0 {
		return errs.NewValueIsRequiredError(paramName)
	}
	return nil
}
