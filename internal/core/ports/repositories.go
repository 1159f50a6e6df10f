// Package ports defines the contracts between the marketplace core and its
// infrastructure: repositories, the unit of work, the event broker and the
// external collaborators (rider directory, notification transport, search
// index). Adapters implement these; the core never imports an adapter.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/stock"
)

// OrderRepository is the persistence contract for order aggregates.
type OrderRepository interface {
	// NextID reserves a fresh order identifier.
	NextID(ctx context.Context) (kernel.OrderID, error)

	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. A concurrent writer
	// surfaces as a VersionConflictError; the state machine never retries.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its identifier.
	Get(ctx context.Context, id kernel.OrderID) (*order.Order, error)
}

// DeliveryRepository is the persistence contract for delivery aggregates.
type DeliveryRepository interface {
	// NextID reserves a fresh delivery identifier.
	NextID(ctx context.Context) (kernel.DeliveryID, error)

	// Add persists a new delivery aggregate.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery. Concurrent transition
	// attempts race on the row version; the loser gets a VersionConflictError.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery by its identifier.
	Get(ctx context.Context, id kernel.DeliveryID) (*delivery.Delivery, error)

	// GetByOrderID retrieves the delivery attached to an order.
	GetByOrderID(ctx context.Context, orderID kernel.OrderID) (*delivery.Delivery, error)

	// GetAllPending retrieves deliveries waiting in the matching pool.
	GetAllPending(ctx context.Context) ([]*delivery.Delivery, error)
}

// StockRepository is the persistence contract for stock rows.
// Every read returns the row with its current version; Update only succeeds
// when that version is still current (optimistic lock).
type StockRepository interface {
	// Add creates the stock row for a new product.
	Add(ctx context.Context, aggregate *stock.Stock) error

	// GetByProductID reads the stock row fresh, including its version.
	GetByProductID(ctx context.Context, productID kernel.ProductID) (*stock.Stock, error)

	// Update writes the row guarded by the version it was read with.
	// Returns a VersionConflictError when a concurrent writer got there first.
	Update(ctx context.Context, aggregate *stock.Stock) error
}

// NotificationRepository is the persistence contract for notification records.
type NotificationRepository interface {
	// NextID reserves a fresh notification identifier.
	NextID(ctx context.Context) (kernel.NotificationID, error)

	// Add persists a new notification.
	Add(ctx context.Context, aggregate *notification.Notification) error

	// Update persists the read flag.
	Update(ctx context.Context, aggregate *notification.Notification) error

	// Get retrieves a notification by its identifier.
	Get(ctx context.Context, id kernel.NotificationID) (*notification.Notification, error)

	// GetUnreadByRecipient lists a recipient's unread notifications.
	GetUnreadByRecipient(ctx context.Context, recipientID int64) ([]*notification.Notification, error)
}

// SettlementTargetType identifies which side of the split a detail belongs to.
type SettlementTargetType string

const (
	SettlementTargetSeller SettlementTargetType = "SELLER"
	SettlementTargetRider  SettlementTargetType = "RIDER"
)

// SettlementDetail is the record handed to the external settlement component.
// The (OrderID, TargetType) pair is unique; creating it twice is a no-op.
type SettlementDetail struct {
	OrderID    kernel.OrderID
	TargetType SettlementTargetType
	TargetID   int64
	Amount     kernel.Money
}

// SettlementRepository persists settlement details idempotently.
type SettlementRepository interface {
	// CreateIfAbsent inserts the detail unless (OrderID, TargetType) already
	// exists. Returns true when a row was created. This is what makes the
	// settlement consumer safe under at-least-once redelivery.
	CreateIfAbsent(ctx context.Context, detail SettlementDetail) (bool, error)

	// GetByOrderID lists the details recorded for an order.
	GetByOrderID(ctx context.Context, orderID kernel.OrderID) ([]SettlementDetail, error)
}
