// Package events defines the domain events emitted by the order/dispatch
// pipeline and the JSON envelope they travel in.
//
// Events are immutable, carry only primitive values and IDs (never live
// entity graphs) and are published at-least-once: every event has a unique
// EventID so consumers can dedupe redeliveries.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Topics the pipeline publishes to. Ordering is preserved per producer per
// topic by the broker but consumers must not rely on it.
const (
	TopicOrders     = "orders"
	TopicDeliveries = "deliveries"
	TopicPayments   = "payments"
)

// Event names, used as the envelope discriminator.
const (
	NameOrderCreated          = "order.created"
	NameOrderPaid             = "order.paid"
	NameOrderPaidForSeller    = "order.paid_for_seller"
	NameOrderPreparing        = "order.preparing"
	NameOrderCanceled         = "order.canceled"
	NameOrderCancelFailed     = "order.cancel_failed"
	NameOrderRejected         = "order.rejected"
	NameOrderCompleted        = "order.completed"
	NamePaymentCompleted      = "payment.completed"
	NamePaymentFailed         = "payment.failed"
	NameDeliveryStatusChanged = "delivery.status_changed"
	NameRiderDecision         = "delivery.rider_decision"
)

// DomainEvent is the closed set of events crossing the commit boundary.
type DomainEvent interface {
	// EventID is the per-event dedupe key for at-least-once consumers.
	EventID() uuid.UUID
	// EventName returns the envelope discriminator.
	EventName() string
	// Topic returns the broker topic the event belongs to.
	Topic() string
	// OccurredAt returns when the event was raised.
	OccurredAt() time.Time
}

// Meta is the shared identity of every event. Embedded by each variant.
type Meta struct {
	ID uuid.UUID `json:"event_id"`
	At time.Time `json:"occurred_at"`
}

// NewMeta stamps a fresh event identity.
func NewMeta(now time.Time) Meta {
	return Meta{ID: uuid.New(), At: now.UTC()}
}

// EventID implements DomainEvent.
func (m Meta) EventID() uuid.UUID { return m.ID }

// OccurredAt implements DomainEvent.
func (m Meta) OccurredAt() time.Time { return m.At }

// ItemLine is the primitive projection of one order item inside an event.
type ItemLine struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderCreated fires when a new order is durably persisted.
type OrderCreated struct {
	Meta
	OrderID    int64           `json:"order_id"`
	StoreID    int64           `json:"store_id"`
	CustomerID int64           `json:"customer_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func (OrderCreated) EventName() string { return NameOrderCreated }
func (OrderCreated) Topic() string     { return TopicOrders }

// OrderPaid notifies the customer that payment for the order went through.
type OrderPaid struct {
	Meta
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func (OrderPaid) EventName() string { return NameOrderPaid }
func (OrderPaid) Topic() string     { return TopicOrders }

// OrderPaidForSeller carries the seller-facing view of a paid order: the item
// snapshot, the destination and the customer note.
type OrderPaidForSeller struct {
	Meta
	OrderID    int64           `json:"order_id"`
	SellerID   int64           `json:"seller_id"`
	Items      []ItemLine      `json:"items"`
	Address    string          `json:"address"`
	Note       string          `json:"note,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func (OrderPaidForSeller) EventName() string { return NameOrderPaidForSeller }
func (OrderPaidForSeller) Topic() string     { return TopicOrders }

// OrderPreparing fires when the store accepts the order.
type OrderPreparing struct {
	Meta
	OrderID    int64 `json:"order_id"`
	CustomerID int64 `json:"customer_id"`
	SellerID   int64 `json:"seller_id"`
}

func (OrderPreparing) EventName() string { return NameOrderPreparing }
func (OrderPreparing) Topic() string     { return TopicOrders }

// OrderCanceled fires after a successful cancellation (stock restored).
type OrderCanceled struct {
	Meta
	OrderID    int64  `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	SellerID   int64  `json:"seller_id"`
	Reason     string `json:"reason,omitempty"`
}

func (OrderCanceled) EventName() string { return NameOrderCanceled }
func (OrderCanceled) Topic() string     { return TopicOrders }

// OrderCancelFailed tells the customer a cancellation attempt was rejected.
type OrderCancelFailed struct {
	Meta
	OrderID    int64  `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	Reason     string `json:"reason"`
}

func (OrderCancelFailed) EventName() string { return NameOrderCancelFailed }
func (OrderCancelFailed) Topic() string     { return TopicOrders }

// OrderRejected fires when no rider could be matched within the matching
// window, or the store declined the order.
type OrderRejected struct {
	Meta
	OrderID    int64  `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	SellerID   int64  `json:"seller_id"`
	Reason     string `json:"reason"`
}

func (OrderRejected) EventName() string { return NameOrderRejected }
func (OrderRejected) Topic() string     { return TopicOrders }

// OrderCompleted is the settlement trigger. The external settlement component
// consumes it and dedupes on (order_id, target_type).
type OrderCompleted struct {
	Meta
	OrderID       int64           `json:"order_id"`
	SellerID      int64           `json:"seller_id"`
	RiderID       int64           `json:"rider_id"`
	StorePrice    decimal.Decimal `json:"store_price"`
	DeliveryPrice decimal.Decimal `json:"delivery_price"`
}

func (OrderCompleted) EventName() string { return NameOrderCompleted }
func (OrderCompleted) Topic() string     { return TopicOrders }

// PaymentCompleted fires when the payment collaborator confirms capture.
type PaymentCompleted struct {
	Meta
	OrderID    int64           `json:"order_id"`
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
}

func (PaymentCompleted) EventName() string { return NamePaymentCompleted }
func (PaymentCompleted) Topic() string     { return TopicPayments }

// PaymentFailed fires when the payment collaborator reports a failure.
type PaymentFailed struct {
	Meta
	OrderID    int64  `json:"order_id"`
	CustomerID int64  `json:"customer_id"`
	Reason     string `json:"reason"`
}

func (PaymentFailed) EventName() string { return NamePaymentFailed }
func (PaymentFailed) Topic() string     { return TopicPayments }

// DeliveryStatusChanged fires on every successful delivery advance, carrying
// both endpoints of the transition so consumers can replay idempotently.
type DeliveryStatusChanged struct {
	Meta
	DeliveryID int64  `json:"delivery_id"`
	OrderID    int64  `json:"order_id"`
	RiderID    int64  `json:"rider_id,omitempty"`
	CustomerID int64  `json:"customer_id"`
	SellerID   int64  `json:"seller_id"`
	Status     string `json:"status"`
	NextStatus string `json:"next_status"`
}

func (DeliveryStatusChanged) EventName() string { return NameDeliveryStatusChanged }
func (DeliveryStatusChanged) Topic() string     { return TopicDeliveries }

// Decision is a rider's answer to a delivery offer.
type Decision string

const (
	DecisionAccept Decision = "ACCEPT"
	DecisionReject Decision = "REJECT"
)

// RiderDecision records a rider accepting or rejecting an offered delivery.
type RiderDecision struct {
	Meta
	OrderID    int64    `json:"order_id"`
	RiderID    int64    `json:"rider_id"`
	Decision   Decision `json:"decision"`
	EtaMinutes float64  `json:"eta_minutes,omitempty"`
}

func (RiderDecision) EventName() string { return NameRiderDecision }
func (RiderDecision) Topic() string     { return TopicDeliveries }
