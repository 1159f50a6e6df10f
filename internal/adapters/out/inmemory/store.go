// Package inmemory provides the map-backed adapter set used in local mode and
// in end-to-end tests: a unit of work over an in-process store, a synchronous
// broker and static stand-ins for the external directories.
//
// The store mirrors the concurrency contract of the database adapter: stock
// rows carry an optimistic version, and order/delivery rows carry a revision
// that makes concurrent writers lose with a VersionConflictError instead of
// silently overwriting each other.
package inmemory

import (
	"fmt"
	"sync"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

type orderRow struct {
	aggregate *order.Order
	revision  uint64
}

type deliveryRow struct {
	aggregate *delivery.Delivery
	revision  uint64
}

type stockRow struct {
	quantity int
	version  int64
}

type settlementKey struct {
	orderID    kernel.OrderID
	targetType ports.SettlementTargetType
}

// Store is the shared in-process state behind every in-memory unit of work.
// All access goes through its mutex; aggregates are cloned on the way in and
// out so no caller ever holds a reference into the store.
type Store struct {
	mu sync.RWMutex

	orders        map[kernel.OrderID]*orderRow
	deliveries    map[kernel.DeliveryID]*deliveryRow
	stocks        map[kernel.ProductID]stockRow
	notifications map[kernel.NotificationID]*notification.Notification
	settlements   map[settlementKey]ports.SettlementDetail

	orderSeq        int64
	deliverySeq     int64
	notificationSeq int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		orders:        make(map[kernel.OrderID]*orderRow),
		deliveries:    make(map[kernel.DeliveryID]*deliveryRow),
		stocks:        make(map[kernel.ProductID]stockRow),
		notifications: make(map[kernel.NotificationID]*notification.Notification),
		settlements:   make(map[settlementKey]ports.SettlementDetail),
	}
}

// SeedStock initializes a product's stock row at version 1. Local mode calls
// this at startup for its catalog; an existing row is overwritten.
func (s *Store) SeedStock(productID kernel.ProductID, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stocks[productID] = stockRow{quantity: quantity, version: 1}
}

// StockQuantity reads a product's committed quantity, for assertions and the
// local-mode admin view.
func (s *Store) StockQuantity(productID kernel.ProductID) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.stocks[productID]
	return row.quantity, ok
}

func cloneOrder(aggregate *order.Order) (*order.Order, error) {
	items := append([]order.Item(nil), aggregate.Items()...)

	var deliveryID *kernel.DeliveryID
	if id := aggregate.DeliveryID(); id != nil {
		copied := *id
		deliveryID = &copied
	}

	clone, err := order.RestoreOrder(
		aggregate.ID(),
		aggregate.StoreID(),
		aggregate.CustomerID(),
		aggregate.Address(),
		aggregate.Note(),
		aggregate.StorePrice(),
		aggregate.DeliveryPrice(),
		aggregate.Status(),
		items,
		deliveryID,
	)
	if err != nil {
		return nil, fmt.Errorf("clone order %d: %w", int64(aggregate.ID()), err)
	}
	return clone, nil
}

func cloneDelivery(aggregate *delivery.Delivery) (*delivery.Delivery, error) {
	tried := append([]kernel.RiderID(nil), aggregate.TriedRiders()...)

	var riderID *kernel.RiderID
	if id := aggregate.RiderID(); id != nil {
		copied := *id
		riderID = &copied
	}

	clone, err := delivery.RestoreDelivery(
		aggregate.ID(),
		aggregate.OrderID(),
		aggregate.StoreID(),
		aggregate.CustomerID(),
		riderID,
		aggregate.Status(),
		aggregate.ExpectedMinutes(),
		aggregate.RemainingMinutes(),
		aggregate.Charge(),
		aggregate.RequestedAt(),
		tried,
	)
	if err != nil {
		return nil, fmt.Errorf("clone delivery %d: %w", int64(aggregate.ID()), err)
	}
	return clone, nil
}

func cloneNotification(aggregate *notification.Notification) (*notification.Notification, error) {
	payload := append([]byte(nil), aggregate.Payload()...)

	clone, err := notification.RestoreNotification(
		aggregate.ID(),
		aggregate.RecipientID(),
		aggregate.Kind(),
		aggregate.Message(),
		payload,
		aggregate.IsRead(),
	)
	if err != nil {
		return nil, fmt.Errorf("clone notification %d: %w", int64(aggregate.ID()), err)
	}
	return clone, nil
}
