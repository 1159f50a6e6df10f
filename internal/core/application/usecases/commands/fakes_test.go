package commands_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/stock"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// fakeStore is the shared backing state of the fake units of work. It mimics
// the durable side: Published only ever grows through a Commit, and stock rows
// carry real optimistic-lock versions so the retry paths are exercised.
type fakeStore struct {
	mu sync.Mutex

	orders        map[kernel.OrderID]*order.Order
	deliveries    map[kernel.DeliveryID]*delivery.Delivery
	stocks        map[kernel.ProductID]stock.Snapshot
	notifications map[kernel.NotificationID]*notification.Notification

	nextOrderID        int64
	nextDeliveryID     int64
	nextNotificationID int64

	// forcedConflicts makes the next N stock updates fail with a version
	// conflict, simulating concurrent writers.
	forcedConflicts int

	published []events.DomainEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orders:        make(map[kernel.OrderID]*order.Order),
		deliveries:    make(map[kernel.DeliveryID]*delivery.Delivery),
		stocks:        make(map[kernel.ProductID]stock.Snapshot),
		notifications: make(map[kernel.NotificationID]*notification.Notification),
	}
}

func (s *fakeStore) seedStock(productID kernel.ProductID, quantity int) {
	s.stocks[productID] = stock.Snapshot{ProductID: productID, Quantity: quantity, Version: 1}
}

func (s *fakeStore) publishedNames() []string {
	names := make([]string, 0, len(s.published))
	for _, e := range s.published {
		names = append(names, e.EventName())
	}
	return names
}

// fakeUoW satisfies every narrow unit-of-work interface in the commands
// package. Events are buffered until Commit and dropped on Rollback.
type fakeUoW struct {
	store     *fakeStore
	buffered  []events.DomainEvent
	began     bool
	committed bool
}

func (u *fakeUoW) Begin(context.Context) error { u.began = true; return nil }

func (u *fakeUoW) Commit(context.Context) error {
	u.committed = true
	u.store.mu.Lock()
	u.store.published = append(u.store.published, u.buffered...)
	u.store.mu.Unlock()
	u.buffered = nil
	return nil
}

func (u *fakeUoW) Rollback(context.Context) error {
	if !u.committed {
		u.buffered = nil
	}
	return nil
}

func (u *fakeUoW) EnqueueEvent(event events.DomainEvent) {
	u.buffered = append(u.buffered, event)
}

func (u *fakeUoW) OrderRepository() ports.OrderRepository {
	return &fakeOrderRepo{store: u.store}
}

func (u *fakeUoW) DeliveryRepository() ports.DeliveryRepository {
	return &fakeDeliveryRepo{store: u.store}
}

func (u *fakeUoW) StockRepository() ports.StockRepository {
	return &fakeStockRepo{store: u.store}
}

func (u *fakeUoW) NotificationRepository() ports.NotificationRepository {
	return &fakeNotificationRepo{store: u.store}
}

// fakeUoWFactory hands out units of work sharing one fakeStore.
type fakeUoWFactory struct {
	store *fakeStore
}

func newFakeUoWFactory() *fakeUoWFactory {
	return &fakeUoWFactory{store: newFakeStore()}
}

func (f *fakeUoWFactory) create() *fakeUoW { return &fakeUoW{store: f.store} }

// The narrow factory shapes handlers depend on.
type (
	placementFactory    struct{ *fakeUoWFactory }
	dispatchFactory     struct{ *fakeUoWFactory }
	stockFactory        struct{ *fakeUoWFactory }
	notificationFactory struct{ *fakeUoWFactory }
)

func (f placementFactory) Create() commands.PlacementUoW       { return f.create() }
func (f dispatchFactory) Create() commands.DispatchUoW         { return f.create() }
func (f stockFactory) Create() commands.StockUoW               { return f.create() }
func (f notificationFactory) Create() commands.NotificationUoW { return f.create() }

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) NextID(context.Context) (kernel.OrderID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextOrderID++
	return kernel.OrderID(r.store.nextOrderID), nil
}

func (r *fakeOrderRepo) Add(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[o.ID()] = o
	return nil
}

func (r *fakeOrderRepo) Update(_ context.Context, o *order.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.orders[o.ID()] = o
	return nil
}

func (r *fakeOrderRepo) Get(_ context.Context, id kernel.OrderID) (*order.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderId", int64(id))
	}
	return o, nil
}

type fakeDeliveryRepo struct{ store *fakeStore }

func (r *fakeDeliveryRepo) NextID(context.Context) (kernel.DeliveryID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextDeliveryID++
	return kernel.DeliveryID(r.store.nextDeliveryID), nil
}

func (r *fakeDeliveryRepo) Add(_ context.Context, d *delivery.Delivery) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.deliveries[d.ID()] = d
	return nil
}

func (r *fakeDeliveryRepo) Update(_ context.Context, d *delivery.Delivery) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.deliveries[d.ID()] = d
	return nil
}

func (r *fakeDeliveryRepo) Get(_ context.Context, id kernel.DeliveryID) (*delivery.Delivery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	d, ok := r.store.deliveries[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("deliveryId", int64(id))
	}
	return d, nil
}

func (r *fakeDeliveryRepo) GetByOrderID(_ context.Context, orderID kernel.OrderID) (*delivery.Delivery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, d := range r.store.deliveries {
		if d.OrderID() == orderID {
			return d, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("orderId", int64(orderID))
}

func (r *fakeDeliveryRepo) GetAllPending(context.Context) ([]*delivery.Delivery, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var pending []*delivery.Delivery
	for _, d := range r.store.deliveries {
		if d.Status() == delivery.StatusPending {
			pending = append(pending, d)
		}
	}
	return pending, nil
}

type fakeStockRepo struct{ store *fakeStore }

func (r *fakeStockRepo) Add(_ context.Context, s *stock.Stock) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.stocks[s.ProductID()] = s.Snapshot()
	return nil
}

func (r *fakeStockRepo) GetByProductID(_ context.Context, productID kernel.ProductID) (*stock.Stock, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	snap, ok := r.store.stocks[productID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("productId", int64(productID))
	}
	return stock.RestoreStock(snap.ProductID, snap.Quantity, snap.Version)
}

func (r *fakeStockRepo) Update(_ context.Context, s *stock.Stock) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.forcedConflicts > 0 {
		r.store.forcedConflicts--
		return errs.NewVersionConflictError("stock", int64(s.ProductID()))
	}
	snap, ok := r.store.stocks[s.ProductID()]
	if !ok {
		return errs.NewObjectNotFoundError("productId", int64(s.ProductID()))
	}
	if snap.Version != s.Version() {
		return errs.NewVersionConflictError("stock", int64(s.ProductID()))
	}
	r.store.stocks[s.ProductID()] = stock.Snapshot{
		ProductID: s.ProductID(),
		Quantity:  s.Quantity(),
		Version:   snap.Version + 1,
	}
	return nil
}

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) NextID(context.Context) (kernel.NotificationID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextNotificationID++
	return kernel.NotificationID(r.store.nextNotificationID), nil
}

func (r *fakeNotificationRepo) Add(_ context.Context, n *notification.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications[n.ID()] = n
	return nil
}

func (r *fakeNotificationRepo) Update(_ context.Context, n *notification.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications[n.ID()] = n
	return nil
}

func (r *fakeNotificationRepo) Get(_ context.Context, id kernel.NotificationID) (*notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n, ok := r.store.notifications[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("notificationId", int64(id))
	}
	return n, nil
}

func (r *fakeNotificationRepo) GetUnreadByRecipient(_ context.Context, recipientID int64) ([]*notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var unread []*notification.Notification
	for _, n := range r.store.notifications {
		if n.RecipientID() == recipientID && !n.IsRead() {
			unread = append(unread, n)
		}
	}
	return unread, nil
}

// fakeStoreDirectory maps every store to seller 900+storeID.
type fakeStoreDirectory struct{}

func (fakeStoreDirectory) SellerOf(_ context.Context, storeID kernel.StoreID) (int64, error) {
	return 900 + int64(storeID), nil
}

// mustPlaceOrder drives the placement handler for tests that need an order
// further down the lifecycle. Seeds stock for product 10 if absent.
func mustPlaceOrder(t *testing.T, f *fakeUoWFactory) kernel.OrderID {
	t.Helper()
	if _, ok := f.store.stocks[10]; !ok {
		f.store.seedStock(10, 50)
	}

	cmd, err := commands.NewPlaceOrderCommand(
		7, 3, "24 Harbor Lane", "no cutlery",
		kernel.NewMoneyFromInt(3000),
		[]commands.OrderLine{{ProductID: 10, UnitPrice: kernel.NewMoneyFromInt(2500), Quantity: 2}},
	)
	require.NoError(t, err)

	h := commands.NewPlaceOrderCommandHandler(placementFactory{f}, fakeStoreDirectory{})
	orderID, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	return orderID
}

// mustAcceptOrder drives the acceptance handler, returning the delivery ID.
func mustAcceptOrder(t *testing.T, f *fakeUoWFactory, orderID kernel.OrderID) kernel.DeliveryID {
	t.Helper()
	cmd, err := commands.NewAcceptOrderCommand(orderID)
	require.NoError(t, err)

	h := commands.NewAcceptOrderCommandHandler(dispatchFactory{f}, fakeStoreDirectory{})
	deliveryID, err := h.Handle(context.Background(), cmd)
	require.NoError(t, err)
	return deliveryID
}
