package eventhandlers_test

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/eventhandlers"
	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

type fakeConsumerStore struct {
	mu            sync.Mutex
	notifications []*notification.Notification
	nextID        int64
	settlements   map[string]ports.SettlementDetail
}

func newFakeConsumerStore() *fakeConsumerStore {
	return &fakeConsumerStore{settlements: make(map[string]ports.SettlementDetail)}
}

type fakeConsumerUoW struct{ store *fakeConsumerStore }

func (fakeConsumerUoW) Begin(context.Context) error    { return nil }
func (fakeConsumerUoW) Commit(context.Context) error   { return nil }
func (fakeConsumerUoW) Rollback(context.Context) error { return nil }

func (u fakeConsumerUoW) NotificationRepository() ports.NotificationRepository {
	return &fakeNotificationRepo{store: u.store}
}

func (u fakeConsumerUoW) SettlementRepository() ports.SettlementRepository {
	return &fakeSettlementRepo{store: u.store}
}

type notificationUoWFactory struct{ store *fakeConsumerStore }

func (f notificationUoWFactory) Create() eventhandlers.NotificationUoW {
	return fakeConsumerUoW{store: f.store}
}

type settlementUoWFactory struct{ store *fakeConsumerStore }

func (f settlementUoWFactory) Create() eventhandlers.SettlementUoW {
	return fakeConsumerUoW{store: f.store}
}

type fakeNotificationRepo struct{ store *fakeConsumerStore }

func (r *fakeNotificationRepo) NextID(context.Context) (kernel.NotificationID, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextID++
	return kernel.NotificationID(r.store.nextID), nil
}

func (r *fakeNotificationRepo) Add(_ context.Context, n *notification.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.notifications = append(r.store.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) Update(context.Context, *notification.Notification) error { return nil }

func (r *fakeNotificationRepo) Get(_ context.Context, id kernel.NotificationID) (*notification.Notification, error) {
	return nil, errs.NewObjectNotFoundError("notificationId", int64(id))
}

func (r *fakeNotificationRepo) GetUnreadByRecipient(context.Context, int64) ([]*notification.Notification, error) {
	return nil, nil
}

type fakeSettlementRepo struct{ store *fakeConsumerStore }

func settlementKey(d ports.SettlementDetail) string {
	return fmt.Sprintf("%d/%s", d.OrderID, d.TargetType)
}

func (r *fakeSettlementRepo) CreateIfAbsent(_ context.Context, detail ports.SettlementDetail) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := settlementKey(detail)
	if _, exists := r.store.settlements[key]; exists {
		return false, nil
	}
	r.store.settlements[key] = detail
	return true, nil
}

func (r *fakeSettlementRepo) GetByOrderID(_ context.Context, orderID kernel.OrderID) ([]ports.SettlementDetail, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var details []ports.SettlementDetail
	for _, d := range r.store.settlements {
		if d.OrderID == orderID {
			details = append(details, d)
		}
	}
	return details, nil
}

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []int64
}

func (d *recordingDispatcher) Dispatch(recipientID int64, _ string, _ []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, recipientID)
}

type recordingIndexer struct {
	mu     sync.Mutex
	orders []kernel.OrderID
}

func (i *recordingIndexer) ReindexOrder(_ context.Context, orderID kernel.OrderID) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.orders = append(i.orders, orderID)
	return nil
}

func mustWrap(t *testing.T, event events.DomainEvent) events.Envelope {
	t.Helper()
	env, err := events.Wrap(event)
	require.NoError(t, err)
	return env
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestNotificationEventHandler_PersistsAndPushes(t *testing.T) {
	store := newFakeConsumerStore()
	dispatcher := &recordingDispatcher{}
	h := eventhandlers.NewNotificationEventHandler(
		notificationUoWFactory{store}, dispatcher, discardLogger())

	env := mustWrap(t, events.OrderPaid{
		Meta: events.NewMeta(time.Now()), OrderID: 5, CustomerID: 7,
	})
	require.NoError(t, h.Handle(context.Background(), env))

	require.Len(t, store.notifications, 1)
	n := store.notifications[0]
	assert.Equal(t, int64(7), n.RecipientID())
	assert.Equal(t, notification.TypeOrderPaid, n.Kind())
	assert.False(t, n.IsRead())
	assert.Equal(t, []int64{7}, dispatcher.calls)
}

func TestNotificationEventHandler_FansOutToBothSides(t *testing.T) {
	store := newFakeConsumerStore()
	dispatcher := &recordingDispatcher{}
	h := eventhandlers.NewNotificationEventHandler(
		notificationUoWFactory{store}, dispatcher, discardLogger())

	env := mustWrap(t, events.DeliveryStatusChanged{
		Meta: events.NewMeta(time.Now()), DeliveryID: 1, OrderID: 5,
		CustomerID: 7, SellerID: 903, Status: "PENDING", NextStatus: "RIDER_ASSIGNED",
	})
	require.NoError(t, h.Handle(context.Background(), env))

	assert.Len(t, store.notifications, 2)
	assert.ElementsMatch(t, []int64{7, 903}, dispatcher.calls)
}

func TestNotificationEventHandler_SkipsMachineFacingEvents(t *testing.T) {
	store := newFakeConsumerStore()
	dispatcher := &recordingDispatcher{}
	h := eventhandlers.NewNotificationEventHandler(
		notificationUoWFactory{store}, dispatcher, discardLogger())

	env := mustWrap(t, events.RiderDecision{
		Meta: events.NewMeta(time.Now()), OrderID: 5, RiderID: 21, Decision: events.DecisionAccept,
	})
	require.NoError(t, h.Handle(context.Background(), env))

	assert.Empty(t, store.notifications)
	assert.Empty(t, dispatcher.calls)
}

func TestNotificationEventHandler_UnknownEventName(t *testing.T) {
	h := eventhandlers.NewNotificationEventHandler(
		notificationUoWFactory{newFakeConsumerStore()}, &recordingDispatcher{}, discardLogger())

	err := h.Handle(context.Background(), events.Envelope{Name: "order.exploded", Payload: []byte("{}")})
	require.Error(t, err)
}

func TestSettlementEventHandler_SplitsPrices(t *testing.T) {
	store := newFakeConsumerStore()
	h := eventhandlers.NewSettlementEventHandler(settlementUoWFactory{store}, discardLogger())

	env := mustWrap(t, events.OrderCompleted{
		Meta: events.NewMeta(time.Now()), OrderID: 5, SellerID: 903, RiderID: 21,
		StorePrice:    kernel.NewMoneyFromInt(5000).Decimal(),
		DeliveryPrice: kernel.NewMoneyFromInt(3000).Decimal(),
	})
	require.NoError(t, h.Handle(context.Background(), env))

	details, err := (&fakeSettlementRepo{store}).GetByOrderID(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, details, 2)

	byTarget := map[ports.SettlementTargetType]ports.SettlementDetail{}
	for _, d := range details {
		byTarget[d.TargetType] = d
	}
	assert.Equal(t, int64(903), byTarget[ports.SettlementTargetSeller].TargetID)
	assert.True(t, byTarget[ports.SettlementTargetSeller].Amount.IsEqual(kernel.NewMoneyFromInt(5000)))
	assert.Equal(t, int64(21), byTarget[ports.SettlementTargetRider].TargetID)
	assert.True(t, byTarget[ports.SettlementTargetRider].Amount.IsEqual(kernel.NewMoneyFromInt(3000)))
}

func TestSettlementEventHandler_ExactlyOnceUnderRedelivery(t *testing.T) {
	store := newFakeConsumerStore()
	h := eventhandlers.NewSettlementEventHandler(settlementUoWFactory{store}, discardLogger())

	env := mustWrap(t, events.OrderCompleted{
		Meta: events.NewMeta(time.Now()), OrderID: 5, SellerID: 903, RiderID: 21,
		StorePrice:    kernel.NewMoneyFromInt(5000).Decimal(),
		DeliveryPrice: kernel.NewMoneyFromInt(3000).Decimal(),
	})

	// The broker redelivers; the handler must not double-settle.
	require.NoError(t, h.Handle(context.Background(), env))
	require.NoError(t, h.Handle(context.Background(), env))
	require.NoError(t, h.Handle(context.Background(), env))

	assert.Len(t, store.settlements, 2)
}

func TestSettlementEventHandler_IgnoresOtherEvents(t *testing.T) {
	store := newFakeConsumerStore()
	h := eventhandlers.NewSettlementEventHandler(settlementUoWFactory{store}, discardLogger())

	env := mustWrap(t, events.OrderPaid{Meta: events.NewMeta(time.Now()), OrderID: 5, CustomerID: 7})
	require.NoError(t, h.Handle(context.Background(), env))
	assert.Empty(t, store.settlements)
}

func TestSearchSyncEventHandler_ReindexesOrderLifecycle(t *testing.T) {
	indexer := &recordingIndexer{}
	h := eventhandlers.NewSearchSyncEventHandler(indexer, discardLogger())

	require.NoError(t, h.Handle(context.Background(), mustWrap(t, events.OrderCreated{
		Meta: events.NewMeta(time.Now()), OrderID: 5, StoreID: 3, CustomerID: 7,
	})))
	require.NoError(t, h.Handle(context.Background(), mustWrap(t, events.DeliveryStatusChanged{
		Meta: events.NewMeta(time.Now()), DeliveryID: 1, OrderID: 5, CustomerID: 7, SellerID: 903,
		Status: "PICKED_UP", NextStatus: "IN_PROGRESS",
	})))

	assert.Equal(t, []kernel.OrderID{5}, indexer.orders)
}
