package inmemory

import (
	"context"
	"fmt"
	"sort"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/stock"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

type memOrderRepository struct {
	uow *UnitOfWork
}

func (r *memOrderRepository) NextID(_ context.Context) (kernel.OrderID, error) {
	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()
	store.orderSeq++
	return kernel.OrderID(store.orderSeq), nil
}

func (r *memOrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	clone, err := cloneOrder(aggregate)
	if err != nil {
		return err
	}

	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()

	id := aggregate.ID()
	if _, exists := store.orders[id]; exists {
		return fmt.Errorf("order %d already exists", int64(id))
	}
	store.orders[id] = &orderRow{aggregate: clone, revision: 1}
	r.uow.orderRevs[int64(id)] = 1
	r.uow.recordUndo(func() { delete(store.orders, id) })
	return nil
}

func (r *memOrderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	clone, err := cloneOrder(aggregate)
	if err != nil {
		return err
	}

	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()

	id := aggregate.ID()
	row, exists := store.orders[id]
	if !exists {
		return errs.NewObjectNotFoundError("orderId", int64(id))
	}
	if readRev, seen := r.uow.orderRevs[int64(id)]; seen && row.revision != readRev {
		return errs.NewVersionConflictError("order", int64(id))
	}

	previous := *row
	r.uow.recordUndo(func() { store.orders[id] = &previous })

	store.orders[id] = &orderRow{aggregate: clone, revision: row.revision + 1}
	r.uow.orderRevs[int64(id)] = row.revision + 1
	return nil
}

func (r *memOrderRepository) Get(_ context.Context, id kernel.OrderID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	store := r.uow.store
	store.mu.RLock()
	defer store.mu.RUnlock()

	row, exists := store.orders[id]
	if !exists {
		return nil, errs.NewObjectNotFoundError("orderId", int64(id))
	}
	r.uow.orderRevs[int64(id)] = row.revision
	return cloneOrder(row.aggregate)
}

type memDeliveryRepository struct {
	uow *UnitOfWork
}

func (r *memDeliveryRepository) NextID(_ context.Context) (kernel.DeliveryID, error) {
	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()
	store.deliverySeq++
	return kernel.DeliveryID(store.deliverySeq), nil
}

func (r *memDeliveryRepository) Add(_ context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	clone, err := cloneDelivery(aggregate)
	if err != nil {
		return err
	}

	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()

	id := aggregate.ID()
	if _, exists := store.deliveries[id]; exists {
		return fmt.Errorf("delivery %d already exists", int64(id))
	}
	for _, row := range store.deliveries {
		if row.aggregate.OrderID() == aggregate.OrderID() {
			return fmt.Errorf("order %d already has a delivery", int64(aggregate.OrderID()))
		}
	}
	store.deliveries[id] = &deliveryRow{aggregate: clone, revision: 1}
	r.uow.deliveryRevs[int64(id)] = 1
	r.uow.recordUndo(func() { delete(store.deliveries, id) })
	return nil
}

func (r *memDeliveryRepository) Update(_ context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	clone, err := cloneDelivery(aggregate)
	if err != nil {
		return err
	}

	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()

	id := aggregate.ID()
	row, exists := store.deliveries[id]
	if !exists {
		return errs.NewObjectNotFoundError("deliveryId", int64(id))
	}
	if readRev, seen := r.uow.deliveryRevs[int64(id)]; seen && row.revision != readRev {
		return errs.NewVersionConflictError("delivery", int64(id))
	}

	previous := *row
	r.uow.recordUndo(func() { store.deliveries[id] = &previous })

	store.deliveries[id] = &deliveryRow{aggregate: clone, revision: row.revision + 1}
	r.uow.deliveryRevs[int64(id)] = row.revision + 1
	return nil
}

func (r *memDeliveryRepository) Get(_ context.Context, id kernel.DeliveryID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	store := r.uow.store
	store.mu.RLock()
	defer store.mu.RUnlock()

	row, exists := store.deliveries[id]
	if !exists {
		return nil, errs.NewObjectNotFoundError("deliveryId", int64(id))
	}
	r.uow.deliveryRevs[int64(id)] = row.revision
	return cloneDelivery(row.aggregate)
}

func (r *memDeliveryRepository) GetByOrderID(_ context.Context, orderID kernel.OrderID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	store := r.uow.store
	store.mu.RLock()
	defer store.mu.RUnlock()

	for _, row := range store.deliveries {
		if row.aggregate.OrderID() == orderID {
			r.uow.deliveryRevs[int64(row.aggregate.ID())] = row.revision
			return cloneDelivery(row.aggregate)
		}
	}
	return nil, errs.NewObjectNotFoundError("orderId", int64(orderID))
}

func (r *memDeliveryRepository) GetAllPending(_ context.Context) ([]*delivery.Delivery, error) {
	store := r.uow.store
	store.mu.RLock()
	defer store.mu.RUnlock()

	var pending []*delivery.Delivery
	for _, row := range store.deliveries {
		if row.aggregate.Status() != delivery.StatusPending {
			continue
		}
		clone, err := cloneDelivery(row.aggregate)
		if err != nil {
			return nil, err
		}
		r.uow.deliveryRevs[int64(row.aggregate.ID())] = row.revision
		pending = append(pending, clone)
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].RequestedAt().Before(pending[j].RequestedAt())
	})
	return pending, nil
}

type memStockRepository struct {
	uow *UnitOfWork
}

func (r *memStockRepository) Add(_ context.Context, aggregate *stock.Stock) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()

	productID := aggregate.ProductID()
	if _, exists := store.stocks[productID]; exists {
		return fmt.Errorf("stock for product %d already exists", int64(productID))
	}
	store.stocks[productID] = stockRow{quantity: aggregate.Quantity(), version: 1}
	r.uow.recordUndo(func() { delete(store.stocks, productID) })
	return nil
}

func (r *memStockRepository) GetByProductID(_ context.Context, productID kernel.ProductID) (*stock.Stock, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}

	store := r.uow.store
	store.mu.RLock()
	defer store.mu.RUnlock()

	row, exists := store.stocks[productID]
	if !exists {
		return nil, errs.NewObjectNotFoundError("productId", int64(productID))
	}
	return stock.RestoreStock(productID, row.quantity, row.version)
}

// Update writes the row guarded by the version the aggregate was read with,
// matching the database adapter's `WHERE version = ?` compare-and-swap.
func (r *memStockRepository) Update(_ context.Context, aggregate *stock.Stock) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()

	productID := aggregate.ProductID()
	row, exists := store.stocks[productID]
	if !exists {
		return errs.NewObjectNotFoundError("productId", int64(productID))
	}
	if row.version != aggregate.Version() {
		return errs.NewVersionConflictError("stock", int64(productID))
	}

	previous := row
	r.uow.recordUndo(func() { store.stocks[productID] = previous })

	store.stocks[productID] = stockRow{
		quantity: aggregate.Quantity(),
		version:  aggregate.Version() + 1,
	}
	return nil
}

type memNotificationRepository struct {
	uow *UnitOfWork
}

func (r *memNotificationRepository) NextID(_ context.Context) (kernel.NotificationID, error) {
	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()
	store.notificationSeq++
	return kernel.NotificationID(store.notificationSeq), nil
}

func (r *memNotificationRepository) Add(_ context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	clone, err := cloneNotification(aggregate)
	if err != nil {
		return err
	}

	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()

	id := aggregate.ID()
	if _, exists := store.notifications[id]; exists {
		return fmt.Errorf("notification %d already exists", int64(id))
	}
	store.notifications[id] = clone
	r.uow.recordUndo(func() { delete(store.notifications, id) })
	return nil
}

func (r *memNotificationRepository) Update(_ context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	clone, err := cloneNotification(aggregate)
	if err != nil {
		return err
	}

	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()

	id := aggregate.ID()
	previous, exists := store.notifications[id]
	if !exists {
		return errs.NewObjectNotFoundError("notificationId", int64(id))
	}

	r.uow.recordUndo(func() { store.notifications[id] = previous })
	store.notifications[id] = clone
	return nil
}

func (r *memNotificationRepository) Get(_ context.Context, id kernel.NotificationID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	store := r.uow.store
	store.mu.RLock()
	defer store.mu.RUnlock()

	aggregate, exists := store.notifications[id]
	if !exists {
		return nil, errs.NewObjectNotFoundError("notificationId", int64(id))
	}
	return cloneNotification(aggregate)
}

func (r *memNotificationRepository) GetUnreadByRecipient(_ context.Context, recipientID int64) ([]*notification.Notification, error) {
	store := r.uow.store
	store.mu.RLock()
	defer store.mu.RUnlock()

	var unread []*notification.Notification
	for _, aggregate := range store.notifications {
		if aggregate.RecipientID() != recipientID || aggregate.IsRead() {
			continue
		}
		clone, err := cloneNotification(aggregate)
		if err != nil {
			return nil, err
		}
		unread = append(unread, clone)
	}

	sort.Slice(unread, func(i, j int) bool {
		return unread[i].ID() > unread[j].ID()
	})
	return unread, nil
}

type memSettlementRepository struct {
	uow *UnitOfWork
}

func (r *memSettlementRepository) CreateIfAbsent(_ context.Context, detail ports.SettlementDetail) (bool, error) {
	store := r.uow.store
	store.mu.Lock()
	defer store.mu.Unlock()

	key := settlementKey{orderID: detail.OrderID, targetType: detail.TargetType}
	if _, exists := store.settlements[key]; exists {
		return false, nil
	}
	store.settlements[key] = detail
	r.uow.recordUndo(func() { delete(store.settlements, key) })
	return true, nil
}

func (r *memSettlementRepository) GetByOrderID(_ context.Context, orderID kernel.OrderID) ([]ports.SettlementDetail, error) {
	store := r.uow.store
	store.mu.RLock()
	defer store.mu.RUnlock()

	var details []ports.SettlementDetail
	for key, detail := range store.settlements {
		if key.orderID == orderID {
			details = append(details, detail)
		}
	}

	sort.Slice(details, func(i, j int) bool {
		return details[i].TargetType < details[j].TargetType
	})
	return details, nil
}
