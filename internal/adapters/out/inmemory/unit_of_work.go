package inmemory

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/outbox"
)

// UnitOfWorkFactory creates isolated unit of work instances over one shared
// store and one broker.
type UnitOfWorkFactory struct {
	store     *Store
	publisher ports.EventPublisher
	log       *slog.Logger
}

// NewUnitOfWorkFactory creates the factory.
func NewUnitOfWorkFactory(
	store *Store,
	publisher ports.EventPublisher,
	log *slog.Logger,
) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store, publisher: publisher, log: log}
}

// Create produces a fresh unit of work with an empty outbox buffer.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{
		store:        f.store,
		publisher:    f.publisher,
		log:          f.log,
		buffer:       outbox.NewBuffer(),
		orderRevs:    make(map[int64]uint64),
		deliveryRevs: make(map[int64]uint64),
	}
}

// UnitOfWork implements ports.UnitOfWork on the in-process store.
//
// Writes apply to the store immediately, each recording an undo step; Rollback
// replays the journal in reverse. Order and delivery updates are guarded by
// the revision observed at read time, stock updates by the aggregate's own
// version, so two units of work racing on the same row behave like they do
// against the database: one wins, the other gets a VersionConflictError.
type UnitOfWork struct {
	store     *Store
	publisher ports.EventPublisher
	log       *slog.Logger
	buffer    *outbox.Buffer

	undo         []func()
	orderRevs    map[int64]uint64
	deliveryRevs map[int64]uint64
	committed    bool
}

// Begin starts the business transaction. The store needs no setup, so this
// only exists to satisfy the transaction contract.
func (uow *UnitOfWork) Begin(_ context.Context) error {
	return nil
}

// Commit seals the applied writes and flushes the outbox buffer to the broker.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	uow.committed = true
	uow.undo = nil

	uow.buffer.Flush(ctx, uow.publisher, uow.log)
	return nil
}

// Rollback reverts every write of this unit of work and discards the buffered
// events. After a successful Commit it is a no-op, supporting `defer uow.Rollback`.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if uow.committed {
		return nil
	}
	uow.buffer.Discard()

	uow.store.mu.Lock()
	defer uow.store.mu.Unlock()
	for i := len(uow.undo) - 1; i >= 0; i-- {
		uow.undo[i]()
	}
	uow.undo = nil
	return nil
}

// EnqueueEvent buffers a domain event for publication after commit.
func (uow *UnitOfWork) EnqueueEvent(event events.DomainEvent) {
	uow.buffer.Enqueue(event)
}

// recordUndo appends an undo step. Callers must hold the store lock.
func (uow *UnitOfWork) recordUndo(step func()) {
	uow.undo = append(uow.undo, step)
}

// OrderRepository returns the order repository bound to this unit of work.
func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &memOrderRepository{uow: uow}
}

// DeliveryRepository returns the delivery repository bound to this unit of work.
func (uow *UnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return &memDeliveryRepository{uow: uow}
}

// StockRepository returns the stock repository bound to this unit of work.
func (uow *UnitOfWork) StockRepository() ports.StockRepository {
	return &memStockRepository{uow: uow}
}

// NotificationRepository returns the notification repository bound to this unit of work.
func (uow *UnitOfWork) NotificationRepository() ports.NotificationRepository {
	return &memNotificationRepository{uow: uow}
}

// SettlementRepository returns the settlement repository bound to this unit of work.
func (uow *UnitOfWork) SettlementRepository() ports.SettlementRepository {
	return &memSettlementRepository{uow: uow}
}
