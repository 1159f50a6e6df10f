// Package postgres provides the GORM-based unit of work of the pipeline.
// It coordinates one database transaction across the repositories and owns the
// outbox buffer: events enqueued during the transaction reach the broker only
// after the commit succeeded and are discarded on rollback.
package postgres

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/adapters/out/postgres/notificationrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/settlementrepo"
	"marketplace/internal/adapters/out/postgres/stockrepo"
	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/outbox"
)

// GormUnitOfWorkFactory creates isolated unit of work instances sharing one
// database handle and one broker.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	log       *slog.Logger
}

// NewGormUnitOfWorkFactory creates the factory.
func NewGormUnitOfWorkFactory(
	db *gorm.DB,
	publisher ports.EventPublisher,
	log *slog.Logger,
) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, publisher: publisher, log: log}
}

// Create produces a fresh unit of work with an empty outbox buffer.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:        f.db,
		publisher: f.publisher,
		log:       f.log,
		buffer:    outbox.NewBuffer(),
	}
}

// GormUnitOfWork implements ports.UnitOfWork on a GORM transaction.
type GormUnitOfWork struct {
	db        *gorm.DB
	tx        *gorm.DB
	publisher ports.EventPublisher
	log       *slog.Logger
	buffer    *outbox.Buffer
	committed bool
}

// Begin starts the transaction. Calling Begin twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	return uow.tx.Error
}

// Commit commits the transaction and then flushes the outbox buffer to the
// broker. Flush failures are logged, never surfaced: the state change is
// already durable.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	if err := uow.tx.Commit().Error; err != nil {
		return err
	}
	uow.tx = nil
	uow.committed = true

	uow.buffer.Flush(ctx, uow.publisher, uow.log)
	return nil
}

// Rollback rolls the transaction back and discards the buffered events.
// After a successful Commit it is a no-op, supporting `defer uow.Rollback`.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.committed {
		return nil
	}
	uow.buffer.Discard()

	if uow.tx == nil {
		return nil
	}
	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// EnqueueEvent buffers a domain event for publication after commit.
func (uow *GormUnitOfWork) EnqueueEvent(event events.DomainEvent) {
	uow.buffer.Enqueue(event)
}

func (uow *GormUnitOfWork) handle() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository returns the order repository bound to the transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.handle())
}

// DeliveryRepository returns the delivery repository bound to the transaction.
func (uow *GormUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(uow.handle())
}

// StockRepository returns the stock repository bound to the transaction.
func (uow *GormUnitOfWork) StockRepository() ports.StockRepository {
	return stockrepo.NewGormStockRepository(uow.handle())
}

// NotificationRepository returns the notification repository bound to the transaction.
func (uow *GormUnitOfWork) NotificationRepository() ports.NotificationRepository {
	return notificationrepo.NewGormNotificationRepository(uow.handle())
}

// SettlementRepository returns the settlement repository bound to the transaction.
func (uow *GormUnitOfWork) SettlementRepository() ports.SettlementRepository {
	return settlementrepo.NewGormSettlementRepository(uow.handle())
}
