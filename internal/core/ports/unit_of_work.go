package ports

import (
	"context"

	"marketplace/internal/core/domain/events"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per request/command so
// concurrent operations stay isolated.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the business transaction boundary. Repositories obtained from
// it run inside the transaction opened by Begin.
//
// Domain events enqueued through EnqueueEvent are held in an outbox buffer:
// Commit publishes them only after the underlying transaction committed, and
// Rollback discards them. No event escapes visibility before the state it
// describes is durable.
type UnitOfWork interface {
	// Begin starts the transaction.
	Begin(ctx context.Context) error

	// Commit commits the transaction, then flushes the event buffer to the
	// broker. A flush failure is logged and does not undo the commit.
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction and discards buffered events.
	// Calling it after a successful Commit is a no-op, which allows the
	// `defer uow.Rollback(ctx)` safety net.
	Rollback(ctx context.Context) error

	// EnqueueEvent buffers a domain event for publication after commit.
	EnqueueEvent(event events.DomainEvent)

	// OrderRepository returns the order repository bound to the transaction.
	OrderRepository() OrderRepository

	// DeliveryRepository returns the delivery repository bound to the transaction.
	DeliveryRepository() DeliveryRepository

	// StockRepository returns the stock repository bound to the transaction.
	StockRepository() StockRepository

	// NotificationRepository returns the notification repository bound to the transaction.
	NotificationRepository() NotificationRepository

	// SettlementRepository returns the settlement repository bound to the transaction.
	SettlementRepository() SettlementRepository
}
