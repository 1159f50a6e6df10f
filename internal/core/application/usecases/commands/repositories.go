package commands

import (
	"context"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/ports"
)

// Unit of Work interfaces used by the command handlers. Each handler names the
// narrowest combination of transaction control, event buffer and repositories
// it actually touches; the composition root adapts the full unit of work to
// these shapes.
type (
	// TxManager handles the transaction lifecycle of a unit of work.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// EventEnqueuer buffers domain events for publication after commit.
	EventEnqueuer interface {
		EnqueueEvent(event events.DomainEvent)
	}

	// OrderRepoFactory provides the order repository bound to the transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DeliveryRepoFactory provides the delivery repository bound to the transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// StockRepoFactory provides the stock repository bound to the transaction.
	StockRepoFactory interface {
		StockRepository() ports.StockRepository
	}

	// NotificationRepoFactory provides the notification repository bound to the transaction.
	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	// OrderUoW covers commands that only touch the order aggregate.
	OrderUoW interface {
		TxManager
		EventEnqueuer
		OrderRepoFactory
	}

	// OrderUoWFactory creates order-only unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// PlacementUoW covers order placement and cancellation, which write the
	// order and the stock rows in the same transaction.
	PlacementUoW interface {
		TxManager
		EventEnqueuer
		OrderRepoFactory
		StockRepoFactory
	}

	// PlacementUoWFactory creates placement unit of work instances.
	PlacementUoWFactory interface {
		Create() PlacementUoW
	}

	// DispatchUoW covers commands that move the order and its delivery together.
	DispatchUoW interface {
		TxManager
		EventEnqueuer
		OrderRepoFactory
		DeliveryRepoFactory
	}

	// DispatchUoWFactory creates dispatch unit of work instances.
	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// StockUoW covers administrative stock mutations.
	StockUoW interface {
		TxManager
		StockRepoFactory
	}

	// StockUoWFactory creates stock unit of work instances.
	StockUoWFactory interface {
		Create() StockUoW
	}

	// NotificationUoW covers notification state changes.
	NotificationUoW interface {
		TxManager
		NotificationRepoFactory
	}

	// NotificationUoWFactory creates notification unit of work instances.
	NotificationUoWFactory interface {
		Create() NotificationUoW
	}
)
