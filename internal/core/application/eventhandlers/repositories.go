package eventhandlers

import (
	"context"

	"marketplace/internal/core/ports"
)

// Narrow unit-of-work shapes for the consumers, mirroring the command side.
type (
	// TxManager handles the transaction lifecycle of a unit of work.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// NotificationUoW covers persisting notification records.
	NotificationUoW interface {
		TxManager
		NotificationRepository() ports.NotificationRepository
	}

	// NotificationUoWFactory creates notification unit of work instances.
	NotificationUoWFactory interface {
		Create() NotificationUoW
	}

	// SettlementUoW covers recording settlement details.
	SettlementUoW interface {
		TxManager
		SettlementRepository() ports.SettlementRepository
	}

	// SettlementUoWFactory creates settlement unit of work instances.
	SettlementUoWFactory interface {
		Create() SettlementUoW
	}
)
