package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
)

// RiderDirectory supplies the riders currently toggled on and inside the
// store's configured delivery area. Geographic and ETA computation live in an
// external routing collaborator; the core only consumes its output.
type RiderDirectory interface {
	ListCandidates(ctx context.Context, storeID kernel.StoreID) ([]services.Candidate, error)
}

// StoreDirectory resolves store-level facts the events need, such as the
// seller profile that owns a store.
type StoreDirectory interface {
	SellerOf(ctx context.Context, storeID kernel.StoreID) (int64, error)
}

// NotificationDispatcher routes an event to every live connection of a
// recipient. A recipient without connections is a successful no-op.
type NotificationDispatcher interface {
	Dispatch(recipientID int64, eventName string, payload []byte)
}

// SearchIndexer is the external search-index sync collaborator.
type SearchIndexer interface {
	ReindexOrder(ctx context.Context, orderID kernel.OrderID) error
}
