package eventhandlers

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

// SearchSyncEventHandler keeps the external search index in step with order
// lifecycle changes. Reindexing is idempotent on the indexer side, so
// redelivered events are harmless.
type SearchSyncEventHandler struct {
	indexer ports.SearchIndexer
	log     *slog.Logger
}

// NewSearchSyncEventHandler creates the search sync consumer.
func NewSearchSyncEventHandler(indexer ports.SearchIndexer, log *slog.Logger) SearchSyncEventHandler {
	return SearchSyncEventHandler{indexer: indexer, log: log}
}

// Handle consumes one envelope, reindexing on any order status change.
func (h SearchSyncEventHandler) Handle(ctx context.Context, env events.Envelope) error {
	event, err := events.Decode(env)
	if err != nil {
		return err
	}

	var orderID int64
	switch e := event.(type) {
	case *events.OrderCreated:
		orderID = e.OrderID
	case *events.OrderPreparing:
		orderID = e.OrderID
	case *events.OrderCanceled:
		orderID = e.OrderID
	case *events.OrderRejected:
		orderID = e.OrderID
	case *events.OrderCompleted:
		orderID = e.OrderID
	default:
		return nil
	}

	if err = h.indexer.ReindexOrder(ctx, kernel.OrderID(orderID)); err != nil {
		h.log.WarnContext(ctx, "search reindex failed", "order_id", orderID, "err", err)
		return err
	}
	return nil
}
