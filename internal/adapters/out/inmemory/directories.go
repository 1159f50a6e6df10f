package inmemory

import (
	"context"
	"log/slog"
	"sync"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

// StaticRiderDirectory serves a fixed candidate pool, optionally overridden
// per store. Local mode seeds it from configuration; tests mutate it between
// matching rounds.
type StaticRiderDirectory struct {
	mu      sync.RWMutex
	byStore map[kernel.StoreID][]services.Candidate
	all     []services.Candidate
}

// NewStaticRiderDirectory creates a directory serving the given pool to every
// store.
func NewStaticRiderDirectory(candidates ...services.Candidate) *StaticRiderDirectory {
	return &StaticRiderDirectory{
		byStore: make(map[kernel.StoreID][]services.Candidate),
		all:     candidates,
	}
}

// SetStoreCandidates overrides the pool for one store.
func (d *StaticRiderDirectory) SetStoreCandidates(storeID kernel.StoreID, candidates []services.Candidate) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byStore[storeID] = candidates
}

// ListCandidates implements ports.RiderDirectory.
func (d *StaticRiderDirectory) ListCandidates(_ context.Context, storeID kernel.StoreID) ([]services.Candidate, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if candidates, ok := d.byStore[storeID]; ok {
		return append([]services.Candidate(nil), candidates...), nil
	}
	return append([]services.Candidate(nil), d.all...), nil
}

// StaticStoreDirectory maps stores to the sellers that own them.
type StaticStoreDirectory struct {
	mu      sync.RWMutex
	sellers map[kernel.StoreID]int64
}

// NewStaticStoreDirectory creates an empty directory.
func NewStaticStoreDirectory() *StaticStoreDirectory {
	return &StaticStoreDirectory{sellers: make(map[kernel.StoreID]int64)}
}

// Register binds a store to its seller.
func (d *StaticStoreDirectory) Register(storeID kernel.StoreID, sellerID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sellers[storeID] = sellerID
}

// SellerOf implements ports.StoreDirectory.
func (d *StaticStoreDirectory) SellerOf(_ context.Context, storeID kernel.StoreID) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sellerID, ok := d.sellers[storeID]
	if !ok {
		return 0, errs.NewObjectNotFoundError("storeId", int64(storeID))
	}
	return sellerID, nil
}

// LoggingSearchIndexer is the local-mode stand-in for the search-index sync
// collaborator: it records the reindex request in the log and succeeds.
type LoggingSearchIndexer struct {
	log *slog.Logger
}

// NewLoggingSearchIndexer creates the indexer.
func NewLoggingSearchIndexer(log *slog.Logger) *LoggingSearchIndexer {
	return &LoggingSearchIndexer{log: log}
}

// ReindexOrder implements ports.SearchIndexer.
func (i *LoggingSearchIndexer) ReindexOrder(ctx context.Context, orderID kernel.OrderID) error {
	i.log.DebugContext(ctx, "order reindex requested", "order_id", int64(orderID))
	return nil
}
