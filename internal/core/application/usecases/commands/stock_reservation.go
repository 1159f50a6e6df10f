package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/stock"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// stockMaxAttempts bounds the optimistic-lock retry loop. Exhaustion is fatal
// to the caller's attempt: the order must not be marked paid on a conflict.
const stockMaxAttempts = 3

// StockReservationService is the only mutator of stock rows. Adjustments are
// retried on version conflicts with a fresh re-read per attempt; a logical
// shortfall (InsufficientStock) is never retried because re-reading cannot
// manufacture quantity.
type StockReservationService struct {
	maxAttempts int
}

// NewStockReservationService creates the service with the default retry bound.
func NewStockReservationService() StockReservationService {
	return StockReservationService{maxAttempts: stockMaxAttempts}
}

// Adjust applies a signed delta to a product's stock. Negative deltas reserve
// stock during order placement, positive deltas restock on cancellation.
func (s StockReservationService) Adjust(
	ctx context.Context,
	repo ports.StockRepository,
	productID kernel.ProductID,
	delta int,
) (stock.Snapshot, error) {
	return s.mutate(ctx, repo, productID, func(row *stock.Stock) error {
		return row.Adjust(delta)
	})
}

// SetAbsolute overrides a product's stock quantity (administrative restock).
func (s StockReservationService) SetAbsolute(
	ctx context.Context,
	repo ports.StockRepository,
	productID kernel.ProductID,
	quantity int,
) (stock.Snapshot, error) {
	return s.mutate(ctx, repo, productID, func(row *stock.Stock) error {
		return row.SetAbsolute(quantity)
	})
}

func (s StockReservationService) mutate(
	ctx context.Context,
	repo ports.StockRepository,
	productID kernel.ProductID,
	apply func(*stock.Stock) error,
) (stock.Snapshot, error) {
	if err := productID.Validate(); err != nil {
		return stock.Snapshot{}, err
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		// Each attempt re-reads the row fresh; no quantity or version is
		// reused across retries.
		row, err := repo.GetByProductID(ctx, productID)
		if err != nil {
			return stock.Snapshot{}, err
		}

		if err := apply(row); err != nil {
			return stock.Snapshot{}, err
		}

		err = repo.Update(ctx, row)
		if err == nil {
			return row.Snapshot(), nil
		}
		if !errors.Is(err, errs.ErrVersionConflict) {
			return stock.Snapshot{}, err
		}
	}

	return stock.Snapshot{}, errs.NewStockConflictError(int64(productID), s.maxAttempts)
}
