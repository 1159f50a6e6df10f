package commands

import (
	"context"

	"marketplace/internal/core/domain/model/stock"
)

// AdjustStockCommandHandler applies administrative stock mutations through the
// same reservation service the order flow uses, so the optimistic-lock retry
// and the non-negative invariant hold for every writer.
type AdjustStockCommandHandler struct {
	uowFactory StockUoWFactory
	stock      StockReservationService
}

// NewAdjustStockCommandHandler creates a handler for stock adjustments.
func NewAdjustStockCommandHandler(uowFactory StockUoWFactory) AdjustStockCommandHandler {
	return AdjustStockCommandHandler{
		uowFactory: uowFactory,
		stock:      NewStockReservationService(),
	}
}

// Handle processes the mutation and returns the resulting stock snapshot.
func (h *AdjustStockCommandHandler) Handle(
	ctx context.Context,
	cmd AdjustStockCommand,
) (stock.Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		return stock.Snapshot{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return stock.Snapshot{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var (
		snapshot stock.Snapshot
		err      error
	)
	if cmd.IsAbsolute() {
		snapshot, err = h.stock.SetAbsolute(ctx, uow.StockRepository(), cmd.ProductID(), cmd.Quantity())
	} else {
		snapshot, err = h.stock.Adjust(ctx, uow.StockRepository(), cmd.ProductID(), cmd.Quantity())
	}
	if err != nil {
		return stock.Snapshot{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return stock.Snapshot{}, err
	}
	return snapshot, nil
}
