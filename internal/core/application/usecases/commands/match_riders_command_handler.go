package commands

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/samber/lo"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// RiderOfferEventName is the live push sent to a rider proposed for a delivery.
// Offers are not persisted; the rider answers via RecordRiderDecisionCommand.
const RiderOfferEventName = "delivery.offer"

type riderOfferPayload struct {
	DeliveryID int64   `json:"delivery_id"`
	OrderID    int64   `json:"order_id"`
	StoreID    int64   `json:"store_id"`
	EtaMinutes float64 `json:"eta_minutes"`
}

// MatchRidersCommandHandler runs one matching round. For every PENDING
// delivery it asks the rider directory for candidates, applies the matching
// policy and pushes an offer to the selected rider. The offer writes nothing,
// so repeating it on the next round until the rider answers is harmless.
//
// A delivery whose candidate pool is fully tried is rejected on the spot. One
// that merely has no riders online stays PENDING: new riders may come online
// before the expiry sweep gives up on it.
type MatchRidersCommandHandler struct {
	uowFactory DispatchUoWFactory
	stores     ports.StoreDirectory
	riders     ports.RiderDirectory
	matcher    services.RiderMatcher
	dispatcher ports.NotificationDispatcher
	log        *slog.Logger
}

// NewMatchRidersCommandHandler creates a handler for matching rounds.
func NewMatchRidersCommandHandler(
	uowFactory DispatchUoWFactory,
	stores ports.StoreDirectory,
	riders ports.RiderDirectory,
	matcher services.RiderMatcher,
	dispatcher ports.NotificationDispatcher,
	log *slog.Logger,
) MatchRidersCommandHandler {
	return MatchRidersCommandHandler{
		uowFactory: uowFactory,
		stores:     stores,
		riders:     riders,
		matcher:    matcher,
		dispatcher: dispatcher,
		log:        log.With("component", "match_riders_handler"),
	}
}

// Handle processes one matching round. Per-delivery failures are logged and
// the round moves on; the next tick retries naturally.
func (h *MatchRidersCommandHandler) Handle(ctx context.Context, cmd MatchRidersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pending, err := listPendingDeliveries(ctx, h.uowFactory)
	if err != nil {
		return err
	}

	for _, dlv := range pending {
		candidates, err := h.riders.ListCandidates(ctx, dlv.StoreID())
		if err != nil {
			h.log.WarnContext(ctx, "listing rider candidates failed",
				"delivery_id", int64(dlv.ID()), "error", err)
			continue
		}

		candidate, err := h.matcher.Match(dlv, candidates)
		if errors.Is(err, services.ErrNoRiderAvailable) {
			h.handleExhaustedPool(ctx, dlv, candidates)
			continue
		}
		if err != nil {
			h.log.WarnContext(ctx, "matching failed",
				"delivery_id", int64(dlv.ID()), "error", err)
			continue
		}

		h.offer(ctx, dlv, candidate)
	}
	return nil
}

// handleExhaustedPool rejects the delivery when every candidate already
// declined it. An empty candidate list is not exhaustion, just an idle round.
func (h *MatchRidersCommandHandler) handleExhaustedPool(
	ctx context.Context,
	dlv *delivery.Delivery,
	candidates []services.Candidate,
) {
	exhausted := len(candidates) > 0 && lo.EveryBy(candidates, func(c services.Candidate) bool {
		return dlv.HasTriedRider(c.RiderID)
	})
	if !exhausted {
		return
	}

	err := rejectPendingDelivery(ctx, h.uowFactory, h.stores, dlv.ID(),
		"every available rider declined the delivery")
	if err != nil {
		h.log.ErrorContext(ctx, "rejecting delivery with exhausted rider pool failed",
			"delivery_id", int64(dlv.ID()), "error", err)
	}
}

func (h *MatchRidersCommandHandler) offer(
	ctx context.Context,
	dlv *delivery.Delivery,
	candidate services.Candidate,
) {
	payload, err := json.Marshal(riderOfferPayload{
		DeliveryID: int64(dlv.ID()),
		OrderID:    int64(dlv.OrderID()),
		StoreID:    int64(dlv.StoreID()),
		EtaMinutes: candidate.EtaMinutes,
	})
	if err != nil {
		h.log.ErrorContext(ctx, "encoding rider offer failed",
			"delivery_id", int64(dlv.ID()), "error", err)
		return
	}

	h.dispatcher.Dispatch(int64(candidate.RiderID), RiderOfferEventName, payload)
	h.log.DebugContext(ctx, "delivery offered",
		"delivery_id", int64(dlv.ID()),
		"rider_id", int64(candidate.RiderID),
		"eta_minutes", candidate.EtaMinutes)
}

// listPendingDeliveries reads the PENDING deliveries in a throwaway read-only
// transaction. Mutations happen later, one delivery per transaction.
func listPendingDeliveries(
	ctx context.Context,
	uowFactory DispatchUoWFactory,
) ([]*delivery.Delivery, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.DeliveryRepository().GetAllPending(ctx)
}
