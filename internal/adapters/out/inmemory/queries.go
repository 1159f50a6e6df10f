package inmemory

import (
	"context"
	"sort"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/pkg/errs"
)

// Query handlers over the in-memory store, mirroring the SQL read models of
// the queries package for local mode.

// OrderQueryHandler answers single-order reads from the store.
type OrderQueryHandler struct {
	store *Store
}

// NewOrderQueryHandler creates the handler.
func NewOrderQueryHandler(store *Store) OrderQueryHandler {
	return OrderQueryHandler{store: store}
}

// Handle executes the query.
func (h OrderQueryHandler) Handle(
	_ context.Context,
	query queries.GetOrderQuery,
) (queries.GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return queries.GetOrderQueryResponse{}, err
	}

	h.store.mu.RLock()
	defer h.store.mu.RUnlock()

	row, exists := h.store.orders[query.OrderID()]
	if !exists {
		return queries.GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderId", int64(query.OrderID()))
	}

	ord := row.aggregate
	resp := queries.GetOrderQueryResponse{
		OrderID:       int64(ord.ID()),
		Status:        string(ord.Status()),
		StorePrice:    ord.StorePrice().Decimal(),
		DeliveryPrice: ord.DeliveryPrice().Decimal(),
		TotalPrice:    ord.TotalPrice().Decimal(),
	}
	if id := ord.DeliveryID(); id != nil {
		raw := int64(*id)
		resp.DeliveryID = &raw
	}
	return resp, nil
}

// UncompletedDeliveriesQueryHandler lists the deliveries still in flight.
type UncompletedDeliveriesQueryHandler struct {
	store *Store
}

// NewUncompletedDeliveriesQueryHandler creates the handler.
func NewUncompletedDeliveriesQueryHandler(store *Store) UncompletedDeliveriesQueryHandler {
	return UncompletedDeliveriesQueryHandler{store: store}
}

// Handle executes the query.
func (h UncompletedDeliveriesQueryHandler) Handle(
	_ context.Context,
	query queries.GetUncompletedDeliveriesQuery,
) ([]queries.GetUncompletedDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	h.store.mu.RLock()
	defer h.store.mu.RUnlock()

	var responses []queries.GetUncompletedDeliveriesQueryResponse
	for _, row := range h.store.deliveries {
		switch row.aggregate.Status() {
		case delivery.StatusCompleted, delivery.StatusCanceled, delivery.StatusRejected:
			continue
		}

		resp := queries.GetUncompletedDeliveriesQueryResponse{
			DeliveryID:       int64(row.aggregate.ID()),
			OrderID:          int64(row.aggregate.OrderID()),
			Status:           string(row.aggregate.Status()),
			RemainingMinutes: row.aggregate.RemainingMinutes(),
		}
		if id := row.aggregate.RiderID(); id != nil {
			raw := int64(*id)
			resp.RiderID = &raw
		}
		responses = append(responses, resp)
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].DeliveryID < responses[j].DeliveryID
	})
	return responses, nil
}

// UnreadNotificationsQueryHandler lists a recipient's unread feed.
type UnreadNotificationsQueryHandler struct {
	store *Store
}

// NewUnreadNotificationsQueryHandler creates the handler.
func NewUnreadNotificationsQueryHandler(store *Store) UnreadNotificationsQueryHandler {
	return UnreadNotificationsQueryHandler{store: store}
}

// Handle executes the query.
func (h UnreadNotificationsQueryHandler) Handle(
	_ context.Context,
	query queries.GetUnreadNotificationsQuery,
) ([]queries.GetUnreadNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	h.store.mu.RLock()
	defer h.store.mu.RUnlock()

	var responses []queries.GetUnreadNotificationsQueryResponse
	for _, aggregate := range h.store.notifications {
		if aggregate.RecipientID() != query.RecipientID() || aggregate.IsRead() {
			continue
		}
		responses = append(responses, queries.GetUnreadNotificationsQueryResponse{
			NotificationID: int64(aggregate.ID()),
			Kind:           string(aggregate.Kind()),
			Message:        aggregate.Message(),
			Payload:        aggregate.Payload(),
		})
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].NotificationID > responses[j].NotificationID
	})
	return responses, nil
}
