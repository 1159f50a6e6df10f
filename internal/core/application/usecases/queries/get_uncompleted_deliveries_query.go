package queries

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrGetUncompletedDeliveriesQueryIsNotConstructed = errors.New(
	"GetUncompletedDeliveriesQuery must be created via NewGetUncompletedDeliveriesQuery constructor",
)

// GetUncompletedDeliveriesQuery retrieves every delivery still in flight, for
// dispatch monitoring.
type GetUncompletedDeliveriesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetUncompletedDeliveriesQuery creates the parameterless query.
func NewGetUncompletedDeliveriesQuery() GetUncompletedDeliveriesQuery {
	return GetUncompletedDeliveriesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetUncompletedDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetUncompletedDeliveriesQueryIsNotConstructed)
}

// GetUncompletedDeliveriesQueryResponse is one in-flight delivery.
type GetUncompletedDeliveriesQueryResponse struct {
	DeliveryID       int64
	OrderID          int64
	Status           string
	RiderID          *int64
	RemainingMinutes float64
}
