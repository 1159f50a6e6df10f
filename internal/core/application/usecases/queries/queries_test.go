package queries_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/pkg/errs"
)

func TestNewGetOrderQuery_Validation(t *testing.T) {
	_, err := queries.NewGetOrderQuery(0)
	require.Error(t, err)

	q, err := queries.NewGetOrderQuery(42)
	require.NoError(t, err)
	require.NoError(t, q.Validate())
}

func TestGetOrderQueryHandler_RejectsUnconstructedQuery(t *testing.T) {
	h := queries.NewGetOrderQueryHandler(nil)
	_, err := h.Handle(context.Background(), queries.GetOrderQuery{})
	require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
}

func TestNewGetUnreadNotificationsQuery_Validation(t *testing.T) {
	_, err := queries.NewGetUnreadNotificationsQuery(0)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	q, err := queries.NewGetUnreadNotificationsQuery(7)
	require.NoError(t, err)
	require.NoError(t, q.Validate())
}

func TestGetUncompletedDeliveriesQueryHandler_RejectsUnconstructedQuery(t *testing.T) {
	h := queries.NewGetUncompletedDeliveriesQueryHandler(nil)
	_, err := h.Handle(context.Background(), queries.GetUncompletedDeliveriesQuery{})
	require.ErrorIs(t, err, queries.ErrGetUncompletedDeliveriesQueryIsNotConstructed)
}
