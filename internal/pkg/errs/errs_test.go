package errs_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", int64(123))

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, int64(123), err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("orderId", int64(123), cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: orderId, ID is: 123 (cause: database connection failed)",
			err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("quantity")

		assert.Equal(t, "quantity", err.ParamName)
		assert.Equal(t, "value is invalid: quantity", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("must be positive")
		err := errs.NewValueIsInvalidErrorWithCause("quantity", cause)

		assert.Equal(t, "value is invalid: quantity (cause: must be positive)", err.Error())
	})
}

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError("order", "COMPLETED", "PREPARING")

	assert.Equal(t, "order", err.Entity)
	assert.Equal(t, "COMPLETED", err.From)
	assert.Equal(t, "PREPARING", err.To)
	assert.Equal(t,
		"invalid status transition: order cannot transit from COMPLETED to PREPARING",
		err.Error())
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestDeliveryNotPendingError(t *testing.T) {
	err := errs.NewDeliveryNotPendingError(7, "RIDER_ASSIGNED")

	assert.Equal(t, int64(7), err.DeliveryID)
	assert.Equal(t, "invalid status transition", errs.ErrInvalidTransition.Error())
	assert.Equal(t, "delivery is not pending: delivery 7 is RIDER_ASSIGNED", err.Error())
	require.ErrorIs(t, err, errs.ErrDeliveryNotPending)
}

func TestInsufficientStockError(t *testing.T) {
	err := errs.NewInsufficientStockError(42, 5, 3)

	assert.Equal(t, int64(42), err.ProductID)
	assert.Equal(t, 5, err.Requested)
	assert.Equal(t, 3, err.Available)
	assert.Equal(t, "insufficient stock: product 42 has 3, requested 5", err.Error())
	require.ErrorIs(t, err, errs.ErrInsufficientStock)
}

func TestStockConflictError(t *testing.T) {
	err := errs.NewStockConflictError(42, 3)

	assert.Equal(t, "stock update conflict: product 42 still conflicting after 3 attempts", err.Error())
	require.ErrorIs(t, err, errs.ErrStockConflict)
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	require.ErrorIs(t, errs.NewObjectNotFoundError("orderId", int64(1)), errs.ErrObjectNotFound)
	require.ErrorIs(t, errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid)
	require.ErrorIs(t, errs.NewValueIsRequiredError("riderId"), errs.ErrValueIsRequired)
	require.ErrorIs(t, errs.NewInvalidTransitionError("order", "PENDING", "COMPLETED"), errs.ErrInvalidTransition)
	require.ErrorIs(t, errs.NewDeliveryNotPendingError(1, "COMPLETED"), errs.ErrDeliveryNotPending)
	require.ErrorIs(t, errs.NewInsufficientStockError(1, 2, 1), errs.ErrInsufficientStock)
	require.ErrorIs(t, errs.NewStockConflictError(1, 3), errs.ErrStockConflict)
}
