package kernel_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDValidation(t *testing.T) {
	require.NoError(t, kernel.OrderID(1).Validate())
	require.NoError(t, kernel.RiderID(7).Validate())

	require.ErrorIs(t, kernel.OrderID(0).Validate(), errs.ErrValueIsRequired)
	require.ErrorIs(t, kernel.DeliveryID(-3).Validate(), errs.ErrValueIsRequired)
	require.ErrorIs(t, kernel.ProductID(0).Validate(), errs.ErrValueIsRequired)
	require.ErrorIs(t, kernel.CustomerID(0).Validate(), errs.ErrValueIsRequired)
}

func TestMoney(t *testing.T) {
	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(decimal.NewFromInt(-1))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("arithmetic", func(t *testing.T) {
		unit := kernel.NewMoneyFromInt(2500)
		total := unit.Mul(2).Add(kernel.NewMoneyFromInt(3000))

		assert.Equal(t, "8000", total.String())
		assert.True(t, total.IsEqual(kernel.NewMoneyFromInt(8000)))
		assert.True(t, kernel.ZeroMoney().IsZero())
	})
}
