package stock_test

import (
	"testing"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/stock"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStock_Validation(t *testing.T) {
	_, err := stock.NewStock(0, 5)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = stock.NewStock(kernel.ProductID(1), -1)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestStock_AdjustNeverGoesNegative(t *testing.T) {
	s, err := stock.NewStock(kernel.ProductID(1), 5)
	require.NoError(t, err)

	require.NoError(t, s.Adjust(-2))
	assert.Equal(t, 3, s.Quantity())

	err = s.Adjust(-4)
	require.ErrorIs(t, err, errs.ErrInsufficientStock)
	assert.Equal(t, 3, s.Quantity(), "failed adjust must leave quantity unchanged")

	var insufficientErr *errs.InsufficientStockError
	require.ErrorAs(t, err, &insufficientErr)
	assert.Equal(t, 4, insufficientErr.Requested)
	assert.Equal(t, 3, insufficientErr.Available)
}

func TestStock_PositiveAdjustRestocks(t *testing.T) {
	s, err := stock.NewStock(kernel.ProductID(1), 0)
	require.NoError(t, err)

	require.NoError(t, s.Adjust(+7))
	assert.Equal(t, 7, s.Quantity())
}

func TestStock_SetAbsolute(t *testing.T) {
	s, err := stock.NewStock(kernel.ProductID(1), 5)
	require.NoError(t, err)

	require.NoError(t, s.SetAbsolute(42))
	assert.Equal(t, 42, s.Quantity())

	require.ErrorIs(t, s.SetAbsolute(-1), errs.ErrValueIsInvalid)
}

func TestStock_SnapshotCarriesVersion(t *testing.T) {
	s, err := stock.RestoreStock(kernel.ProductID(1), 5, 3)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, kernel.ProductID(1), snap.ProductID)
	assert.Equal(t, 5, snap.Quantity)
	assert.Equal(t, int64(3), snap.Version)
}
