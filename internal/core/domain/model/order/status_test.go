package order_test

import (
	"testing"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allowed is the reference transition table the implementation must match.
var allowed = map[order.Status][]order.Status{
	order.StatusPending:       {order.StatusPreparing, order.StatusRejected, order.StatusCancelled},
	order.StatusPreparing:     {order.StatusRiderAssigned, order.StatusRejected},
	order.StatusRiderAssigned: {order.StatusDelivering},
	order.StatusDelivering:    {order.StatusCompleted},
}

func isAllowed(from, to order.Status) bool {
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}

func TestStatus_TransitionTableIsExhaustive(t *testing.T) {
	for _, from := range order.AllStatuses() {
		for _, to := range order.AllStatuses() {
			got := from.CanTransitTo(to)
			want := isAllowed(from, to)
			assert.Equalf(t, want, got, "transition %s -> %s", from, to)
		}
	}
}

func TestStatus_TransitToRejectsIllegalPairs(t *testing.T) {
	for _, from := range order.AllStatuses() {
		for _, to := range order.AllStatuses() {
			next, err := from.TransitTo(to)
			if isAllowed(from, to) {
				require.NoError(t, err)
				assert.Equal(t, to, next)
				continue
			}

			require.ErrorIs(t, err, errs.ErrInvalidTransition)

			var transitionErr *errs.InvalidTransitionError
			require.ErrorAs(t, err, &transitionErr)
			assert.Equal(t, string(from), transitionErr.From)
			assert.Equal(t, string(to), transitionErr.To)
		}
	}
}

func TestStatus_TerminalStatesAreFinal(t *testing.T) {
	terminals := []order.Status{order.StatusCompleted, order.StatusRejected, order.StatusCancelled}

	for _, terminal := range terminals {
		assert.True(t, terminal.IsTerminal())

		for _, to := range order.AllStatuses() {
			_, err := terminal.TransitTo(to)
			require.ErrorIsf(t, err, errs.ErrInvalidTransition, "%s -> %s must fail", terminal, to)
		}
	}
}

func TestStatus_ValidateRejectsUnknownStatus(t *testing.T) {
	require.ErrorIs(t, order.Status("SHIPPED").Validate(), errs.ErrValueIsInvalid)
	_, err := order.StatusPending.TransitTo(order.Status("SHIPPED"))
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
