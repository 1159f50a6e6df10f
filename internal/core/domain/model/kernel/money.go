package kernel

import (
	"github.com/shopspring/decimal"

	"marketplace/internal/pkg/errs"
)

// Money is an immutable non-negative monetary amount.
// It backs the order price breakdown (total/store/delivery) and the delivery
// charge; arithmetic goes through decimal to avoid float rounding.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money value. Negative amounts are rejected.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidError("amount must not be negative")
	}
	return Money{amount: amount}, nil
}

// NewMoneyFromInt creates a Money value from whole currency units.
func NewMoneyFromInt(units int64) Money {
	return Money{amount: decimal.NewFromInt(units)}
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Mul returns the amount multiplied by a whole quantity.
func (m Money) Mul(quantity int64) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(quantity))}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsEqual compares two amounts for numeric equality.
func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// Decimal returns the underlying decimal amount.
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// String implements fmt.Stringer.
func (m Money) String() string {
	return m.amount.String()
}
