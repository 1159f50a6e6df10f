// Package stock contains the Stock aggregate: the per-product quantity row
// mutated only through the reservation service under optimistic concurrency
// control. Quantity never goes below zero; a decrement that would do so fails
// instead of clamping.
package stock

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// ErrStockIsNotConstructed is returned when a Stock instance was not created
// through NewStock or RestoreStock.
var ErrStockIsNotConstructed = errors.New("Stock must be created via NewStock or RestoreStock")

// Stock is the 1:1 quantity row of a product. The version field backs the
// optimistic-lock check in the persistence adapter: a write only succeeds when
// the stored version still matches the one the row was read with.
type Stock struct {
	productID kernel.ProductID
	quantity  int
	version   int64

	isConstructed bool
}

// NewStock creates the stock row for a freshly created product.
func NewStock(productID kernel.ProductID, quantity int) (*Stock, error) {
	if err := productID.Validate(); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, errs.NewValueIsInvalidError("quantity")
	}
	return &Stock{productID: productID, quantity: quantity, isConstructed: true}, nil
}

// RestoreStock reconstructs a stock row from persistence.
func RestoreStock(productID kernel.ProductID, quantity int, version int64) (*Stock, error) {
	s, err := NewStock(productID, quantity)
	if err != nil {
		return nil, err
	}
	s.version = version
	return s, nil
}

// Validate ensures the stock was built through a constructor.
func (s *Stock) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStockIsNotConstructed
	}
	return nil
}

// ProductID returns the owning product.
func (s *Stock) ProductID() kernel.ProductID { return s.productID }

// Quantity returns the current quantity.
func (s *Stock) Quantity() int { return s.quantity }

// Version returns the optimistic-lock version the row was read with.
func (s *Stock) Version() int64 { return s.version }

// Adjust applies a signed delta. A decrement below zero fails with
// InsufficientStockError and leaves the quantity unchanged; retrying cannot
// fix a logical shortfall, so callers must not retry that error.
func (s *Stock) Adjust(delta int) error {
	next := s.quantity + delta
	if next < 0 {
		return errs.NewInsufficientStockError(int64(s.productID), -delta, s.quantity)
	}
	s.quantity = next
	return nil
}

// SetAbsolute overrides the quantity (administrative restock).
func (s *Stock) SetAbsolute(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidError("quantity")
	}
	s.quantity = quantity
	return nil
}

// Snapshot is the caller-facing view of a stock row after an adjustment.
type Snapshot struct {
	ProductID kernel.ProductID
	Quantity  int
	Version   int64
}

// Snapshot returns the current state as a plain value.
func (s *Stock) Snapshot() Snapshot {
	return Snapshot{ProductID: s.productID, Quantity: s.quantity, Version: s.version}
}
