package errs

import (
	"errors"
	"fmt"
)

// Sentinel errors for classification with errors.Is.
var (
	ErrObjectNotFound     = errors.New("object not found")
	ErrValueIsInvalid     = errors.New("value is invalid")
	ErrValueIsRequired    = errors.New("value is required")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrDeliveryNotPending = errors.New("delivery is not pending")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStockConflict      = errors.New("stock update conflict")
	ErrVersionConflict    = errors.New("version conflict")
)

// ObjectNotFoundError is returned when an entity cannot be found by its identifier.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError without a cause.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping a cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %v (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %v", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is returned when a supplied value fails validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError without a cause.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping a cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsRequiredError is returned when a required value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError without a cause.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping a cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidTransitionError is returned when a status transition is not in the
// allowed transition table. The state it refers to is left unchanged.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

// NewInvalidTransitionError creates an InvalidTransitionError for the given
// entity kind (e.g. "order", "delivery") and the attempted transition.
func NewInvalidTransitionError(entity, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot transit from %s to %s",
		ErrInvalidTransition, e.Entity, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// DeliveryNotPendingError is returned when a rider assignment is attempted on a
// delivery that already left the Pending status.
type DeliveryNotPendingError struct {
	DeliveryID int64
	Status     string
}

// NewDeliveryNotPendingError creates a DeliveryNotPendingError.
func NewDeliveryNotPendingError(deliveryID int64, status string) *DeliveryNotPendingError {
	return &DeliveryNotPendingError{DeliveryID: deliveryID, Status: status}
}

func (e *DeliveryNotPendingError) Error() string {
	return fmt.Sprintf("%s: delivery %d is %s", ErrDeliveryNotPending, e.DeliveryID, e.Status)
}

func (e *DeliveryNotPendingError) Unwrap() error {
	return ErrDeliveryNotPending
}

// InsufficientStockError is returned when a stock decrement would drive the
// quantity below zero. The operation fails without retry; the quantity is unchanged.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

// NewInsufficientStockError creates an InsufficientStockError.
func NewInsufficientStockError(productID int64, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{ProductID: productID, Requested: requested, Available: available}
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: product %d has %d, requested %d",
		ErrInsufficientStock, e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// VersionConflictError is returned by a repository when an optimistic-lock
// write finds the row's version already moved by a concurrent writer.
// Whether to retry is the caller's policy: stock adjustment retries a bounded
// number of times, order/delivery transitions fail straight to the caller.
type VersionConflictError struct {
	Entity string
	ID     int64
}

// NewVersionConflictError creates a VersionConflictError.
func NewVersionConflictError(entity string, id int64) *VersionConflictError {
	return &VersionConflictError{Entity: entity, ID: id}
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s: %s %d was modified concurrently", ErrVersionConflict, e.Entity, e.ID)
}

func (e *VersionConflictError) Unwrap() error {
	return ErrVersionConflict
}

// StockConflictError is returned when optimistic-lock retries on a stock row
// are exhausted by concurrent writers. Fatal to the caller's attempt.
type StockConflictError struct {
	ProductID int64
	Attempts  int
}

// NewStockConflictError creates a StockConflictError.
func NewStockConflictError(productID int64, attempts int) *StockConflictError {
	return &StockConflictError{ProductID: productID, Attempts: attempts}
}

func (e *StockConflictError) Error() string {
	return fmt.Sprintf("%s: product %d still conflicting after %d attempts",
		ErrStockConflict, e.ProductID, e.Attempts)
}

func (e *StockConflictError) Unwrap() error {
	return ErrStockConflict
}
