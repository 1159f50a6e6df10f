// Package errs provides the standardized error types of the marketplace core.
//
// Every error kind follows the same pattern: a sentinel error variable for
// errors.Is checks, a struct type carrying the error details, constructor
// functions with and without a cause, an Error() method for formatting and an
// Unwrap() method pointing at the sentinel.
//
// The kinds map onto the error taxonomy of the order/dispatch pipeline:
// policy errors (InvalidTransitionError, DeliveryNotPendingError,
// InsufficientStockError) are caller-facing and never retried, while
// StockConflictError marks exhausted optimistic-lock retries.
package errs
