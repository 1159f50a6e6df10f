// Package order contains the Order aggregate and its status state machine.
//
// The state machine is the single source of truth for what comes next in the
// order lifecycle. The allowed transitions are kept in a data-driven table so
// the rules are testable independently of any aggregate or persistence:
//
//	PENDING ──┬──> PREPARING ──> RIDER_ASSIGNED ──> DELIVERING ──> COMPLETED
//	          ├──> REJECTED
//	          └──> CANCELLED
//
// COMPLETED, REJECTED and CANCELLED are terminal; no transition leaves them.
// Order items are price/quantity snapshots taken at order time and become
// immutable once the order leaves PENDING.
package order
