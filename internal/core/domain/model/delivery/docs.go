// Package delivery contains the Delivery aggregate owned by the dispatch
// engine. A delivery is created in Pending when its order enters preparation,
// progresses monotonically through
//
//	PENDING ──> RIDER_ASSIGNED ──> PICKED_UP ──> IN_PROGRESS ──> COMPLETED
//
// and can fall out to CANCELED or REJECTED from any non-terminal state.
// A delivery can never be RIDER_ASSIGNED without a rider, and terminal states
// accept no further mutation.
package delivery
