// Package order provides the Order aggregate of the story map manufacturing
// service together with its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root holding identity, the placed map snapshot,
//     derived production data, the current status and the status history
//   - Status: the lifecycle states from pending through delivered, plus the
//     cancelled and refunded exception states
//   - StatusHistoryEntry: one record of the append-only audit trail
//   - Number: the human readable order number
//   - TransitionPolicy: an optional hook validating status transitions
//
// Key business rules:
//   - The map snapshot is immutable once the order is placed
//   - Every status change appends exactly one history entry and updates the
//     status and the updated timestamp together
//   - The last history entry always carries the current status and history
//     timestamps never decrease
//   - Any transition between known statuses is accepted unless a stricter
//     TransitionPolicy is supplied
package order
