package ports

import (
	"context"
	"errors"

	"storymap/internal/core/domain/model/kernel"
	"storymap/internal/core/domain/model/order"
)

// ErrConcurrentUpdate is returned by Update when the stored order version no
// longer matches the aggregate's version.
var ErrConcurrentUpdate = errors.New("order was modified concurrently")

// OrderRepository defines the persistence contract for order aggregates.
// Orders are stored with their complete status history.
type OrderRepository interface {
	// Add persists a newly placed order.
	// The order must be valid and its id and number must not exist yet.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists status, history and production data changes.
	// History entries already stored are never rewritten; only new entries are appended.
	// Returns ErrConcurrentUpdate if the order changed since it was loaded.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its unique identifier.
	// Returns errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByNumber retrieves an order by its human readable number.
	GetByNumber(ctx context.Context, number order.Number) (*order.Order, error)

	// NumberExists reports whether an order number is taken.
	NumberExists(ctx context.Context, number order.Number) (bool, error)

	// GetFirstAwaitingExport retrieves the oldest approved order without an export
	// whose id is not in skip. Returns errs.ObjectNotFoundError when there is none.
	GetFirstAwaitingExport(ctx context.Context, skip ...kernel.UUID) (*order.Order, error)

	// GetAllInStatus retrieves all orders in the given status, oldest first.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
