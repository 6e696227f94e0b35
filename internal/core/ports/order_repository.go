package ports

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// ErrStaleStatus is returned by OrderRepository.UpdateStatus when the stored
// status no longer matches the status the caller based its transition on.
var ErrStaleStatus = errors.New("order status changed concurrently")

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and atomically mutating order
// status and courier assignment.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateStatus persists the aggregate's status, audit stamp and
	// cancellation reason, guarded by the status the caller read
	// (`WHERE status = expected`). When the row's status no longer matches,
	// nothing is written and ErrStaleStatus is returned; the caller re-reads
	// and re-validates the transition.
	UpdateStatus(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// UpdateAssignment persists the aggregate's assigned courier.
	UpdateAssignment(ctx context.Context, aggregate *order.Order) error
}
