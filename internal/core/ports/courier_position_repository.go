// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, the realtime emitter and
// the outbound message gateways. These interfaces enable dependency
// inversion and testability.
package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
)

// CourierPositionRepository defines the persistence contract for courier
// positions. One row exists per courier; heartbeats replace it.
type CourierPositionRepository interface {
	// Upsert writes the position, inserting on first heartbeat and
	// overwriting on every subsequent one (last writer wins).
	Upsert(ctx context.Context, position *courier.Position) error

	// Get retrieves the last-known position of a courier.
	// Returns errs.ObjectNotFoundError when the courier never sent a heartbeat.
	Get(ctx context.Context, courierID kernel.UUID) (*courier.Position, error)

	// GetAll retrieves the last-known position of every courier, fresh or
	// stale. Freshness filtering is the caller's concern.
	GetAll(ctx context.Context) ([]*courier.Position, error)
}
