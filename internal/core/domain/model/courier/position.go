// Package courier implements the CourierPosition aggregate.
//
// One position record exists per courier, upserted on every heartbeat with
// last-writer-wins semantics. Records are never purged for staleness;
// consumers that care about freshness filter on LastUpdatedAt themselves.
package courier

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// Domain errors for courier position operations.
var (
	// ErrPositionIsNotConstructed is returned when using an improperly initialized Position.
	ErrPositionIsNotConstructed = errors.New("Position must be created via NewPosition constructor")
	// ErrAddressIsRequired is returned when recording a heartbeat without address text.
	ErrAddressIsRequired = errs.NewValueIsRequiredError("address")
)

// Position is a courier's last-known location.
// It is keyed by the courier's identity; a new heartbeat replaces the
// previous record entirely.
type Position struct {
	courierID kernel.UUID
	point     kernel.GeoPoint
	// address is the free-text street address the courier client reported.
	address string
	// region is an optional tag used for region-scoped dispatch, e.g. "Lagos".
	region        string
	lastUpdatedAt time.Time

	guard guard.ConstructorGuard
}

// NewPosition creates a Position from a heartbeat.
// The update timestamp is stamped at construction.
func NewPosition(courierID kernel.UUID, point kernel.GeoPoint, address, region string) (*Position, error) {
	p := &Position{
		lastUpdatedAt: time.Now().UTC(),
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setCourierID(courierID),
		p.setPoint(point),
		p.setAddress(address),
	); err != nil {
		return nil, err
	}

	p.region = region
	return p, nil
}

// RestorePosition reconstructs a Position from persistent storage, keeping
// the persisted update timestamp.
func RestorePosition(
	courierID kernel.UUID,
	point kernel.GeoPoint,
	address, region string,
	lastUpdatedAt time.Time,
) (*Position, error) {
	p, err := NewPosition(courierID, point, address, region)
	if err != nil {
		return nil, err
	}

	p.lastUpdatedAt = lastUpdatedAt
	return p, nil
}

// Validate ensures the Position was created through a constructor.
func (p *Position) Validate() error {
	if p == nil {
		return ErrPositionIsNotConstructed
	}
	return p.guard.Validate(ErrPositionIsNotConstructed)
}

// CourierID returns the identity of the courier that owns this position.
func (p *Position) CourierID() kernel.UUID {
	return p.courierID
}

// Point returns the geographic coordinate of the last heartbeat.
func (p *Position) Point() kernel.GeoPoint {
	return p.point
}

// Address returns the free-text street address reported by the courier.
func (p *Position) Address() string {
	return p.address
}

// Region returns the optional region tag, empty when none was reported.
func (p *Position) Region() string {
	return p.region
}

// LastUpdatedAt returns when the position was last written.
func (p *Position) LastUpdatedAt() time.Time {
	return p.lastUpdatedAt
}

// IsFresherThan reports whether the position was updated after cutoff.
func (p *Position) IsFresherThan(cutoff time.Time) bool {
	return p.lastUpdatedAt.After(cutoff)
}

func (p *Position) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	p.courierID = courierID
	return nil
}

func (p *Position) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	p.point = point
	return nil
}

func (p *Position) setAddress(address string) error {
	if address == "" {
		return ErrAddressIsRequired
	}
	p.address = address
	return nil
}
