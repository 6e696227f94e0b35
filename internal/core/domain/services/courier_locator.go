package services

import (
	"fooddelivery/internal/core/domain/model/courier"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// PositionFilter narrows a radius search to positions the caller considers
// eligible, e.g. positions fresher than a cutoff. A nil filter accepts all.
type PositionFilter func(*courier.Position) bool

// CourierLocator is a domain service that answers proximity questions over a
// set of courier positions.
//
// The service is pure: it holds no state and never mutates the positions it
// is given. Distances are great-circle distances, so a radius expressed in
// meters behaves the same at any latitude.
//
// Example usage:
//
//	locator := services.NewCourierLocator()
//	nearby, err := locator.WithinRadius(positions, restaurant, 5000, freshOnly)
//	if err != nil {
//	    // radius was not positive
//	    return
//	}
//	// nearby holds every eligible courier within 5km of the restaurant
type CourierLocator struct{}

// NewCourierLocator creates a new CourierLocator instance.
func NewCourierLocator() CourierLocator {
	return CourierLocator{}
}

// WithinRadius returns every position within radiusMeters of center that
// passes the filter. The input order is preserved; an empty input yields an
// empty result.
//
// Returns an error when radiusMeters is not positive or when center or any
// position fails validation.
func (l CourierLocator) WithinRadius(
	positions []*courier.Position,
	center kernel.GeoPoint,
	radiusMeters float64,
	filter PositionFilter,
) ([]*courier.Position, error) {
	if radiusMeters <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("radiusMeters", radiusMeters, 0, "+inf")
	}

	if err := center.Validate(); err != nil {
		return nil, err
	}

	matched := make([]*courier.Position, 0, len(positions))
	for _, p := range positions {
		if err := p.Validate(); err != nil {
			return nil, err
		}

		if filter != nil && !filter(p) {
			continue
		}

		distance, err := p.Point().DistanceMeters(center)
		if err != nil {
			return nil, err
		}

		if distance <= radiusMeters {
			matched = append(matched, p)
		}
	}

	return matched, nil
}

// WithinRadiusOfAll returns every position within radiusMeters of EVERY one
// of the given centers. The result is independent of the order of centers.
// With a single center it is equivalent to WithinRadius; with no centers it
// returns an empty result.
func (l CourierLocator) WithinRadiusOfAll(
	positions []*courier.Position,
	centers []kernel.GeoPoint,
	radiusMeters float64,
	filter PositionFilter,
) ([]*courier.Position, error) {
	if len(centers) == 0 {
		return []*courier.Position{}, nil
	}

	matched := positions
	for _, center := range centers {
		var err error
		matched, err = l.WithinRadius(matched, center, radiusMeters, filter)
		if err != nil {
			return nil, err
		}
		// Apply the filter only on the first pass.
		filter = nil

		if len(matched) == 0 {
			return matched, nil
		}
	}

	return matched, nil
}
