// Package services provides domain services that operate across multiple
// domain entities of the delivery system.
//
// The package includes:
//   - CourierLocator: proximity search over courier positions, used by the
//     dispatch coordinator to find riders near a pickup point
//
// Domain services implement business logic that does not naturally belong to
// a single aggregate root.
package services
