package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct fulfillment workflow.
//
// State transitions:
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> OutForDelivery ──> Delivered
//	   │            │             │           │
//	   └────────────┴─────────────┴───────────┴──> Cancelled
//
// Cancellation is allowed from any state before OutForDelivery.
// Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status when a customer checks out.
	Pending

	// Confirmed indicates the pickup location has accepted the order.
	Confirmed

	// Preparing indicates the order is being prepared.
	Preparing

	// Ready indicates the order is ready for pickup by a courier.
	// Reaching Ready triggers a courier dispatch attempt.
	Ready

	// OutForDelivery indicates a courier has picked up the order.
	OutForDelivery

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled before pickup. Terminal.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Pending:        "Pending",
		Confirmed:      "Confirmed",
		Preparing:      "Preparing",
		Ready:          "Ready",
		OutForDelivery: "OutForDelivery",
		Delivered:      "Delivered",
		Cancelled:      "Cancelled",
	}
}

// getTransitionGraph returns, per status, the set of statuses directly
// reachable from it. Missing entries mean no outgoing transitions.
func getTransitionGraph() map[Status][]Status {
	return map[Status][]Status{
		Pending:        {Confirmed, Cancelled},
		Confirmed:      {Preparing, Cancelled},
		Preparing:      {Ready, Cancelled},
		Ready:          {OutForDelivery, Cancelled},
		OutForDelivery: {Delivered},
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and values outside the enumerated set are invalid.
func (s Status) Validate() error {
	if s < Pending || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// It implements the fmt.Stringer interface and is safe to call on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether target is directly reachable from s
// along the transition graph.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range getTransitionGraph()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// externalStatusNames maps the admin-facing status vocabulary onto internal
// statuses. The external vocabulary evolves independently of the internal
// enum; "PickedUp" is the external name for OutForDelivery.
func externalStatusNames() map[string]Status {
	return map[string]Status{
		"Pending":   Pending,
		"Confirmed": Confirmed,
		"Preparing": Preparing,
		"Ready":     Ready,
		"PickedUp":  OutForDelivery,
		"Delivered": Delivered,
		"Cancelled": Cancelled,
	}
}

// StatusFromExternal maps an admin-facing status name onto the internal enum.
// Returns an error for names outside the external vocabulary.
func StatusFromExternal(name string) (Status, error) {
	status, ok := externalStatusNames()[name]
	if !ok {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%q is not a known status", name))
	}
	return status, nil
}

// ExternalName returns the admin-facing name of the status
// (OutForDelivery appears as "PickedUp").
func (s Status) ExternalName() string {
	if s == OutForDelivery {
		return "PickedUp"
	}
	return s.String()
}
