package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// FulfillmentType describes how an order reaches the customer.
type FulfillmentType int

const (
	// FulfillmentUnknown represents an invalid or undefined fulfillment type.
	FulfillmentUnknown FulfillmentType = iota

	// DoorDelivery means a courier delivers the order to the customer's address.
	DoorDelivery

	// Pickup means the customer collects the order at the pickup location.
	Pickup
)

// Validate checks if the FulfillmentType value is valid.
func (f FulfillmentType) Validate() error {
	if f != DoorDelivery && f != Pickup {
		return errs.NewValueIsInvalidErrorWithCause("fulfillment type is invalid",
			fmt.Errorf("%d is not a valid fulfillment type", f))
	}
	return nil
}

// String returns the human-readable name of the fulfillment type.
func (f FulfillmentType) String() string {
	switch f {
	case DoorDelivery:
		return "DoorDelivery"
	case Pickup:
		return "Pickup"
	default:
		return "Unknown"
	}
}
