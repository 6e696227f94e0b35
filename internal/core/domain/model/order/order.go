package order

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

// confirmationCodeDigits is the length of the delivery confirmation code
// generated for door-delivery orders.
const confirmationCodeDigits = 4

// Domain errors for order operations.
var (
	// ErrOrderIsNotConstructed is returned when using an improperly initialized Order.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructors")
	// ErrInvalidStatusTransition is returned when a requested status is not
	// reachable from the current status along the transition graph.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrReasonRequired is returned when cancelling an order without a reason.
	ErrReasonRequired = errors.New("cancellation reason is required")
	// ErrCourierAssignmentNotAllowed is returned when assigning a courier to an
	// order that has not reached the Ready stage, or has left delivery.
	ErrCourierAssignmentNotAllowed = errors.New("courier can only be assigned to an order that is ready or out for delivery")
	// ErrDeliveryAddressIsRequired is returned when creating a door-delivery
	// order without a delivery address.
	ErrDeliveryAddressIsRequired = errs.NewValueIsRequiredError("delivery address")
)

// Pricing is the monetary breakdown of an order.
// All amounts are integer minor-currency units (e.g. kobo, cents).
type Pricing struct {
	Subtotal    int64
	Extras      int64
	Discount    int64
	DeliveryFee int64
	Total       int64
}

// Validate checks amounts are non-negative and the total adds up.
func (p Pricing) Validate() error {
	if p.Subtotal < 0 || p.Extras < 0 || p.Discount < 0 || p.DeliveryFee < 0 || p.Total < 0 {
		return errs.NewValueIsInvalidError("pricing amounts must not be negative")
	}
	if p.Total != p.Subtotal+p.Extras+p.DeliveryFee-p.Discount {
		return errs.NewValueIsInvalidErrorWithCause("pricing total is inconsistent",
			fmt.Errorf("total %d != subtotal %d + extras %d + delivery fee %d - discount %d",
				p.Total, p.Subtotal, p.Extras, p.DeliveryFee, p.Discount))
	}
	return nil
}

// PickupLocation identifies where a courier collects the order.
type PickupLocation struct {
	ID      kernel.UUID
	Name    string
	Address string
	Region  string
	Point   kernel.GeoPoint
}

// Validate checks the pickup location carries an identity and a valid point.
func (l PickupLocation) Validate() error {
	return errors.Join(l.ID.Validate(), l.Point.Validate())
}

// DeliveryAddress is the customer destination of a door-delivery order.
type DeliveryAddress struct {
	Address string
	Point   kernel.GeoPoint
}

// Validate checks the delivery address carries text and a valid point.
func (a DeliveryAddress) Validate() error {
	if a.Address == "" {
		return errs.NewValueIsRequiredError("delivery address text")
	}
	return a.Point.Validate()
}

// Order is the aggregate root for an order's lifecycle.
// Its status is mutated only through TransitionTo, which enforces the
// transition graph and stamps an actor/time audit trail. Orders are never
// hard-deleted; terminal orders are retained for history.
//
// Invariants:
//   - status is always one of the enumerated Status values
//   - assignedCourierID is non-nil only once status has reached Ready
//   - door-delivery orders carry a delivery address and a confirmation code
type Order struct {
	id              kernel.UUID
	orderNumber     string
	customerID      kernel.UUID
	fulfillment     FulfillmentType
	pricing         Pricing
	itemCount       int
	pickupLocation  PickupLocation
	deliveryAddress *DeliveryAddress

	status             Status
	assignedCourierID  *kernel.UUID
	estimatedReadyTime time.Time

	// deliveryConfirmationCode is the short numeric code the customer reads
	// to the courier at hand-off. Door-delivery orders only.
	deliveryConfirmationCode string

	statusUpdatedBy    *kernel.UUID
	statusUpdatedAt    time.Time
	cancellationReason string

	guard guard.ConstructorGuard
}

// NewOrder creates a new Order in Pending status.
// Door-delivery orders require a delivery address and receive a randomly
// generated numeric confirmation code; pickup orders carry neither.
func NewOrder(
	id kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	fulfillment FulfillmentType,
	pricing Pricing,
	itemCount int,
	pickupLocation PickupLocation,
	deliveryAddress *DeliveryAddress,
	estimatedReadyTime time.Time,
) (*Order, error) {
	o := &Order{
		status:             Pending,
		estimatedReadyTime: estimatedReadyTime,
		statusUpdatedAt:    time.Now().UTC(),
		guard:              guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setCustomerID(customerID),
		o.setFulfillment(fulfillment),
		o.setPricing(pricing),
		o.setItemCount(itemCount),
		o.setPickupLocation(pickupLocation),
		o.setDeliveryAddress(fulfillment, deliveryAddress),
	); err != nil {
		return nil, err
	}

	if fulfillment == DoorDelivery {
		code, err := newConfirmationCode()
		if err != nil {
			return nil, err
		}
		o.deliveryConfirmationCode = code
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder it accepts the full persisted state, including status,
// courier assignment, confirmation code and audit trail, without generating
// anything anew.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	customerID kernel.UUID,
	fulfillment FulfillmentType,
	pricing Pricing,
	itemCount int,
	pickupLocation PickupLocation,
	deliveryAddress *DeliveryAddress,
	status Status,
	assignedCourierID *kernel.UUID,
	estimatedReadyTime time.Time,
	deliveryConfirmationCode string,
	statusUpdatedBy *kernel.UUID,
	statusUpdatedAt time.Time,
	cancellationReason string,
) (*Order, error) {
	o := &Order{
		status:                   status,
		assignedCourierID:        assignedCourierID,
		estimatedReadyTime:       estimatedReadyTime,
		deliveryConfirmationCode: deliveryConfirmationCode,
		statusUpdatedBy:          statusUpdatedBy,
		statusUpdatedAt:          statusUpdatedAt,
		cancellationReason:       cancellationReason,
		guard:                    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setOrderNumber(orderNumber),
		o.setCustomerID(customerID),
		o.setFulfillment(fulfillment),
		o.setPricing(pricing),
		o.setItemCount(itemCount),
		o.setPickupLocation(pickupLocation),
		o.setDeliveryAddress(fulfillment, deliveryAddress),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the short human-facing order number.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// CustomerID returns the owning customer's identifier.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Fulfillment returns the order's fulfillment type.
func (o *Order) Fulfillment() FulfillmentType {
	return o.fulfillment
}

// Pricing returns the monetary breakdown in minor units.
func (o *Order) Pricing() Pricing {
	return o.pricing
}

// ItemCount returns the number of order items.
func (o *Order) ItemCount() int {
	return o.itemCount
}

// PickupLocation returns where a courier collects the order.
func (o *Order) PickupLocation() PickupLocation {
	return o.pickupLocation
}

// DeliveryAddress returns the customer destination.
// Returns nil for pickup orders.
func (o *Order) DeliveryAddress() *DeliveryAddress {
	return o.deliveryAddress
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// AssignedCourier returns the assigned courier's ID, nil if unassigned.
func (o *Order) AssignedCourier() *kernel.UUID {
	return o.assignedCourierID
}

// EstimatedReadyTime returns when the order is expected to be ready.
func (o *Order) EstimatedReadyTime() time.Time {
	return o.estimatedReadyTime
}

// DeliveryConfirmationCode returns the hand-off code.
// Empty for pickup orders.
func (o *Order) DeliveryConfirmationCode() string {
	return o.deliveryConfirmationCode
}

// StatusUpdatedBy returns the actor that last changed the status, nil if the
// order has never been transitioned.
func (o *Order) StatusUpdatedBy() *kernel.UUID {
	return o.statusUpdatedBy
}

// StatusUpdatedAt returns when the status last changed.
func (o *Order) StatusUpdatedAt() time.Time {
	return o.statusUpdatedAt
}

// CancellationReason returns the reason supplied when the order was
// cancelled, empty otherwise.
func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

// TransitionTo moves the order to the requested status.
//
// Rules enforced:
//   - the requested status must be directly reachable from the current
//     status along the transition graph (ErrInvalidStatusTransition)
//   - transitioning to Cancelled requires a non-empty reason (ErrReasonRequired)
//
// On success the actor and time are stamped on the audit trail. The stored
// status is left untouched on any failure.
func (o *Order) TransitionTo(requested Status, actorID kernel.UUID, reason string) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := requested.Validate(); err != nil {
		return err
	}
	if err := actorID.Validate(); err != nil {
		return err
	}

	if !o.status.CanTransitionTo(requested) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, o.status, requested)
	}

	if requested == Cancelled {
		if reason == "" {
			return ErrReasonRequired
		}
		o.cancellationReason = reason
	}

	o.status = requested
	o.statusUpdatedBy = &actorID
	o.statusUpdatedAt = time.Now().UTC()
	return nil
}

// AssignCourier records the courier that claimed the order.
// Assignment is legal only once the order has reached the post-ready stage
// (Ready or OutForDelivery); reassignment while Ready is allowed.
func (o *Order) AssignCourier(courierID kernel.UUID) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := courierID.Validate(); err != nil {
		return err
	}

	if o.status != Ready && o.status != OutForDelivery {
		return ErrCourierAssignmentNotAllowed
	}

	o.assignedCourierID = &courierID
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setOrderNumber(orderNumber string) error {
	if orderNumber == "" {
		return errs.NewValueIsRequiredError("order number")
	}
	o.orderNumber = orderNumber
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setFulfillment(fulfillment FulfillmentType) error {
	if err := fulfillment.Validate(); err != nil {
		return err
	}
	o.fulfillment = fulfillment
	return nil
}

func (o *Order) setPricing(pricing Pricing) error {
	if err := pricing.Validate(); err != nil {
		return err
	}
	o.pricing = pricing
	return nil
}

func (o *Order) setItemCount(itemCount int) error {
	if itemCount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("item count is invalid",
			fmt.Errorf("%d is not greater than 0", itemCount))
	}
	o.itemCount = itemCount
	return nil
}

func (o *Order) setPickupLocation(location PickupLocation) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.pickupLocation = location
	return nil
}

func (o *Order) setDeliveryAddress(fulfillment FulfillmentType, address *DeliveryAddress) error {
	if fulfillment == DoorDelivery {
		if address == nil {
			return ErrDeliveryAddressIsRequired
		}
		if err := address.Validate(); err != nil {
			return err
		}
	}
	o.deliveryAddress = address
	return nil
}

// newConfirmationCode generates a zero-padded numeric code with
// confirmationCodeDigits digits using crypto/rand.
func newConfirmationCode() (string, error) {
	limit := big.NewInt(1)
	for range confirmationCodeDigits {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}

	return fmt.Sprintf("%0*d", confirmationCodeDigits, n), nil
}
