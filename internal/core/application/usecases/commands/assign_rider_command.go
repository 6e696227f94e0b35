package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrAssignRiderCommandIsNotConstructed = errors.New(
	"AssignRiderCommand must be created via NewAssignRiderCommand constructor",
)

// AssignRiderCommand represents a rider claiming an order for delivery.
// Assignment is only legal once the order is Ready (or already out for
// delivery, when a dispatcher reassigns).
type AssignRiderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignRiderCommand creates a command to assign a courier to an order.
func NewAssignRiderCommand(orderID, courierID kernel.UUID) (AssignRiderCommand, error) {
	assignCommand := AssignRiderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		assignCommand.setOrderID(orderID),
		assignCommand.setCourierID(courierID),
	); err != nil {
		return AssignRiderCommand{}, err
	}

	return assignCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignRiderCommand) Validate() error {
	return c.guard.Validate(ErrAssignRiderCommandIsNotConstructed)
}

// OrderID returns the order being claimed.
func (c AssignRiderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CourierID returns the claiming courier.
func (c AssignRiderCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c *AssignRiderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignRiderCommand) setCourierID(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}

	c.courierID = courierID
	return nil
}
