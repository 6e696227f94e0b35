package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand represents a request to move an order to a new
// lifecycle status. The target status arrives in the external vocabulary
// ("PickedUp" rather than "OutForDelivery") and is translated here, so the
// handler only ever sees domain statuses.
//
// Example:
//
//	cmd, err := NewUpdateOrderStatusCommand(orderID, "Ready", staffID, "")
//	if err != nil {
//	    return fmt.Errorf("invalid status update: %w", err)
//	}
//	err = handler.Handle(ctx, cmd)
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	targetStatus order.Status
	actorID      kernel.UUID
	reason       string

	guard guard.ConstructorGuard
}

// NewUpdateOrderStatusCommand creates a command to update an order's status.
// externalStatus must be one of the external vocabulary names; reason is
// required by the domain only when cancelling.
func NewUpdateOrderStatusCommand(
	orderID kernel.UUID, externalStatus string, actorID kernel.UUID, reason string,
) (UpdateOrderStatusCommand, error) {
	statusCommand := UpdateOrderStatusCommand{
		reason: reason,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		statusCommand.setOrderID(orderID),
		statusCommand.setTargetStatus(externalStatus),
		statusCommand.setActorID(actorID),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return statusCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

// OrderID returns the order to update.
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

// TargetStatus returns the requested status in domain vocabulary.
func (c UpdateOrderStatusCommand) TargetStatus() order.Status {
	return c.targetStatus
}

// ActorID returns who requested the update, recorded on the audit trail.
func (c UpdateOrderStatusCommand) ActorID() kernel.UUID {
	return c.actorID
}

// Reason returns the free-text reason, empty unless cancelling.
func (c UpdateOrderStatusCommand) Reason() string {
	return c.reason
}

func (c *UpdateOrderStatusCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *UpdateOrderStatusCommand) setTargetStatus(externalStatus string) error {
	status, err := order.StatusFromExternal(externalStatus)
	if err != nil {
		return err
	}

	c.targetStatus = status
	return nil
}

func (c *UpdateOrderStatusCommand) setActorID(actorID kernel.UUID) error {
	if err := actorID.Validate(); err != nil {
		return err
	}

	c.actorID = actorID
	return nil
}
