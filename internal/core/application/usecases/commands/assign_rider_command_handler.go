package commands

import (
	"context"
)

// AssignRiderCommandHandler records which courier will deliver an order.
// Once assigned, dispatch events for the order narrow to the courier's
// individual scope.
type AssignRiderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewAssignRiderCommandHandler creates a handler for rider assignment.
func NewAssignRiderCommandHandler(uowFactory OrderUoWFactory) AssignRiderCommandHandler {
	return AssignRiderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the assignment command.
// The domain rejects claims on orders that are not Ready or OutForDelivery
// with order.ErrCourierAssignmentNotAllowed.
func (h AssignRiderCommandHandler) Handle(ctx context.Context, command AssignRiderCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.AssignCourier(command.CourierID()); err != nil {
		return err
	}

	if err = ordersRepo.UpdateAssignment(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
