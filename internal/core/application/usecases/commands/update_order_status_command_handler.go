package commands

import (
	"context"
	"errors"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

// staleRetryLimit bounds how often a compare-on-status conflict is retried
// with a fresh read before giving up.
const staleRetryLimit = 2

// StatusObserver receives successful transitions after commit. Implementations
// must never block the caller and never surface failures; a transition that
// committed stays committed regardless of what observers do with it.
type StatusObserver interface {
	// OrderBecameReady fires after a commit that moved the order to Ready.
	OrderBecameReady(aggregate *order.Order)

	// OrderPickedUp fires after a commit that moved the order to OutForDelivery.
	OrderPickedUp(aggregate *order.Order)
}

// UpdateOrderStatusCommandHandler applies a status transition atomically.
// The write is guarded by the status the transition was validated against
// (compare-on-status); when another writer got there first, the handler
// re-reads and re-validates against the new status before failing.
//
// Example:
//
//	handler := NewUpdateOrderStatusCommandHandler(uowFactory, coordinator)
//	updated, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // no such order
//	case errors.Is(err, order.ErrInvalidStatusTransition):
//	    // transition not allowed from the current status
//	case errors.Is(err, order.ErrReasonRequired):
//	    // cancellation without a reason
//	}
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	observer   StatusObserver
}

// NewUpdateOrderStatusCommandHandler creates a handler for status updates.
// The observer receives post-commit side effects (dispatch, push events).
func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory, observer StatusObserver,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		observer:   observer,
	}
}

// Handle processes the status update command and returns the committed
// aggregate. Loads the order, validates the transition against the loaded
// status, and persists it guarded by that same status. Observers are notified
// only after a successful commit.
func (h UpdateOrderStatusCommandHandler) Handle(
	ctx context.Context, command UpdateOrderStatusCommand,
) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	var lastErr error
	for range staleRetryLimit {
		updated, err := h.applyTransition(ctx, command)
		if errors.Is(err, ports.ErrStaleStatus) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, err
		}

		h.notifyObserver(updated)
		return updated, nil
	}

	return nil, lastErr
}

func (h UpdateOrderStatusCommandHandler) applyTransition(
	ctx context.Context, command UpdateOrderStatusCommand,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	ordersRepo := uow.OrderRepository()

	aggregate, err := ordersRepo.Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	expected := aggregate.Status()
	if err = aggregate.TransitionTo(command.TargetStatus(), command.ActorID(), command.Reason()); err != nil {
		return nil, err
	}

	if err = ordersRepo.UpdateStatus(ctx, aggregate, expected); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return aggregate, nil
}

func (h UpdateOrderStatusCommandHandler) notifyObserver(aggregate *order.Order) {
	if h.observer == nil {
		return
	}

	switch aggregate.Status() {
	case order.Ready:
		h.observer.OrderBecameReady(aggregate)
	case order.OutForDelivery:
		h.observer.OrderPickedUp(aggregate)
	}
}
