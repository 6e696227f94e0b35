package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/courier"
)

// RecordHeartbeatCommandHandler upserts a courier's last-known position.
// Heartbeats carry no sequence numbers; concurrent reports for the same
// courier resolve last-writer-wins at the storage layer.
type RecordHeartbeatCommandHandler struct {
	uowFactory PositionUoWFactory
}

// NewRecordHeartbeatCommandHandler creates a handler for courier heartbeats.
func NewRecordHeartbeatCommandHandler(uowFactory PositionUoWFactory) RecordHeartbeatCommandHandler {
	return RecordHeartbeatCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the heartbeat command.
func (h RecordHeartbeatCommandHandler) Handle(ctx context.Context, command RecordHeartbeatCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	position, err := courier.NewPosition(
		command.CourierID(), command.Point(), command.Address(), command.Region())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierPositionRepository().Upsert(ctx, position); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
