package commands

import (
	"context"
)

// MarkAllNotificationsReadCommandHandler marks every unread notification of
// a recipient as read. Marking zero rows is a success, not an error.
type MarkAllNotificationsReadCommandHandler struct {
	uowFactory NotificationUoWFactory
}

// NewMarkAllNotificationsReadCommandHandler creates a handler for the bulk mark-read operation.
func NewMarkAllNotificationsReadCommandHandler(
	uowFactory NotificationUoWFactory,
) MarkAllNotificationsReadCommandHandler {
	return MarkAllNotificationsReadCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the bulk mark-read command and returns how many
// notifications changed state.
func (h MarkAllNotificationsReadCommandHandler) Handle(
	ctx context.Context, command MarkAllNotificationsReadCommand,
) (int64, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	marked, err := uow.NotificationRepository().MarkAllRead(ctx, command.RecipientID())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return marked, nil
}
