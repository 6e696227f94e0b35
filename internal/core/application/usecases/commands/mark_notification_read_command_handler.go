package commands

import (
	"context"

	"fooddelivery/internal/pkg/errs"
)

// MarkNotificationReadCommandHandler marks one notification as read.
// A notification belonging to a different recipient is reported as not
// found rather than as a permission failure, so callers cannot probe for
// other users' notification ids.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
}

// NewMarkNotificationReadCommandHandler creates a handler for the mark-read operation.
func NewMarkNotificationReadCommandHandler(uowFactory NotificationUoWFactory) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the mark-read command. Marking an already-read
// notification succeeds without changing its read time.
func (h MarkNotificationReadCommandHandler) Handle(ctx context.Context, command MarkNotificationReadCommand) error {
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

	notificationsRepo := uow.NotificationRepository()

	aggregate, err := notificationsRepo.Get(ctx, command.NotificationID())
	if err != nil {
		return err
	}

	if !aggregate.RecipientID().IsEqual(command.RecipientID()) {
		return errs.NewObjectNotFoundError("notificationID", command.NotificationID())
	}

	aggregate.MarkRead()

	if err = notificationsRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
