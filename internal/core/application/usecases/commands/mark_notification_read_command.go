package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrMarkNotificationReadCommandIsNotConstructed = errors.New(
	"MarkNotificationReadCommand must be created via NewMarkNotificationReadCommand constructor",
)

// MarkNotificationReadCommand marks a single notification as read on behalf
// of its recipient.
type MarkNotificationReadCommand struct { //nolint:recvcheck //using for validation
	recipientID    kernel.UUID
	notificationID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkNotificationReadCommand creates a command to mark one notification read.
func NewMarkNotificationReadCommand(recipientID, notificationID kernel.UUID) (MarkNotificationReadCommand, error) {
	readCommand := MarkNotificationReadCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		readCommand.setRecipientID(recipientID),
		readCommand.setNotificationID(notificationID),
	); err != nil {
		return MarkNotificationReadCommand{}, err
	}

	return readCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkNotificationReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkNotificationReadCommandIsNotConstructed)
}

// RecipientID returns the caller on whose behalf the mark happens.
func (c MarkNotificationReadCommand) RecipientID() kernel.UUID {
	return c.recipientID
}

// NotificationID returns the notification to mark.
func (c MarkNotificationReadCommand) NotificationID() kernel.UUID {
	return c.notificationID
}

func (c *MarkNotificationReadCommand) setRecipientID(recipientID kernel.UUID) error {
	if err := recipientID.Validate(); err != nil {
		return err
	}

	c.recipientID = recipientID
	return nil
}

func (c *MarkNotificationReadCommand) setNotificationID(notificationID kernel.UUID) error {
	if err := notificationID.Validate(); err != nil {
		return err
	}

	c.notificationID = notificationID
	return nil
}
