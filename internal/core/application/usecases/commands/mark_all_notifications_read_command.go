package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrMarkAllNotificationsReadCommandIsNotConstructed = errors.New(
	"MarkAllNotificationsReadCommand must be created via NewMarkAllNotificationsReadCommand constructor",
)

// MarkAllNotificationsReadCommand marks every unread notification of a
// recipient as read in one operation.
type MarkAllNotificationsReadCommand struct { //nolint:recvcheck //using for validation
	recipientID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkAllNotificationsReadCommand creates a command to mark all of a
// recipient's notifications read.
func NewMarkAllNotificationsReadCommand(recipientID kernel.UUID) (MarkAllNotificationsReadCommand, error) {
	readAllCommand := MarkAllNotificationsReadCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := readAllCommand.setRecipientID(recipientID); err != nil {
		return MarkAllNotificationsReadCommand{}, err
	}

	return readAllCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkAllNotificationsReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkAllNotificationsReadCommandIsNotConstructed)
}

// RecipientID returns whose notifications are marked.
func (c MarkAllNotificationsReadCommand) RecipientID() kernel.UUID {
	return c.recipientID
}

func (c *MarkAllNotificationsReadCommand) setRecipientID(recipientID kernel.UUID) error {
	if err := recipientID.Validate(); err != nil {
		return err
	}

	c.recipientID = recipientID
	return nil
}
