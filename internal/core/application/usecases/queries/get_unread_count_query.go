package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetUnreadCountQueryIsNotConstructed = errors.New(
	"GetUnreadCountQuery must be created via NewGetUnreadCountQuery constructor",
)

// GetUnreadCountQuery retrieves how many unread notifications a recipient
// has, for the badge counter.
type GetUnreadCountQuery struct { //nolint:recvcheck //using for validation
	recipientID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetUnreadCountQuery creates a query for a recipient's unread counter.
func NewGetUnreadCountQuery(recipientID kernel.UUID) (GetUnreadCountQuery, error) {
	countQuery := GetUnreadCountQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := countQuery.setRecipientID(recipientID); err != nil {
		return GetUnreadCountQuery{}, err
	}

	return countQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetUnreadCountQuery) Validate() error {
	return q.guard.Validate(ErrGetUnreadCountQueryIsNotConstructed)
}

// RecipientID returns whose counter is requested.
func (q GetUnreadCountQuery) RecipientID() kernel.UUID {
	return q.recipientID
}

func (q *GetUnreadCountQuery) setRecipientID(recipientID kernel.UUID) error {
	if err := recipientID.Validate(); err != nil {
		return err
	}

	q.recipientID = recipientID
	return nil
}
