// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetNotificationsQueryIsNotConstructed = errors.New(
	"GetNotificationsQuery must be created via NewGetNotificationsQuery constructor",
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetNotificationsQuery retrieves a recipient's notifications newest first,
// optionally narrowed to unread ones or to a single type.
//
// Example:
//
//	query, err := NewGetNotificationsQuery(recipientID, 1, 20, true, "order_update")
//	if err != nil {
//	    return err
//	}
//	page, err := handler.Handle(ctx, query)
type GetNotificationsQuery struct { //nolint:recvcheck //using for validation
	recipientID kernel.UUID
	page        int
	perPage     int
	unreadOnly  bool
	kind        string

	guard guard.ConstructorGuard
}

// NewGetNotificationsQuery creates a query for a recipient's notification feed.
// page is 1-based; zero falls back to 1. perPage of zero falls back to the
// default, values above the cap are rejected.
func NewGetNotificationsQuery(
	recipientID kernel.UUID, page, perPage int, unreadOnly bool, kind string,
) (GetNotificationsQuery, error) {
	feedQuery := GetNotificationsQuery{
		unreadOnly: unreadOnly,
		kind:       kind,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		feedQuery.setRecipientID(recipientID),
		feedQuery.setPage(page),
		feedQuery.setPerPage(perPage),
	); err != nil {
		return GetNotificationsQuery{}, err
	}

	return feedQuery, nil
}

// Validate ensures the query was created through the constructor.
func (q GetNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetNotificationsQueryIsNotConstructed)
}

// RecipientID returns whose feed is requested.
func (q GetNotificationsQuery) RecipientID() kernel.UUID {
	return q.recipientID
}

// Page returns the 1-based page number.
func (q GetNotificationsQuery) Page() int {
	return q.page
}

// PerPage returns the page size.
func (q GetNotificationsQuery) PerPage() int {
	return q.perPage
}

// UnreadOnly reports whether the feed is narrowed to unread notifications.
func (q GetNotificationsQuery) UnreadOnly() bool {
	return q.unreadOnly
}

// Kind returns the type filter, empty when absent.
func (q GetNotificationsQuery) Kind() string {
	return q.kind
}

func (q *GetNotificationsQuery) setRecipientID(recipientID kernel.UUID) error {
	if err := recipientID.Validate(); err != nil {
		return err
	}

	q.recipientID = recipientID
	return nil
}

func (q *GetNotificationsQuery) setPage(page int) error {
	if page < 0 {
		return errs.NewValueIsOutOfRangeError("page", page, 1, "+inf")
	}
	if page == 0 {
		page = 1
	}

	q.page = page
	return nil
}

func (q *GetNotificationsQuery) setPerPage(perPage int) error {
	if perPage < 0 || perPage > maxPageSize {
		return errs.NewValueIsOutOfRangeError("perPage", perPage, 0, maxPageSize)
	}
	if perPage == 0 {
		perPage = defaultPageSize
	}

	q.perPage = perPage
	return nil
}

// NotificationView is one notification in the feed read model.
type NotificationView struct {
	ID        kernel.UUID
	Kind      string
	Title     string
	Body      string
	Payload   map[string]any
	Read      bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

// GetNotificationsQueryResponse is one page of the feed plus the total count
// matching the filters.
type GetNotificationsQueryResponse struct {
	Items   []NotificationView
	Total   int64
	Page    int
	PerPage int
}
