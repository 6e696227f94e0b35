package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/notification"
)

// NotificationFetchParams narrows GetByRecipient results.
// Page is 1-based; a zero PageSize falls back to the repository default.
type NotificationFetchParams struct {
	UnreadOnly bool
	// Kind filters by notification type, empty matches all.
	Kind     string
	Page     int
	PageSize int
}

// NotificationRepository defines the persistence contract for notifications
// and their delivery jobs.
type NotificationRepository interface {
	// Add persists a new notification.
	Add(ctx context.Context, aggregate *notification.Notification) error

	// Get retrieves a notification by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such notification exists.
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// GetByRecipient retrieves a recipient's notifications newest first,
	// along with the total count matching the filters.
	GetByRecipient(
		ctx context.Context, recipientID kernel.UUID, params NotificationFetchParams,
	) ([]*notification.Notification, int64, error)

	// CountUnread returns how many of the recipient's notifications are unread.
	CountUnread(ctx context.Context, recipientID kernel.UUID) (int64, error)

	// Update persists a notification's read state.
	Update(ctx context.Context, aggregate *notification.Notification) error

	// MarkAllRead marks every unread notification of the recipient as read
	// and returns how many rows changed.
	MarkAllRead(ctx context.Context, recipientID kernel.UUID) (int64, error)

	// Enqueue persists a new delivery job.
	Enqueue(ctx context.Context, job *notification.Job) error

	// ClaimDue retrieves up to limit pending jobs whose next attempt time has
	// passed, oldest first. Claimed rows are locked for the transaction
	// (`FOR UPDATE SKIP LOCKED`) so concurrent workers never double-deliver.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*notification.Job, error)

	// UpdateJob persists a job's attempt count, schedule and status.
	UpdateJob(ctx context.Context, job *notification.Job) error

	// DeleteFinishedJobsBefore removes completed and failed jobs created
	// before the cutoff, returning how many rows were removed.
	DeleteFinishedJobsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
