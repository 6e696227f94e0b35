package queries

import (
	"context"
	"encoding/json"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetNotificationsQueryHandler reads the notification feed straight from the
// database. Uses direct SQL for optimal read performance in the CQRS pattern.
type GetNotificationsQueryHandler struct {
	db *gorm.DB
}

// NewGetNotificationsQueryHandler creates a handler for notification feed queries.
// Requires a GORM database connection for query execution.
func NewGetNotificationsQueryHandler(db *gorm.DB) GetNotificationsQueryHandler {
	return GetNotificationsQueryHandler{db: db}
}

// Handle executes the feed query.
// Returns one page of notifications newest first plus the total count
// matching the filters, so clients can render pagination.
func (h GetNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetNotificationsQuery,
) (GetNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetNotificationsQueryResponse{}, err
	}

	where := "recipient_id = ?"
	args := []any{query.RecipientID().String()}

	if query.UnreadOnly() {
		where += " AND read = FALSE"
	}
	if query.Kind() != "" {
		where += " AND kind = ?"
		args = append(args, query.Kind())
	}

	var total int64
	err := h.db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM notifications WHERE "+where, args...).
		Scan(&total).Error
	if err != nil {
		return GetNotificationsQueryResponse{}, err
	}

	offset := (query.Page() - 1) * query.PerPage()
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			kind,
			title,
			body,
			payload,
			read,
			read_at,
			created_at
		FROM notifications
		WHERE `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, append(args, query.PerPage(), offset)...).Rows()
	if err != nil {
		return GetNotificationsQueryResponse{}, err
	}
	defer rows.Close()

	items := make([]NotificationView, 0, query.PerPage())
	for rows.Next() {
		var view NotificationView
		var id uuid.UUID
		var payload []byte
		var readAt *time.Time

		err = rows.Scan(
			&id,
			&view.Kind,
			&view.Title,
			&view.Body,
			&payload,
			&view.Read,
			&readAt,
			&view.CreatedAt,
		)
		if err != nil {
			return GetNotificationsQueryResponse{}, err
		}

		notificationID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return GetNotificationsQueryResponse{}, idErr
		}
		view.ID = notificationID
		view.ReadAt = readAt

		if len(payload) > 0 {
			if err = json.Unmarshal(payload, &view.Payload); err != nil {
				return GetNotificationsQueryResponse{}, err
			}
		}

		items = append(items, view)
	}

	if err = rows.Err(); err != nil {
		return GetNotificationsQueryResponse{}, err
	}

	return GetNotificationsQueryResponse{
		Items:   items,
		Total:   total,
		Page:    query.Page(),
		PerPage: query.PerPage(),
	}, nil
}
