package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetUnreadCountQueryHandler reads the unread counter straight from the
// database with a single aggregate query.
type GetUnreadCountQueryHandler struct {
	db *gorm.DB
}

// NewGetUnreadCountQueryHandler creates a handler for unread counter queries.
func NewGetUnreadCountQueryHandler(db *gorm.DB) GetUnreadCountQueryHandler {
	return GetUnreadCountQueryHandler{db: db}
}

// Handle executes the unread counter query.
func (h GetUnreadCountQueryHandler) Handle(ctx context.Context, query GetUnreadCountQuery) (int64, error) {
	if err := query.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM notifications
		WHERE recipient_id = ? AND read = FALSE
	`, query.RecipientID().String()).Scan(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
