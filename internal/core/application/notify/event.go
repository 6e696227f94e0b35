package notify

import (
	"time"
)

// NotificationNewEvent is the realtime frame pushed to a recipient's
// individual scope when a notification addressed to them is created.
type NotificationNewEvent struct {
	ID        string         `json:"id"`
	Kind      string         `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// EventName implements ports.Event.
func (NotificationNewEvent) EventName() string {
	return "notification:new"
}
