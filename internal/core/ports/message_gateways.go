package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/notification"
)

// MessageGateway sends one notification over a single outbound channel
// (SMS, email or mobile push). Implementations wrap provider SDKs; errors
// they return are retried by the delivery worker.
type MessageGateway interface {
	// Channel reports which delivery channel the gateway serves.
	Channel() notification.Channel

	// Send delivers the notification to its recipient over this channel.
	Send(ctx context.Context, aggregate *notification.Notification) error
}
