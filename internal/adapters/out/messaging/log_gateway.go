// Package messaging contains outbound gateway adapters for the background
// notification channels. The log-backed implementations stand in for
// provider SDKs and keep the delivery pipeline fully wired end to end.
package messaging

import (
	"context"
	"log/slog"

	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/core/ports"
)

// LogMessageGateway records sends through the structured logger instead of
// calling an external provider.
type LogMessageGateway struct {
	channel notification.Channel
	logger  *slog.Logger
}

// NewSMSGateway creates the SMS channel gateway.
func NewSMSGateway(logger *slog.Logger) *LogMessageGateway {
	return newLogGateway(notification.ChannelSMS, logger)
}

// NewEmailGateway creates the email channel gateway.
func NewEmailGateway(logger *slog.Logger) *LogMessageGateway {
	return newLogGateway(notification.ChannelEmail, logger)
}

// NewMobilePushGateway creates the mobile push channel gateway.
func NewMobilePushGateway(logger *slog.Logger) *LogMessageGateway {
	return newLogGateway(notification.ChannelMobilePush, logger)
}

func newLogGateway(channel notification.Channel, logger *slog.Logger) *LogMessageGateway {
	return &LogMessageGateway{
		channel: channel,
		logger:  logger.With("component", "message_gateway", "channel", string(channel)),
	}
}

// Channel reports which delivery channel the gateway serves.
func (g *LogMessageGateway) Channel() notification.Channel {
	return g.channel
}

// Send logs the outbound message.
func (g *LogMessageGateway) Send(ctx context.Context, aggregate *notification.Notification) error {
	g.logger.InfoContext(ctx, "Sending notification",
		"notificationId", aggregate.ID().String(),
		"recipientId", aggregate.RecipientID().String(),
		"kind", aggregate.Kind(),
		"title", aggregate.Title())
	return nil
}

var _ ports.MessageGateway = (*LogMessageGateway)(nil)
