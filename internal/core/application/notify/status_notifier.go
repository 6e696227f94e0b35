package notify

import (
	"context"
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/domain/model/notification"
	"fooddelivery/internal/core/domain/model/order"
)

// Runner decouples customer notifications from the transitions that cause
// them. Submit must return immediately and a panicking task must never reach
// the submitter.
type Runner interface {
	Submit(task func())
}

// orderUpdateChannels is the channel set for lifecycle notifications:
// the in-app feed push plus a mobile push for customers who are away.
var orderUpdateChannels = []notification.Channel{
	notification.ChannelRealtime,
	notification.ChannelMobilePush,
}

// StatusNotifier tells the customer about order lifecycle milestones.
// Implements commands.StatusObserver next to the dispatch coordinator; the
// coordinator talks to riders, this talks to the order's customer.
type StatusNotifier struct {
	service *Service
	runner  Runner
	logger  *slog.Logger
}

// NewStatusNotifier creates the customer-facing lifecycle notifier.
func NewStatusNotifier(service *Service, runner Runner, logger *slog.Logger) *StatusNotifier {
	if logger == nil {
		logger = slog.Default()
	}

	return &StatusNotifier{
		service: service,
		runner:  runner,
		logger:  logger,
	}
}

// OrderBecameReady notifies the customer their order is ready.
func (n *StatusNotifier) OrderBecameReady(aggregate *order.Order) {
	body := fmt.Sprintf("Order %s is ready", aggregate.OrderNumber())
	if aggregate.Fulfillment() == order.Pickup {
		body += " for pickup"
	}
	n.send(aggregate, "Order ready", body)
}

// OrderPickedUp notifies the customer their order is on the way.
func (n *StatusNotifier) OrderPickedUp(aggregate *order.Order) {
	n.send(aggregate, "Order on the way",
		fmt.Sprintf("Order %s has been picked up by your rider", aggregate.OrderNumber()))
}

func (n *StatusNotifier) send(aggregate *order.Order, title, body string) {
	customerID := aggregate.CustomerID()
	payload := map[string]any{
		"orderId": aggregate.ID().String(),
		"status":  aggregate.Status().ExternalName(),
	}

	n.runner.Submit(func() {
		_, _, err := n.service.Dispatch(context.Background(),
			customerID, "order_update", title, body, payload, orderUpdateChannels)
		if err != nil {
			n.logger.Error("customer notification failed",
				"orderId", aggregate.ID().String(), "error", err)
		}
	})
}
