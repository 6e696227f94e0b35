package commands

import "fooddelivery/internal/core/domain/model/order"

// StatusObservers fans a transition out to several observers in order.
type StatusObservers []StatusObserver

// OrderBecameReady implements StatusObserver.
func (s StatusObservers) OrderBecameReady(aggregate *order.Order) {
	for _, observer := range s {
		observer.OrderBecameReady(aggregate)
	}
}

// OrderPickedUp implements StatusObserver.
func (s StatusObservers) OrderPickedUp(aggregate *order.Order) {
	for _, observer := range s {
		observer.OrderPickedUp(aggregate)
	}
}
