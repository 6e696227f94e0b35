// Package order implements the Order aggregate and its status state machine.
//
// An order moves through a validated sequence of states from checkout to
// delivery. The aggregate is the only writer of its status: all changes go
// through TransitionTo, which enforces the transition graph, requires a
// reason for cancellations and stamps an actor/time audit trail. Courier
// assignment is a separate, externally triggered operation that is only
// legal once the order has reached the Ready stage.
package order
