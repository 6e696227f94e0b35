package ports

import "fmt"

// Scope names a set of realtime connections. Connections join scopes at
// handshake time; events are emitted to a scope, never to a raw socket.
type Scope string

const (
	// ScopeGlobalCouriers is joined by every connected courier.
	ScopeGlobalCouriers Scope = "couriers"

	regionScopePrefix  = "region:"
	courierScopePrefix = "courier:"
	userScopePrefix    = "user:"
)

// RegionScope returns the scope joined by couriers reporting the given region.
func RegionScope(region string) Scope {
	return Scope(regionScopePrefix + region)
}

// CourierScope returns the individual scope of one courier.
func CourierScope(courierID fmt.Stringer) Scope {
	return Scope(courierScopePrefix + courierID.String())
}

// UserScope returns the individual scope of one customer. Couriers have their
// own scope; addressing a customer through CourierScope would leak rider
// traffic onto customer sockets.
func UserScope(userID fmt.Stringer) Scope {
	return Scope(userScopePrefix + userID.String())
}

// Event is a realtime frame pushed to clients. The name goes on the wire as
// the frame's event field; the value itself is the payload.
type Event interface {
	EventName() string
}

// RealtimeEmitter pushes events to live connections.
//
// Emitting is strictly best-effort: a false return means nobody was
// listening, and implementations never block on slow consumers or surface
// per-connection write failures to the caller.
type RealtimeEmitter interface {
	// EmitToScope delivers the event to every connection in the scope and
	// reports whether at least one connection received it.
	EmitToScope(scope Scope, event Event) bool

	// ListenerCount returns how many connections are currently in the scope.
	ListenerCount(scope Scope) int
}
