// Package ws implements the rider push/presence channel over websockets.
//
// Connections authenticate with a bearer token carried in the first client
// frame, join a fixed set of scopes derived from their identity, and from
// then on only receive; the server pushes typed events, best-effort and
// unordered, and drops connections that cannot keep up.
package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"fooddelivery/internal/core/ports"
)

// sendBufferSize bounds the per-connection outbound queue. A connection
// whose buffer is full when an event arrives is dropped rather than awaited.
const sendBufferSize = 32

// frame is the wire envelope for every outbound message.
type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
	At    string `json:"at"`
}

// Hub is the scope registry. It implements ports.RealtimeEmitter and is safe
// for concurrent use. The hub owns no goroutines; connections register and
// unregister themselves.
type Hub struct {
	mu     sync.RWMutex
	scopes map[ports.Scope]map[*session]struct{}
	logger *slog.Logger
}

// NewHub creates an empty scope registry.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{
		scopes: make(map[ports.Scope]map[*session]struct{}),
		logger: logger,
	}
}

// EmitToScope implements ports.RealtimeEmitter.
// Marshals the event once and fans it out without blocking: sessions whose
// send buffer is full are closed and dropped. The return value reports
// whether at least one session actually accepted the payload, which is
// stricter than scope membership: a scope whose every listener is stalled
// with a full buffer yields false, and those connections are torn down.
// Callers treat false as "nobody heard this" and fall back accordingly.
func (h *Hub) EmitToScope(scope ports.Scope, event ports.Event) bool {
	payload, err := json.Marshal(frame{
		Event: event.EventName(),
		Data:  event,
		At:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		h.logger.Error("event marshal failed", "event", event.EventName(), "error", err)
		return false
	}

	h.mu.RLock()
	sessions := make([]*session, 0, len(h.scopes[scope]))
	for s := range h.scopes[scope] {
		sessions = append(sessions, s)
	}
	h.mu.RUnlock()

	delivered := false
	for _, s := range sessions {
		if s.trySend(payload) {
			delivered = true
			continue
		}

		h.logger.Warn("dropping slow connection", "scope", string(scope))
		h.Leave(s)
		s.close()
	}

	return delivered
}

// ListenerCount implements ports.RealtimeEmitter.
func (h *Hub) ListenerCount(scope ports.Scope) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.scopes[scope])
}

// Join registers the session in every given scope.
func (h *Hub) Join(s *session, scopes []ports.Scope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, scope := range scopes {
		members, ok := h.scopes[scope]
		if !ok {
			members = make(map[*session]struct{})
			h.scopes[scope] = members
		}
		members[s] = struct{}{}
	}
}

// Leave removes the session from every scope it joined.
// Idempotent; disconnect paths may race and both call it.
func (h *Hub) Leave(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, scope := range s.scopes {
		members, ok := h.scopes[scope]
		if !ok {
			continue
		}
		delete(members, s)
		if len(members) == 0 {
			delete(h.scopes, scope)
		}
	}
}
