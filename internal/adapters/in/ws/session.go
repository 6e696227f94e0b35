package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fooddelivery/internal/core/ports"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// session is one authenticated connection and the scopes it joined.
type session struct {
	conn     *websocket.Conn
	identity ports.Identity
	scopes   []ports.Scope

	send      chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

func newSession(conn *websocket.Conn, identity ports.Identity, scopes []ports.Scope) *session {
	return &session{
		conn:     conn,
		identity: identity,
		scopes:   scopes,
		send:     make(chan []byte, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// trySend offers a payload without blocking.
// Returns false when the session's buffer is full or it is already closed.
func (s *session) trySend(payload []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}

	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// writePump drains the send buffer onto the socket and keeps the connection
// alive with pings. Exits on the first write failure or on close.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case payload := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// readPump consumes inbound frames solely to observe pongs and disconnects.
// Clients have nothing to say after the auth frame.
func (s *session) readPump() {
	defer s.close()

	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
