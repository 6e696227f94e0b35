package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"fooddelivery/internal/core/ports"
)

// authWait bounds how long a fresh connection may take to present its
// credential before being cut off.
const authWait = 10 * time.Second

// authMessage is the first (and only expected) client frame.
// The token travels in the frame body, never in the URL.
type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// establishedPayload is the body of the connection:established frame.
type establishedPayload struct {
	CourierID string   `json:"courierId"`
	Scopes    []string `json:"scopes"`
}

// EventName implements ports.Event.
func (establishedPayload) EventName() string {
	return "connection:established"
}

// Handler upgrades rider connections and runs the auth handshake.
type Handler struct {
	hub      *Hub
	resolver ports.IdentityResolver
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the websocket entry point.
func NewHandler(hub *Hub, resolver ports.IdentityResolver, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		hub:      hub,
		resolver: resolver,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Token auth happens after the upgrade, so the upgrade itself
			// accepts any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve handles GET /ws/courier.
// A connection that fails the handshake is closed without detail on the
// wire; the reason stays in the server log.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	identity, ok := h.authenticate(conn)
	if !ok {
		_ = conn.Close()
		return nil
	}

	scopes := scopesFor(identity)
	s := newSession(conn, identity, scopes)
	h.hub.Join(s, scopes)

	go s.writePump()
	go func() {
		s.readPump()
		h.hub.Leave(s)
		h.logger.Info("courier disconnected", "courierId", identity.UserID.String())
	}()

	h.sendEstablished(s, identity, scopes)
	h.logger.Info("courier connected",
		"courierId", identity.UserID.String(), "region", identity.Region)
	return nil
}

// authenticate reads the auth frame and resolves the principal.
// Only active couriers may hold a push connection.
func (h *Handler) authenticate(conn *websocket.Conn) (ports.Identity, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(authWait))

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return ports.Identity{}, false
	}

	var msg authMessage
	if err = json.Unmarshal(raw, &msg); err != nil || msg.Type != "auth" {
		h.logger.Warn("websocket handshake rejected: malformed auth frame")
		return ports.Identity{}, false
	}

	token := strings.TrimPrefix(msg.Token, "Bearer ")
	identity, err := h.resolver.Resolve(token)
	if err != nil {
		h.logger.Warn("websocket handshake rejected", "error", err)
		return ports.Identity{}, false
	}

	if identity.Role != ports.RoleCourier {
		h.logger.Warn("websocket handshake rejected: not a courier",
			"userId", identity.UserID.String())
		return ports.Identity{}, false
	}

	return identity, true
}

func (h *Handler) sendEstablished(s *session, identity ports.Identity, scopes []ports.Scope) {
	names := make([]string, len(scopes))
	for i, scope := range scopes {
		names[i] = string(scope)
	}

	payload, err := json.Marshal(frame{
		Event: establishedPayload{}.EventName(),
		Data: establishedPayload{
			CourierID: identity.UserID.String(),
			Scopes:    names,
		},
		At: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}

	s.trySend(payload)
}

// scopesFor derives the fixed scope set of an authenticated courier.
func scopesFor(identity ports.Identity) []ports.Scope {
	scopes := []ports.Scope{
		ports.ScopeGlobalCouriers,
		ports.CourierScope(identity.UserID),
	}
	if identity.Region != "" {
		scopes = append(scopes, ports.RegionScope(identity.Region))
	}
	return scopes
}
