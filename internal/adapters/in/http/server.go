// Package http is the REST entry point of the service.
// Handlers translate requests into commands and queries, never touching the
// domain directly; error mapping keeps machine-readable codes stable.
package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"fooddelivery/internal/adapters/in/ws"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/ports"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	updateOrderStatusHandler        commands.UpdateOrderStatusCommandHandler
	assignRiderHandler              commands.AssignRiderCommandHandler
	recordHeartbeatHandler          commands.RecordHeartbeatCommandHandler
	markNotificationReadHandler     commands.MarkNotificationReadCommandHandler
	markAllNotificationsReadHandler commands.MarkAllNotificationsReadCommandHandler

	// Query handlers
	getNotificationsHandler queries.GetNotificationsQueryHandler
	getUnreadCountHandler   queries.GetUnreadCountQueryHandler

	resolver  ports.IdentityResolver
	wsHandler *ws.Handler
}

// NewServer creates the HTTP server over the application layer.
func NewServer(
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	assignRiderHandler commands.AssignRiderCommandHandler,
	recordHeartbeatHandler commands.RecordHeartbeatCommandHandler,
	markNotificationReadHandler commands.MarkNotificationReadCommandHandler,
	markAllNotificationsReadHandler commands.MarkAllNotificationsReadCommandHandler,
	getNotificationsHandler queries.GetNotificationsQueryHandler,
	getUnreadCountHandler queries.GetUnreadCountQueryHandler,
	resolver ports.IdentityResolver,
	wsHandler *ws.Handler,
) *Server {
	return &Server{
		updateOrderStatusHandler:        updateOrderStatusHandler,
		assignRiderHandler:              assignRiderHandler,
		recordHeartbeatHandler:          recordHeartbeatHandler,
		markNotificationReadHandler:     markNotificationReadHandler,
		markAllNotificationsReadHandler: markAllNotificationsReadHandler,
		getNotificationsHandler:         getNotificationsHandler,
		getUnreadCountHandler:           getUnreadCountHandler,
		resolver:                        resolver,
		wsHandler:                       wsHandler,
	}
}

// RegisterRoutes mounts all endpoints on the echo instance.
// Everything under /api/v1 requires a bearer token; the websocket endpoint
// authenticates in-band after the upgrade.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/ws/courier", s.wsHandler.Serve)

	api := e.Group("/api/v1", AuthMiddleware(s.resolver))
	api.PATCH("/orders/:id/status", s.UpdateOrderStatus)
	api.POST("/orders/:id/assign", s.AssignRider, RequireCourier())
	api.POST("/couriers/location", s.RecordHeartbeat, RequireCourier())
	api.GET("/notifications", s.GetNotifications)
	api.GET("/notifications/unread-count", s.GetUnreadCount)
	api.POST("/notifications/:id/read", s.MarkNotificationRead)
	api.POST("/notifications/read-all", s.MarkAllNotificationsRead)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status.
// The body carries the external status name; the response is the committed
// order projection.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code: codeValidationError, Message: "order id must be a UUID",
		})
	}

	var body updateStatusRequest
	if err = c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code: codeValidationError, Message: "invalid request body",
		})
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(
		orderID, body.Status, identityFrom(c).UserID, body.Reason)
	if err != nil {
		return writeOrderError(c, err)
	}

	updated, err := s.updateOrderStatusHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeOrderError(c, err)
	}

	return c.JSON(http.StatusOK, orderBodyFrom(updated))
}

// AssignRider handles POST /api/v1/orders/:id/assign.
// The authenticated courier claims the order for delivery.
func (s *Server) AssignRider(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code: codeValidationError, Message: "order id must be a UUID",
		})
	}

	cmd, err := commands.NewAssignRiderCommand(orderID, identityFrom(c).UserID)
	if err != nil {
		return writeOrderError(c, err)
	}

	if err = s.assignRiderHandler.Handle(c.Request().Context(), cmd); err != nil {
		return writeOrderError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// RecordHeartbeat handles POST /api/v1/couriers/location.
func (s *Server) RecordHeartbeat(c echo.Context) error {
	var body heartbeatRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code: codeValidationError, Message: "invalid request body",
		})
	}

	identity := identityFrom(c)
	cmd, err := commands.NewRecordHeartbeatCommand(
		identity.UserID, body.Latitude, body.Longitude, body.Address, body.Region)
	if err != nil {
		return writeError(c, err)
	}

	if err = s.recordHeartbeatHandler.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetNotifications handles GET /api/v1/notifications.
// Supports page, perPage, unreadOnly and type query parameters.
func (s *Server) GetNotifications(c echo.Context) error {
	page, err := intParam(c, "page")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code: codeValidationError, Message: "page must be an integer",
		})
	}

	perPage, err := intParam(c, "perPage")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code: codeValidationError, Message: "perPage must be an integer",
		})
	}

	unreadOnly := c.QueryParam("unreadOnly") == "true"

	query, err := queries.NewGetNotificationsQuery(
		identityFrom(c).UserID, page, perPage, unreadOnly, c.QueryParam("type"))
	if err != nil {
		return writeError(c, err)
	}

	result, err := s.getNotificationsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, notificationPageFrom(result))
}

// GetUnreadCount handles GET /api/v1/notifications/unread-count.
func (s *Server) GetUnreadCount(c echo.Context) error {
	query, err := queries.NewGetUnreadCountQuery(identityFrom(c).UserID)
	if err != nil {
		return writeError(c, err)
	}

	count, err := s.getUnreadCountHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"count": count})
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read.
// Only the recipient may mark a notification; anyone else sees a 404.
func (s *Server) MarkNotificationRead(c echo.Context) error {
	notificationID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code: codeValidationError, Message: "notification id must be a UUID",
		})
	}

	cmd, err := commands.NewMarkNotificationReadCommand(identityFrom(c).UserID, notificationID)
	if err != nil {
		return writeError(c, err)
	}

	if err = s.markNotificationReadHandler.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkAllNotificationsRead handles POST /api/v1/notifications/read-all.
func (s *Server) MarkAllNotificationsRead(c echo.Context) error {
	cmd, err := commands.NewMarkAllNotificationsReadCommand(identityFrom(c).UserID)
	if err != nil {
		return writeError(c, err)
	}

	updated, err := s.markAllNotificationsReadHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{"updated": updated})
}

// intParam parses an optional integer query parameter, zero when absent.
func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
