package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// Stable machine-readable error codes. Clients branch on these, so renaming
// one is a breaking API change.
const (
	codeValidationError    = "VALIDATION_ERROR"
	codeOrderNotFound      = "ORDER_NOT_FOUND"
	codeNotFound           = "NOT_FOUND"
	codeInvalidTransition  = "INVALID_STATUS_TRANSITION"
	codeReasonRequired     = "REASON_REQUIRED"
	codeAssignmentRejected = "ASSIGNMENT_NOT_ALLOWED"
	codeConflict           = "CONFLICT"
	codeUnauthorized       = "UNAUTHORIZED"
	codeForbidden          = "FORBIDDEN"
	codeInternal           = "INTERNAL_ERROR"
)

// errorBody is the uniform error envelope of the API.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeOrderError is writeError with order-specific not-found reporting.
func writeOrderError(c echo.Context, err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return c.JSON(http.StatusNotFound, errorBody{
			Code: codeOrderNotFound, Message: "order not found",
		})
	}
	return writeError(c, err)
}

// writeError maps a domain or application error onto an HTTP status and a
// stable code. Unrecognized errors collapse to 500 without leaking internals.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return c.JSON(http.StatusNotFound, errorBody{
			Code: codeNotFound, Message: "not found",
		})
	case errors.Is(err, order.ErrInvalidStatusTransition):
		return c.JSON(http.StatusConflict, errorBody{
			Code: codeInvalidTransition, Message: err.Error(),
		})
	case errors.Is(err, order.ErrReasonRequired):
		return c.JSON(http.StatusUnprocessableEntity, errorBody{
			Code: codeReasonRequired, Message: err.Error(),
		})
	case errors.Is(err, order.ErrCourierAssignmentNotAllowed):
		return c.JSON(http.StatusConflict, errorBody{
			Code: codeAssignmentRejected, Message: err.Error(),
		})
	case errors.Is(err, ports.ErrStaleStatus):
		return c.JSON(http.StatusConflict, errorBody{
			Code: codeConflict, Message: "order changed concurrently, retry",
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return c.JSON(http.StatusBadRequest, errorBody{
			Code: codeValidationError, Message: err.Error(),
		})
	default:
		return c.JSON(http.StatusInternalServerError, errorBody{
			Code: codeInternal, Message: "internal error",
		})
	}
}
