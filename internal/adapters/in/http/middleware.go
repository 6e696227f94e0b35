package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"fooddelivery/internal/core/ports"
)

// identityKey is the echo context key under which the authenticated
// principal is stored.
const identityKey = "identity"

// AuthMiddleware verifies the Authorization bearer token on every request
// and stores the resolved identity in the request context. Requests without
// a valid token are rejected with 401 and no detail about why.
func AuthMiddleware(resolver ports.IdentityResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.JSON(http.StatusUnauthorized, errorBody{
					Code:    codeUnauthorized,
					Message: "missing or malformed authorization header",
				})
			}

			identity, err := resolver.Resolve(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, errorBody{
					Code:    codeUnauthorized,
					Message: "invalid credentials",
				})
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// RequireCourier rejects requests whose principal is not a courier.
// Must run after AuthMiddleware.
func RequireCourier() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if identityFrom(c).Role != ports.RoleCourier {
				return c.JSON(http.StatusForbidden, errorBody{
					Code:    codeForbidden,
					Message: "courier role required",
				})
			}
			return next(c)
		}
	}
}

// identityFrom extracts the principal stored by AuthMiddleware.
// Returns the zero Identity when the middleware did not run.
func identityFrom(c echo.Context) ports.Identity {
	identity, _ := c.Get(identityKey).(ports.Identity)
	return identity
}
