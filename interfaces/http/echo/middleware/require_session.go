package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/api"
	"github.com/octabyte/salon-gommon/enums"
	salonctx "github.com/octabyte/salon-gommon/utils/context"
)

// UnauthorizedMessage is what the backend sends for an expired or missing
// token; clients match on the "401" in it.
const UnauthorizedMessage = "401 Unauthorized: token inválido o expirado"

// RequireSession rejects requests without a verified user with a 401
// envelope.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := salonctx.GetSessionFromContext(c.Request().Context()); !ok {
				return c.JSON(http.StatusUnauthorized, api.Envelope[any]{
					Code:    http.StatusUnauthorized,
					Error:   true,
					Message: UnauthorizedMessage,
				})
			}
			return next(c)
		}
	}
}

// RequireAdmin rejects verified users without the administrator role.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := salonctx.GetSessionFromContext(c.Request().Context())
			if !ok || user.Role != enums.RoleAdmin {
				return c.JSON(http.StatusForbidden, api.Envelope[any]{
					Code:    http.StatusForbidden,
					Error:   true,
					Message: "403 Forbidden: se requiere rol de administrador",
				})
			}
			return next(c)
		}
	}
}
