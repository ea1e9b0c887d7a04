package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/utils"
	salonctx "github.com/octabyte/salon-gommon/utils/context"
)

// SetTokenInContext extracts the bearer token from the Authorization header,
// or the cookie of the same name, and stores it on both the echo context and
// the request context.
func SetTokenInContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := utils.TokenFromHeader(c.Request().Header.Get(Authorization))
			if token == "" {
				if cookie, err := c.Cookie(Authorization); err == nil {
					token = utils.TokenFromHeader(cookie.Value)
					if token == "" {
						token = cookie.Value
					}
				}
			}

			c.Set(TokenKey, token)
			if token != "" {
				c.SetRequest(c.Request().WithContext(salonctx.WithToken(c.Request().Context(), token)))
			}
			return next(c)
		}
	}
}
