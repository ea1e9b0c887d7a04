package middleware

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/models"
	salonctx "github.com/octabyte/salon-gommon/utils/context"
	"github.com/octabyte/salon-gommon/utils/logger"
	"go.uber.org/zap"
)

// SessionClaims is the access token payload: the signed-in user plus the
// registered claims.
type SessionClaims struct {
	User models.User `json:"user"`
	jwt.RegisteredClaims
}

// SetSessionFromJWTToken verifies the token left by SetTokenInContext with
// HS256 and secret, then stores its user in the request context. Requests
// with a missing or invalid token pass through anonymously.
func SetSessionFromJWTToken(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, _ := c.Get(TokenKey).(string)
			if token == "" {
				return next(c)
			}

			claims := &SessionClaims{}
			_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
				return secret, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil {
				if !errors.Is(err, jwt.ErrTokenExpired) {
					logger.LogDebug("rejected bearer token", zap.Error(err))
				}
				return next(c)
			}
			if claims.User.ID == 0 {
				return next(c)
			}

			c.Set(SessionKey, claims.User)
			c.SetRequest(c.Request().WithContext(salonctx.WithSessionUser(c.Request().Context(), claims.User)))
			return next(c)
		}
	}
}
