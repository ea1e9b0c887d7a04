package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/utils/logger"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request through the global zap logger.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}

			if c.Response().Status >= 500 {
				logger.LogError("request failed", fields...)
			} else {
				logger.LogInfo("request", fields...)
			}
			return nil
		}
	}
}
