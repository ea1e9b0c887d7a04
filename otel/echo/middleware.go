package echo

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	salonctx "github.com/octabyte/salon-gommon/utils/context"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Middleware instruments requests with otelecho and tags the server span
// with the route, status and the authenticated user when there is one.
// skipper may be nil.
func Middleware(serviceName string, skipper middleware.Skipper) echo.MiddlewareFunc {
	var opts []otelecho.Option
	if skipper != nil {
		opts = append(opts, otelecho.WithSkipper(skipper))
	}
	base := otelecho.Middleware(serviceName, opts...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return base(func(c echo.Context) error {
			err := next(c)

			span := trace.SpanFromContext(c.Request().Context())
			if !span.IsRecording() {
				return err
			}

			span.SetAttributes(
				attribute.String("http.route", c.Path()),
				attribute.Int("http.status_code", c.Response().Status),
				attribute.Bool("user.token_present", salonctx.GetTokenFromContext(c.Request().Context()) != ""),
			)
			if user, ok := salonctx.GetSessionFromContext(c.Request().Context()); ok {
				span.SetAttributes(
					attribute.Int64("user.id", user.ID),
					attribute.String("user.role", user.Role.String()),
				)
			}
			if err != nil {
				span.SetAttributes(attribute.String("error.message", err.Error()))
			}
			return err
		})
	}
}
