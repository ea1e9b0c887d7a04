package echo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
	salonctx "github.com/octabyte/salon-gommon/utils/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestMiddlewareTagsSpanWithUser(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	e := echo.New()
	e.Use(Middleware("devserver", func(c echo.Context) bool { return c.Path() == "/health" }))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := salonctx.WithToken(c.Request().Context(), "tok")
			ctx = salonctx.WithSessionUser(ctx, models.User{ID: 9, Role: enums.RoleAdmin})
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})
	e.GET("/api/clientes/", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	for _, path := range []string{"/api/clientes/", "/health"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	spans := recorder.Ended()
	require.Len(t, spans, 1)

	got := attrs(spans[0])
	assert.Equal(t, "/api/clientes/", got["http.route"].AsString())
	assert.Equal(t, int64(9), got["user.id"].AsInt64())
	assert.Equal(t, "admin", got["user.role"].AsString())
	assert.True(t, got["user.token_present"].AsBool())
}
