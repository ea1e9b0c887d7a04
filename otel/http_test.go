package otel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return recorder
}

func TestStartHTTPSpanRecordsOutcome(t *testing.T) {
	recorder := setupTestTracer(t)

	_, finish := StartHTTPSpan(context.Background(), "salonctl", "salon-api", http.MethodGet, "https://api.salon.local/api/clientes/")
	finish(http.StatusOK, nil)

	_, finish = StartHTTPSpan(context.Background(), "salonctl", "salon-api", http.MethodPost, "https://api.salon.local/api/auth/refresh")
	finish(http.StatusUnauthorized, nil)

	_, finish = StartHTTPSpan(context.Background(), "salonctl", "salon-api", http.MethodGet, "https://api.salon.local/api/user/")
	finish(0, assert.AnError)

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "HTTP.salon-api GET", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "HTTP 401", spans[1].Status().Description)
	assert.Equal(t, codes.Error, spans[2].Status().Code)
	assert.Len(t, spans[2].Events(), 1, "error should be recorded as an event")
}

func TestInjectTraceHeaders(t *testing.T) {
	setupTestTracer(t)
	ctx, span := otel.Tracer("test").Start(context.Background(), "parent")
	defer span.End()

	headers := InjectTraceHeaders(ctx, nil)
	require.Contains(t, headers, "traceparent")

	child := otel.GetTextMapPropagator().Extract(context.Background(), propagation.MapCarrier(headers))
	_, childSpan := otel.Tracer("test").Start(child, "child")
	defer childSpan.End()
	assert.Equal(t, span.SpanContext().TraceID(), childSpan.SpanContext().TraceID())
}

func TestNewTracedRestyClientPropagates(t *testing.T) {
	setupTestTracer(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Received-Traceparent", r.Header.Get("traceparent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, span := otel.Tracer("test").Start(context.Background(), "list-clients")
	defer span.End()

	resp, err := NewTracedRestyClient(server.URL).R().SetContext(ctx).Get("/api/clientes/")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.NotEmpty(t, resp.Header().Get("X-Received-Traceparent"))
}
