package metrics

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter metric.Meter

	// Backend client metrics
	clientRequestsTotal   metric.Int64Counter
	clientRequestDuration metric.Float64Histogram

	// Session metrics
	tokenRefreshesTotal metric.Int64Counter
	authRetriesTotal    metric.Int64Counter

	goGoroutines metric.Int64ObservableGauge
)

// Init creates the instruments on the global meter provider. Record calls
// made before Init are dropped.
func Init(serviceName string) error {
	meter = otel.Meter(serviceName)

	var err error

	clientRequestsTotal, err = meter.Int64Counter(
		"salon_api_requests_total",
		metric.WithDescription("Total number of backend API calls"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create salon_api_requests_total counter: %w", err)
	}

	clientRequestDuration, err = meter.Float64Histogram(
		"salon_api_request_duration_seconds",
		metric.WithDescription("Backend API call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create salon_api_request_duration_seconds histogram: %w", err)
	}

	tokenRefreshesTotal, err = meter.Int64Counter(
		"salon_token_refreshes_total",
		metric.WithDescription("Access token refresh attempts by outcome"),
		metric.WithUnit("{refresh}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create salon_token_refreshes_total counter: %w", err)
	}

	authRetriesTotal, err = meter.Int64Counter(
		"salon_auth_retries_total",
		metric.WithDescription("Calls retried after an auth rejection, by outcome"),
		metric.WithUnit("{retry}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create salon_auth_retries_total counter: %w", err)
	}

	goGoroutines, err = meter.Int64ObservableGauge(
		"go_goroutines",
		metric.WithDescription("Number of goroutines currently running"),
		metric.WithUnit("{goroutine}"),
		metric.WithInt64Callback(func(ctx context.Context, observer metric.Int64Observer) error {
			observer.Observe(int64(runtime.NumGoroutine()))
			return nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to create go_goroutines gauge: %w", err)
	}

	return nil
}

// RecordClientRequest records one request-helper call. statusCode is the
// transport status; success reflects the envelope outcome.
func RecordClientRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration, success bool) {
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
		attribute.Bool("success", success),
	)

	if clientRequestsTotal != nil {
		clientRequestsTotal.Add(ctx, 1, attrs)
	}
	if clientRequestDuration != nil {
		clientRequestDuration.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordTokenRefresh counts refresh attempts by outcome: success, skipped,
// coalesced, discarded or failed.
func RecordTokenRefresh(ctx context.Context, outcome string) {
	if tokenRefreshesTotal != nil {
		tokenRefreshesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}

func RecordAuthRetry(ctx context.Context, outcome string) {
	if authRetriesTotal != nil {
		authRetriesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
}
