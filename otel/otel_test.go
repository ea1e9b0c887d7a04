package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitOpenTelemetryDisabled(t *testing.T) {
	shutdown, err := InitOpenTelemetry(context.Background(), OtelConfig{Enabled: false})
	require.NoError(t, err)
	shutdown()
}

func TestInitOpenTelemetryEnabled(t *testing.T) {
	shutdown, err := InitOpenTelemetry(context.Background(), OtelConfig{
		Enabled:     true,
		ServiceName: "salonctl",
		Environment: "test",
		Endpoint:    "http://localhost:4318",
		SampleRate:  1.0,
	})
	require.NoError(t, err)
	shutdown()
}

func TestValidateConfig(t *testing.T) {
	assert.Error(t, validateConfig(OtelConfig{Endpoint: "localhost:4318"}))
	assert.Error(t, validateConfig(OtelConfig{ServiceName: "salonctl"}))
	assert.Error(t, validateConfig(OtelConfig{ServiceName: "salonctl", Endpoint: "localhost:4318", SampleRate: 1.5}))
	assert.NoError(t, validateConfig(OtelConfig{ServiceName: "salonctl", Endpoint: "localhost:4318", SampleRate: 0.5}))
}

func TestEndpointHost(t *testing.T) {
	host, insecure := endpointHost("https://otel.salon.mx")
	assert.Equal(t, "otel.salon.mx", host)
	assert.False(t, insecure)

	host, insecure = endpointHost("http://localhost:4318")
	assert.Equal(t, "localhost:4318", host)
	assert.True(t, insecure)

	host, insecure = endpointHost("collector:4318")
	assert.Equal(t, "collector:4318", host)
	assert.True(t, insecure)
}

func TestNewResource(t *testing.T) {
	res := newResource(OtelConfig{ServiceName: "devserver", Environment: "test"})
	require.NotNil(t, res)
	assert.Contains(t, res.String(), "devserver")
}
