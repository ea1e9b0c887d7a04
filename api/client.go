package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/octabyte/salon-gommon/otel"
	otellogger "github.com/octabyte/salon-gommon/otel/logger"
	"github.com/octabyte/salon-gommon/otel/metrics"
	"github.com/octabyte/salon-gommon/utils"
	"go.uber.org/zap"
)

const clientName = "salon-api"

type Config struct {
	BaseURL     string `validate:"required,url"`
	Timeout     time.Duration
	ServiceName string
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

func (cfg *Config) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(cfg)
}

// Client is the request helper: it attaches the bearer token, unwraps the
// envelope and maps failures to *APIError or *ServerResponseError. It never
// retries.
type Client struct {
	baseURL     string
	serviceName string
	rest        *resty.Client
}

func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = clientName
	}

	rest := otel.NewTracedRestyClient(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	if cfg.Transport != nil {
		rest.SetTransport(cfg.Transport)
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		serviceName: cfg.ServiceName,
		rest:        rest,
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs one call and decodes the envelope's data into out (which may be
// nil). token is sent as a bearer credential when non-empty.
func (c *Client) Do(ctx context.Context, method, path string, body any, token string, out any) error {
	url := utils.JoinURL(c.baseURL, path)
	ctx, finish := otel.StartHTTPSpan(ctx, c.serviceName, clientName, method, url)
	start := time.Now()

	req := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("Cache-Control", "no-store")
	if token != "" {
		req.SetHeader("Authorization", utils.BearerHeader(token))
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, url)
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode()
	}

	if err != nil {
		err = &ServerResponseError{StatusCode: statusCode, Err: err}
	} else {
		err = decodeEnvelope(resp.Body(), statusCode, out)
	}

	finish(statusCode, err)
	metrics.RecordClientRequest(ctx, method, path, statusCode, time.Since(start), err == nil)

	var apiErr *APIError
	switch {
	case err == nil:
		otellogger.DebugCtx(ctx, "api call", zap.String("method", method), zap.String("path", path), zap.Int("status", statusCode))
	case errors.As(err, &apiErr):
		otellogger.DebugCtx(ctx, "api call rejected", zap.String("method", method), zap.String("path", path),
			zap.Int("code", apiErr.Code), zap.String("message", apiErr.Message))
	default:
		otellogger.WarnCtx(ctx, "api call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
	}

	return err
}

// Request is the typed form of Do.
func Request[T any](ctx context.Context, c *Client, method, path string, body any, token string) (T, error) {
	var out T
	err := c.Do(ctx, method, path, body, token, &out)
	return out, err
}
