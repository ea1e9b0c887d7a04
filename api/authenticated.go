package api

import (
	"context"
	"net/http"

	otellogger "github.com/octabyte/salon-gommon/otel/logger"
	"github.com/octabyte/salon-gommon/otel/metrics"
	"go.uber.org/zap"
)

// TokenSource is what the facade needs from the session store.
type TokenSource interface {
	AccessToken() string
	// RefreshRejected renews the session after the backend refused the
	// rejected access token.
	RefreshRejected(ctx context.Context, rejected string) bool
}

// Authenticated wraps Client with the session's access token and a one-shot
// refresh-and-retry on auth rejection.
type Authenticated struct {
	client *Client
	tokens TokenSource
}

func NewAuthenticated(client *Client, tokens TokenSource) *Authenticated {
	return &Authenticated{client: client, tokens: tokens}
}

func (a *Authenticated) Do(ctx context.Context, method, path string, body, out any) error {
	token := a.tokens.AccessToken()
	err := a.client.Do(ctx, method, path, body, token, out)
	if err == nil || !IsAuthRejection(err) {
		return err
	}

	otellogger.InfoCtx(ctx, "auth rejected, refreshing token", zap.String("method", method), zap.String("path", path))
	if !a.tokens.RefreshRejected(ctx, token) {
		metrics.RecordAuthRetry(ctx, "refresh_failed")
		return err
	}

	// The token is read again so the retry carries the refreshed credential.
	retryErr := a.client.Do(ctx, method, path, body, a.tokens.AccessToken(), out)
	if retryErr != nil {
		metrics.RecordAuthRetry(ctx, "retry_failed")
		return retryErr
	}

	metrics.RecordAuthRetry(ctx, "retried")
	return nil
}

func (a *Authenticated) Get(ctx context.Context, path string, out any) error {
	return a.Do(ctx, http.MethodGet, path, nil, out)
}

func (a *Authenticated) Post(ctx context.Context, path string, body, out any) error {
	return a.Do(ctx, http.MethodPost, path, body, out)
}

func (a *Authenticated) Put(ctx context.Context, path string, body, out any) error {
	return a.Do(ctx, http.MethodPut, path, body, out)
}

func (a *Authenticated) Patch(ctx context.Context, path string, body, out any) error {
	return a.Do(ctx, http.MethodPatch, path, body, out)
}

func (a *Authenticated) Delete(ctx context.Context, path string, body, out any) error {
	return a.Do(ctx, http.MethodDelete, path, body, out)
}

func GetAs[T any](ctx context.Context, a *Authenticated, path string) (T, error) {
	var out T
	err := a.Get(ctx, path, &out)
	return out, err
}

func PostAs[T any](ctx context.Context, a *Authenticated, path string, body any) (T, error) {
	var out T
	err := a.Post(ctx, path, body, &out)
	return out, err
}

func PutAs[T any](ctx context.Context, a *Authenticated, path string, body any) (T, error) {
	var out T
	err := a.Put(ctx, path, body, &out)
	return out, err
}

func PatchAs[T any](ctx context.Context, a *Authenticated, path string, body any) (T, error) {
	var out T
	err := a.Patch(ctx, path, body, &out)
	return out, err
}

func DeleteAs[T any](ctx context.Context, a *Authenticated, path string, body any) (T, error) {
	var out T
	err := a.Delete(ctx, path, body, &out)
	return out, err
}
