// Package auth wraps the backend's login and refresh endpoints.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/octabyte/salon-gommon/api"
	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
)

var ErrInvalidCredentialsInput = errors.New("auth: email and password are required")

type API struct {
	client   *api.Client
	validate *validator.Validate
}

func New(client *api.Client) *API {
	return &API{
		client:   client,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Login exchanges credentials for a session. No token is attached.
func (a *API) Login(ctx context.Context, email, password string) (*models.Session, error) {
	req := models.LoginRequest{Email: email, Password: password}
	if err := a.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentialsInput, err)
	}

	session, err := api.Request[models.Session](ctx, a.client, http.MethodPost, enums.AuthLoginPath, req, "")
	if err != nil {
		return nil, err
	}
	if err := a.validate.Struct(session); err != nil {
		return nil, &api.ServerResponseError{StatusCode: http.StatusOK, Err: fmt.Errorf("login response: %w", err)}
	}
	return &session, nil
}

// Refresh mints a new token pair. The returned session's User is whatever
// the backend sent, which may be empty.
func (a *API) Refresh(ctx context.Context, refreshToken string, userID int64) (*models.Session, error) {
	req := models.RefreshRequest{RefreshToken: refreshToken, UserID: userID}
	if err := a.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("auth: refresh request: %w", err)
	}

	session, err := api.Request[models.Session](ctx, a.client, http.MethodPost, enums.AuthRefreshPath, req, "")
	if err != nil {
		return nil, err
	}
	if session.AccessToken == "" {
		return nil, &api.ServerResponseError{StatusCode: http.StatusOK, Err: errors.New("refresh response has no access token")}
	}
	return &session, nil
}
