package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is an envelope that came back with error=true. Fields are copied
// verbatim from the envelope.
type APIError struct {
	Message          string
	Code             int
	TechnicalMessage string
}

func (e *APIError) Error() string {
	return e.Message
}

// ServerResponseError covers transport failures and bodies that are not an
// envelope. StatusCode is 0 when no response was received.
type ServerResponseError struct {
	StatusCode int
	Err        error
}

func (e *ServerResponseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid server response (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("invalid server response (status %d): %v", e.StatusCode, e.Err)
}

func (e *ServerResponseError) Unwrap() error {
	return e.Err
}

// IsAuthRejection reports whether err means the backend refused the access
// token. The backend signals this by putting "401" in the envelope message;
// a 401 code or a bare 401 transport status is treated the same way.
func IsAuthRejection(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusUnauthorized || strings.Contains(apiErr.Message, "401")
	}

	var respErr *ServerResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == http.StatusUnauthorized
	}

	return false
}
