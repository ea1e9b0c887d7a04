package api

import (
	"bytes"
	"errors"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

var errNotEnvelope = errors.New("response body is not an envelope")

// Envelope is the wrapper every backend response uses.
type Envelope[T any] struct {
	Code             int    `json:"code"`
	Error            bool   `json:"error"`
	Message          string `json:"message"`
	TechnicalMessage string `json:"technicalMessage,omitempty"`
	Data             T      `json:"data,omitempty"`
}

// decodeEnvelope unwraps body into out. out may be nil when the caller does
// not care about the payload.
func decodeEnvelope(body []byte, statusCode int, out any) error {
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return &ServerResponseError{StatusCode: statusCode, Err: errNotEnvelope}
	}

	var env Envelope[json.RawMessage]
	if err := json.Unmarshal(body, &env); err != nil {
		return &ServerResponseError{StatusCode: statusCode, Err: err}
	}

	if env.Error {
		return &APIError{
			Message:          env.Message,
			Code:             env.Code,
			TechnicalMessage: env.TechnicalMessage,
		}
	}

	if out == nil || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &ServerResponseError{StatusCode: statusCode, Err: err}
	}

	return nil
}
