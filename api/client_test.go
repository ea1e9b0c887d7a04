package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	ContentType   string
	CacheControl  string
	Body          string
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		seen = append(seen, recordedRequest{
			Method:        r.Method,
			Path:          r.URL.RequestURI(),
			Authorization: r.Header.Get("Authorization"),
			ContentType:   r.Header.Get("Content-Type"),
			CacheControl:  r.Header.Get("Cache-Control"),
			Body:          string(raw),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &seen
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(Config{BaseURL: baseURL})
	require.NoError(t, err)
	return client
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestRequestReturnsOnlyData(t *testing.T) {
	server, seen := newTestServer(t, http.StatusOK,
		`{"code":200,"error":false,"message":"OK","data":{"id":7,"nombre":"Ana"}}`)
	client := newTestClient(t, server.URL)

	type client7 struct {
		ID     int64  `json:"id"`
		Nombre string `json:"nombre"`
	}
	got, err := Request[client7](context.Background(), client, http.MethodPost, "/api/clientes/", map[string]string{"nombre": "Ana"}, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, client7{ID: 7, Nombre: "Ana"}, got)

	require.Len(t, *seen, 1)
	req := (*seen)[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/clientes/", req.Path)
	assert.Equal(t, "Bearer tok-1", req.Authorization)
	assert.Equal(t, "application/json", req.ContentType)
	assert.Equal(t, "no-store", req.CacheControl)
	assert.JSONEq(t, `{"nombre":"Ana"}`, req.Body)
}

func TestRequestWithoutTokenOrBody(t *testing.T) {
	server, seen := newTestServer(t, http.StatusOK, `{"code":200,"error":false,"message":"OK","data":[1,2,3]}`)
	client := newTestClient(t, server.URL+"/")

	got, err := Request[[]int](context.Background(), client, http.MethodGet, "/api/coloraciones/", nil, "")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)

	req := (*seen)[0]
	assert.Empty(t, req.Authorization)
	assert.Empty(t, req.Body)
	assert.Equal(t, "/api/coloraciones/", req.Path)
}

func TestRequestAbsoluteURLPassesThrough(t *testing.T) {
	server, seen := newTestServer(t, http.StatusOK, `{"code":200,"error":false,"message":"OK","data":"pong"}`)
	client := newTestClient(t, "http://unused.invalid")

	got, err := Request[string](context.Background(), client, http.MethodGet, server.URL+"/ping", nil, "")
	require.NoError(t, err)
	assert.Equal(t, "pong", got)
	assert.Equal(t, "/ping", (*seen)[0].Path)
}

func TestRequestEnvelopeErrorIsVerbatim(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK,
		`{"code":409,"error":true,"message":"El cliente ya existe","technicalMessage":"duplicate key email","data":{"id":1}}`)
	client := newTestClient(t, server.URL)

	_, err := Request[map[string]any](context.Background(), client, http.MethodPost, "/api/clientes/", nil, "")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "El cliente ya existe", apiErr.Message)
	assert.Equal(t, 409, apiErr.Code)
	assert.Equal(t, "duplicate key email", apiErr.TechnicalMessage)
	assert.Equal(t, "El cliente ya existe", err.Error())
}

func TestRequestNonEnvelopeBody(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{"html error page", http.StatusBadGateway, "<html>bad gateway</html>"},
		{"empty body", http.StatusNoContent, ""},
		{"json array", http.StatusOK, "[1,2]"},
		{"json null", http.StatusOK, "null"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server, _ := newTestServer(t, tc.status, tc.body)
			client := newTestClient(t, server.URL)

			_, err := Request[any](context.Background(), client, http.MethodGet, "/api/reportes/", nil, "")

			var respErr *ServerResponseError
			require.ErrorAs(t, err, &respErr)
			assert.Equal(t, tc.status, respErr.StatusCode)
		})
	}
}

func TestRequestDataTypeMismatch(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"code":200,"error":false,"message":"OK","data":"not-a-number"}`)
	client := newTestClient(t, server.URL)

	_, err := Request[int](context.Background(), client, http.MethodGet, "/x", nil, "")

	var respErr *ServerResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusOK, respErr.StatusCode)
}

func TestRequestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := newTestClient(t, url)
	_, err := Request[any](context.Background(), client, http.MethodGet, "/api/user/", nil, "")

	var respErr *ServerResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, 0, respErr.StatusCode)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestDoWithNilOutIgnoresData(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"code":200,"error":false,"message":"deleted","data":null}`)
	client := newTestClient(t, server.URL)

	err := client.Do(context.Background(), http.MethodDelete, "/api/clientes/3", nil, "tok", nil)
	assert.NoError(t, err)
}

func TestIsAuthRejection(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"message contains 401", &APIError{Message: "Error 401: token expirado", Code: 500}, true},
		{"code 401", &APIError{Message: "Unauthorized", Code: 401}, true},
		{"other api error", &APIError{Message: "Not found", Code: 404}, false},
		{"bare 401 response", &ServerResponseError{StatusCode: 401}, true},
		{"bad gateway", &ServerResponseError{StatusCode: 502}, false},
		{"wrapped", errors.Join(errors.New("ctx"), &APIError{Message: "401"}), true},
		{"plain error mentioning 401", errors.New("401"), false},
		{"nil", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsAuthRejection(tc.err))
		})
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	raw, err := json.Marshal(Envelope[[]string]{Code: 200, Message: "OK", Data: []string{"a"}})
	require.NoError(t, err)

	var out []string
	require.NoError(t, decodeEnvelope(raw, http.StatusOK, &out))
	assert.Equal(t, []string{"a"}, out)
}
