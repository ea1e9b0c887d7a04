package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/octabyte/salon-gommon/enums"
	"github.com/octabyte/salon-gommon/models"
	salonctx "github.com/octabyte/salon-gommon/utils/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("middleware-test-secret")

func sign(t *testing.T, key []byte, user models.User, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		User:             user,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}).SignedString(key)
	require.NoError(t, err)
	return token
}

// newEcho echoes the token and user id the middleware chain left behind.
func newEcho(extra ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.Use(SetTokenInContext(), SetSessionFromJWTToken(secret))
	e.Use(extra...)
	e.GET("/", func(c echo.Context) error {
		user, _ := salonctx.GetSessionFromContext(c.Request().Context())
		return c.JSON(http.StatusOK, map[string]any{
			"token":  salonctx.GetTokenFromContext(c.Request().Context()),
			"userId": user.ID,
		})
	})
	return e
}

func serve(e *echo.Echo, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestValidTokenSetsSession(t *testing.T) {
	token := sign(t, secret, models.User{ID: 4, Name: "Ana", Role: enums.RoleAdmin}, time.Now().Add(time.Hour))

	rec := serve(newEcho(), func(r *http.Request) { r.Header.Set(Authorization, "Bearer "+token) })

	assert.JSONEq(t, `{"token":"`+token+`","userId":4}`, rec.Body.String())
}

func TestCookieToken(t *testing.T) {
	token := sign(t, secret, models.User{ID: 4}, time.Now().Add(time.Hour))

	rec := serve(newEcho(), func(r *http.Request) { r.AddCookie(&http.Cookie{Name: Authorization, Value: token}) })

	assert.JSONEq(t, `{"token":"`+token+`","userId":4}`, rec.Body.String())
}

func TestInvalidTokensStayAnonymous(t *testing.T) {
	cases := map[string]string{
		"expired":     sign(t, secret, models.User{ID: 4}, time.Now().Add(-time.Minute)),
		"wrong key":   sign(t, []byte("another-secret"), models.User{ID: 4}, time.Now().Add(time.Hour)),
		"no user":     sign(t, secret, models.User{}, time.Now().Add(time.Hour)),
		"not a token": "garbage",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			rec := serve(newEcho(), func(r *http.Request) { r.Header.Set(Authorization, "Bearer "+token) })
			assert.JSONEq(t, `{"token":"`+token+`","userId":0}`, rec.Body.String())
		})
	}
}

func TestRequireSessionRejectsWithEnvelope(t *testing.T) {
	rec := serve(newEcho(RequireSession()), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"code":401,"error":true,"message":"`+UnauthorizedMessage+`"}`, rec.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	staff := sign(t, secret, models.User{ID: 5, Role: enums.RoleStaff}, time.Now().Add(time.Hour))
	admin := sign(t, secret, models.User{ID: 6, Role: enums.RoleAdmin}, time.Now().Add(time.Hour))
	e := newEcho(RequireSession(), RequireAdmin())

	rec := serve(e, func(r *http.Request) { r.Header.Set(Authorization, "Bearer "+staff) })
	assert.Contains(t, rec.Body.String(), `"code":403`)

	rec = serve(e, func(r *http.Request) { r.Header.Set(Authorization, "Bearer "+admin) })
	assert.Contains(t, rec.Body.String(), `"userId":6`)
}
