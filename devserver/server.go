// Package devserver is an in-memory stand-in for the salon backend. It
// speaks the same envelope protocol and token flow, so salonctl and the
// client packages can be exercised without the real service.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/octabyte/salon-gommon/api"
	salonmw "github.com/octabyte/salon-gommon/interfaces/http/echo/middleware"
	otelecho "github.com/octabyte/salon-gommon/otel/echo"
	otellogger "github.com/octabyte/salon-gommon/otel/logger"
	"golang.org/x/crypto/bcrypt"
)

type Options struct {
	JWTSecret  []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// ServiceName names the tracer when Tracing is on.
	ServiceName string
	Tracing     bool
	BcryptCost  int
	Now         func() time.Time
}

type Server struct {
	opts   Options
	echo   *echo.Echo
	db     *memoryDB
	tokens *issuer
}

func New(opts Options) *Server {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "devserver"
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		opts:   opts,
		db:     newMemoryDB(),
		tokens: &issuer{secret: opts.JWTSecret, accessTTL: opts.AccessTTL, refreshTTL: opts.RefreshTTL, now: opts.Now},
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
	e.HTTPErrorHandler = errorHandler

	if opts.Tracing {
		e.Use(otelecho.Middleware(opts.ServiceName, nil))
	}
	e.Use(
		echomw.Recover(),
		salonmw.RequestLogger(),
		salonmw.SetTokenInContext(),
		salonmw.SetSessionFromJWTToken(opts.JWTSecret),
	)

	s.echo = e
	s.routes()
	return s
}

func (s *Server) routes() {
	authGroup := s.echo.Group("/api/auth")
	authGroup.POST("/login", s.login)
	authGroup.POST("/refresh", s.refresh)

	protected := s.echo.Group("/api", salonmw.RequireSession())

	clients := protected.Group("/clientes")
	clients.GET("/", s.listClients)
	clients.GET("/search-pagination", s.searchClients)
	clients.POST("/", s.createClient)
	clients.PUT("/:id", s.updateClient)
	clients.DELETE("/:id", s.deleteClient)

	colorations := protected.Group("/coloraciones")
	colorations.GET("/", s.listColorations)
	colorations.GET("/search", s.searchColorations)
	colorations.POST("/", s.createColoration)
	colorations.PUT("/:id", s.updateColoration)
	colorations.DELETE("/:id", s.deleteColoration)

	reports := protected.Group("/reportes")
	reports.GET("/", s.listReports)
	reports.POST("/", s.createReport)
	reports.GET("/:id", s.getReport)
	reports.PUT("/:id", s.updateReport)

	users := protected.Group("/user", salonmw.RequireAdmin())
	users.GET("/search-pagination", s.searchAccounts)
	users.POST("/create-user", s.createAccount)
	users.PUT("/update-user", s.updateAccount)
	users.DELETE("/delete-user/:id", s.deleteAccount)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// errorHandler renders framework errors (unknown routes, bad bodies) as
// envelopes.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Error interno del servidor"
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		message = http.StatusText(status)
	}

	ctx := c.Request().Context()
	if status >= http.StatusInternalServerError {
		otellogger.ErrorCtx(ctx, "request failed", err)
	}
	if traceID := otellogger.GetTraceID(ctx); traceID != "" {
		c.Response().Header().Set("X-Trace-Id", traceID)
	}

	_ = c.JSON(status, api.Envelope[any]{
		Code:             status,
		Error:            true,
		Message:          message,
		TechnicalMessage: err.Error(),
	})
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, api.Envelope[any]{Code: http.StatusOK, Message: "OK", Data: data})
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, api.Envelope[any]{Code: status, Error: true, Message: message})
}
