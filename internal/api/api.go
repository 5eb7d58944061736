// Package api provides the JSON REST interface for image identification and
// the species reference database.
package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"

	"github.com/wildsnap/wildsnap-go/internal/conf"
	"github.com/wildsnap/wildsnap-go/internal/datastore"
	"github.com/wildsnap/wildsnap-go/internal/logging"
	"github.com/wildsnap/wildsnap-go/internal/observability"
	"github.com/wildsnap/wildsnap-go/internal/vision"
)

// Controller holds the shared state for all route handlers.
type Controller struct {
	Echo        *echo.Echo
	Group       *echo.Group
	DS          datastore.Interface
	Settings    *conf.Settings
	Vision      vision.Identifier
	Metrics     *observability.Metrics
	recentCache *cache.Cache
	logger      *slog.Logger
	loggerClose func() error
}

// requestValidator adapts go-playground/validator to echo's Validator interface.
type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// New creates the API controller and registers all routes on the given echo
// instance under /api.
func New(e *echo.Echo, ds datastore.Interface, settings *conf.Settings,
	identifier vision.Identifier, metrics *observability.Metrics) (*Controller, error) {

	if settings == nil {
		return nil, fmt.Errorf("settings cannot be nil")
	}

	c := &Controller{
		Echo:        e,
		DS:          ds,
		Settings:    settings,
		Vision:      identifier,
		Metrics:     metrics,
		recentCache: cache.New(30*time.Second, time.Minute),
	}

	// Per-service file logger, separate from the echo request log.
	logger, closeFn, err := logging.NewFileLogger("logs/api.log", "api", currentLogLevel(settings))
	if err != nil {
		logging.Warn("Failed to initialize API file logger", "error", err)
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	} else {
		c.logger = logger
		c.loggerClose = closeFn
	}

	e.Validator = &requestValidator{validate: validator.New()}

	c.Group = e.Group("/api")
	c.Group.Use(middleware.Recover())
	c.Group.Use(middleware.CORS())
	c.Group.Use(c.requestLoggerMiddleware())

	c.initRoutes()

	return c, nil
}

// Shutdown releases resources held by the controller.
func (c *Controller) Shutdown() {
	if c.loggerClose != nil {
		if err := c.loggerClose(); err != nil {
			logging.Warn("Failed to close API log file", "error", err)
		}
	}
}

// initRoutes wires every route group. Each concern registers its own routes
// from its own file.
func (c *Controller) initRoutes() {
	c.initHealthRoutes()
	c.initIdentifyRoutes()
	c.initBirdRoutes()
	c.initAnimalRoutes()

	if c.Metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(c.Metrics.Handler()))
	}
}

// requestLoggerMiddleware tags each request with a correlation ID and records
// the outcome in the API log and metrics.
func (c *Controller) requestLoggerMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			requestID := ctx.Request().Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			ctx.Set("request_id", requestID)
			ctx.Response().Header().Set(echo.HeaderXRequestID, requestID)

			start := time.Now()
			err := next(ctx)
			status := ctx.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			c.logger.Info("HTTP request",
				"request_id", requestID,
				"method", ctx.Request().Method,
				"path", ctx.Path(),
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"ip", ctx.RealIP(),
			)
			if c.Metrics != nil {
				c.Metrics.ObserveHTTPRequest(ctx.Request().Method, ctx.Path(), status)
			}
			return err
		}
	}
}

func currentLogLevel(settings *conf.Settings) slog.Leveler {
	if settings.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// bindAndValidate decodes the request body into req and runs struct
// validation, returning a client-facing error message on failure.
func bindAndValidate(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return err
	}
	return ctx.Validate(req)
}
