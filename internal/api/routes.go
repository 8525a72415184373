// routes.go - Route and middleware registration
package api

import (
	"github.com/course-import/backend/internal/storage"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store     storage.Store
	Validator WorkbookValidator
	Logger    zerolog.Logger
	UploadDir string
	Version   string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Upload UploadHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.UploadDir),
		Upload: NewUploadHandler(deps.Store, deps.Validator, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/health", handlers.Health.HandleHealth)
	e.POST("/upload", handlers.Upload.HandleUpload)
}

// MiddlewareConfig selects the optional middleware.
type MiddlewareConfig struct {
	Logger               zerolog.Logger
	EnableRequestLogging bool
	// BodyLimit uses echo's size syntax, e.g. "32M". Empty disables the limit.
	BodyLimit string
}

// SetupMiddleware configures the error handler and common middleware
func SetupMiddleware(e *echo.Echo, cfg MiddlewareConfig) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	if cfg.EnableRequestLogging {
		e.Use(requestLogger(cfg.Logger))
	}

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			cfg.Logger.Error().Err(err).Bytes("stack", stack).Msg("handler panic")
			return err
		},
	}))

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
}

// requestLogger writes one zerolog event per request. Health probes are skipped.
func requestLogger(logger zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := logger.Info()
			if v.Error != nil {
				event = logger.Warn().Err(v.Error)
			}
			event.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
