package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/devlog-hq/devlog/docs"
	"github.com/devlog-hq/devlog/internal/api/handler"
	"github.com/devlog-hq/devlog/internal/api/middleware"
	"github.com/devlog-hq/devlog/internal/auth/token"
	"github.com/devlog-hq/devlog/internal/core/ports"
)

// Dependencies carries everything the router needs; construction happens in
// cmd/api so the wiring is visible in one place.
type Dependencies struct {
	AuthService   ports.AuthService
	DevlogService ports.DevlogService
	Tokens        *token.Manager
	DB            *sql.DB
	Redis         *redis.Client // nil when the in-memory registry is used
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddleware("devlog"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	accountHandler := handler.NewAccountHandler(deps.AuthService)
	projectHandler := handler.NewProjectHandler(deps.DevlogService)
	logHandler := handler.NewLogHandler(deps.DevlogService)
	auth := middleware.Auth(deps.Tokens)

	// --- Public API routes ---
	g := e.Group("/api")
	g.GET("/ping", authHandler.Ping)
	g.POST("/register", authHandler.Register)
	g.POST("/register/verify_2fa", authHandler.VerifyRegister2FA)
	g.POST("/login", authHandler.Login)
	g.POST("/login/verify_2fa", authHandler.VerifyLogin2FA)

	// --- Protected API routes ---
	g.GET("/whoami", accountHandler.Whoami, auth)
	g.POST("/logout", authHandler.Logout, auth)
	g.PUT("/account/username", accountHandler.ChangeUsername, auth)
	g.PUT("/account/password", accountHandler.ChangePassword, auth)
	g.DELETE("/account", accountHandler.DeleteAccount, auth)

	g.GET("/projects", projectHandler.List, auth)
	g.POST("/projects", projectHandler.Create, auth)
	g.GET("/projects/:project_id", projectHandler.Get, auth)
	g.PUT("/projects/:project_id", projectHandler.Update, auth)
	g.DELETE("/projects/:project_id", projectHandler.Delete, auth)

	g.GET("/:project_id/logs", logHandler.List, auth)
	g.POST("/:project_id/logs", logHandler.Create, auth)
	g.GET("/:project_id/logs/:log_id", logHandler.Get, auth)
	g.PUT("/:project_id/logs/:log_id", logHandler.Update, auth)
	g.DELETE("/:project_id/logs/:log_id", logHandler.Delete, auth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured line per request through the shared
// zerolog logger.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURI:       true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
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
