package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/crud-app/records-api/docs"
	"github.com/crud-app/records-api/internal/api/handler"
	"github.com/crud-app/records-api/internal/api/middleware"
	"github.com/crud-app/records-api/internal/core/ports"
	"github.com/crud-app/records-api/internal/infrastructure/http/handlers"
)

// Dependencies groups everything the router wires into handlers.
type Dependencies struct {
	Auth     ports.AuthService
	Records  ports.RecordService
	Admin    ports.AdminService
	Sessions *middleware.Sessions
	Checks   map[string]handlers.Check
	Reporter ErrorReporter
	Log      zerolog.Logger

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.Reporter)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "records",
		Registerer: registerer,
	}))
	e.Use(deps.Sessions.Load())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions)
	recordHandler := handler.NewRecordHandler(deps.Records)
	adminHandler := handler.NewAdminHandler(deps.Admin)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/verify-email", authHandler.VerifyEmail)
	auth.POST("/resend-otp", authHandler.ResendOTP)
	auth.POST("/signin", authHandler.SignIn)
	auth.GET("/logout", authHandler.Logout)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.POST("/reset-password/:token", authHandler.ResetPassword)
	auth.GET("/me", authHandler.Me, middleware.RequireAuth())

	// --- Data routes (owner scoped) ---
	data := e.Group("/data", middleware.RequireAuth())
	data.GET("", recordHandler.List)
	data.POST("", recordHandler.Create)
	data.GET("/:id", recordHandler.Get)
	data.PUT("/:id", recordHandler.Update)
	data.DELETE("/:id", recordHandler.Delete)

	// --- Admin routes ---
	admin := e.Group("/admin", middleware.RequireAuth(), middleware.AdminOnly(deps.Admin))
	admin.GET("", adminHandler.Dashboard)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:userId/role", adminHandler.UpdateUserRole)
	admin.PUT("/users/:userId/status", adminHandler.SetUserStatus)
	admin.DELETE("/users/:userId", adminHandler.DeleteUser)
	admin.GET("/stats", adminHandler.Stats)
	admin.PUT("/data/:id", adminHandler.UpdateRecord)
	admin.DELETE("/data/:id", adminHandler.DeleteRecord)

	// --- Health probes (no auth required) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(deps.Checks).Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
