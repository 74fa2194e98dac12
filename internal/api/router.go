package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/staybook/portal/docs"
	"github.com/staybook/portal/internal/api/handler"
	"github.com/staybook/portal/internal/api/middleware"
	"github.com/staybook/portal/internal/core/ports"
	"github.com/staybook/portal/internal/core/routes"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Sessions      middleware.SessionSource
	Gateway       ports.AuthGateway
	Guard         middleware.Evaluator
	Visits        middleware.VisitQueue
	Storage       handler.Pinger
	StorageDriver string
	Cookie        middleware.CookieOptions
	Log           zerolog.Logger
	// Metrics receives the HTTP collectors; nil means the default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(httpMetrics(d.Metrics))

	// --- Operational endpoints (no client session) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(map[string]handler.Pinger{
		d.StorageDriver: d.Storage,
	})

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: is session storage up?
	e.GET("/metrics", metricsHandler(d.Metrics))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	client := middleware.ClientSession(d.Sessions, d.Cookie)

	// --- Auth and session API ---
	authHandler := handler.NewAuthHandler(d.Gateway)
	sessionHandler := handler.NewSessionHandler()

	api := e.Group("/api", client)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/verify-email", authHandler.VerifyEmail)
	api.POST("/auth/resend-verification", authHandler.ResendVerification)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword)
	api.POST("/auth/reset-password", authHandler.ResetPassword)
	api.POST("/auth/logout", authHandler.Logout)

	api.GET("/session", sessionHandler.Get)
	api.PATCH("/session/identity", sessionHandler.UpdateIdentity)
	api.PUT("/session/business", sessionHandler.SelectBusiness)
	api.DELETE("/session/business", sessionHandler.ClearBusiness)

	// --- Pages ---
	// Chain per page: client session → mount-time restore → remember path → guard.
	pages := handler.NewPageHandler()
	for _, r := range routes.Table {
		e.GET(r.Path, pages.Render(r),
			client,
			middleware.RestorePath(),
			middleware.RememberPath(r, d.Visits, d.Log),
			middleware.Guard(d.Guard, r),
		)
	}

	return e
}

func httpMetrics(reg *prometheus.Registry) echo.MiddlewareFunc {
	if reg == nil {
		return echoprometheus.NewMiddleware("portal")
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: reg,
	})
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
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
