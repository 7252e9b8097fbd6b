// Package router assembles the gin engine: the middleware chain, the
// public and authenticated route groups, and the WebSocket endpoint.
package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/config"
	"github.com/sunwoo0067/yooni-03-sub011/internal/infrastructure/logger"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/handler"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/middleware"
	"github.com/sunwoo0067/yooni-03-sub011/internal/interfaces/http/ws"
)

// RouteRegistrar registers a handler's routes on a route group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Handlers collects every HTTP handler wired by the server
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Products     *handler.ProductHandler
	Suppliers    *handler.SupplierHandler
	Listings     *handler.ListingHandler
	Orders       *handler.OrderHandler
	Notification *handler.NotificationHandler
	Dashboard    *handler.DashboardHandler
}

// Dependencies holds everything the router needs besides the handlers
type Dependencies struct {
	Config    *config.Config
	Logger    *zap.Logger
	Meter     metric.Meter
	Validator middleware.AccessValidator
	Hub       *ws.Hub
}

// New builds the gin engine with the full middleware chain and all
// routes registered
func New(deps Dependencies, handlers Handlers) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(logger.Recovery(deps.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(deps.Config)))
	if deps.Config.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(deps.Config.HTTP.MaxBodySize))
	}
	engine.Use(middleware.Tracing(deps.Config.Telemetry.ServiceName, deps.Config.Telemetry.Enabled))
	engine.Use(middleware.HTTPMetrics(deps.Meter, deps.Config.Telemetry.Enabled))

	// Probes stay outside /api so orchestrators reach them unauthenticated
	handlers.System.RegisterRoutes(engine)

	api := engine.Group("/api/v1")
	if deps.Config.HTTP.RateLimitEnabled {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(
			deps.Config.HTTP.RateLimitRequests,
			deps.Config.HTTP.RateLimitWindow,
		)))
	}

	// Login and refresh get their own tighter limiter to slow down
	// credential stuffing
	public := api.Group("")
	if deps.Config.HTTP.AuthRateLimitEnabled {
		public.Use(middleware.RateLimit(middleware.NewRateLimiter(
			deps.Config.HTTP.AuthRateLimitRequests,
			deps.Config.HTTP.AuthRateLimitWindow,
		)))
	}
	handlers.Auth.RegisterPublicRoutes(public)

	protected := api.Group("")
	protected.Use(middleware.Auth(deps.Validator))
	{
		handlers.Auth.RegisterProtectedRoutes(protected)
		handlers.Products.RegisterRoutes(protected)
		handlers.Suppliers.RegisterRoutes(protected)
		handlers.Listings.RegisterRoutes(protected)
		handlers.Orders.RegisterRoutes(protected)
		handlers.Notification.RegisterRoutes(protected)
		handlers.Dashboard.RegisterRoutes(protected)

		if deps.Hub != nil {
			protected.GET("/dashboard/ws", ws.ServeWS(deps.Hub, deps.Logger))
		}
	}

	admin := api.Group("")
	admin.Use(middleware.Auth(deps.Validator), middleware.RequireRole("admin"))
	{
		handlers.Users.RegisterRoutes(admin)
	}

	return engine
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return corsCfg
}
