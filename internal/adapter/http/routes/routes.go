package routes

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"authapi/internal/adapter/http/handler"
	"authapi/internal/adapter/http/middleware"
	"authapi/internal/core/port"
	"authapi/internal/core/telemetry"
	"authapi/pkg/config"
)

type HandlersConfig struct {
	AuthHandler    *handler.AuthHandler
	UserHandler    *handler.UserHandler
	TokenValidator port.TokenValidator
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.LokiLogger, cfg *config.AppConfig) *gin.Engine {
	router := gin.New()

	router.Use(config.NewHTTPSEnforcer(cfg.EnforceHTTPS, logger.Logger.Logger).HTTPSMiddleware())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(logger))

	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}

	router.Use(gin.Recovery())
	router.Use(middleware.CorsMiddleware())

	setupRoutes(router, handlers, metrics)

	return router
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	router.Use(middleware.CurrentMiddleware())
	router.Use(gin.Recovery())
	router.Use(middleware.CorsMiddleware())

	setupRoutes(router, handlers, nil)

	return router
}

func setupRoutes(router *gin.Engine, handlers HandlersConfig, metrics *telemetry.AppMetrics) {
	router.GET("/health", handler.Health)

	if handlers.AuthHandler != nil {
		setupPublicRoutes(router, handlers.AuthHandler)
	}

	if handlers.TokenValidator != nil {
		setupProtectedRoutes(router, handlers, metrics)
	}
}

func setupPublicRoutes(router *gin.Engine, authHandler *handler.AuthHandler) {
	public := router.Group("/auth")
	{
		public.POST("/signup", authHandler.RegisterByEmailAndPassword)
		public.POST("/login", authHandler.AuthByEmailAndPassword)
	}
}

func setupProtectedRoutes(router *gin.Engine, handlers HandlersConfig, metrics *telemetry.AppMetrics) {
	protected := router.Group("/")
	protected.Use(middleware.GinJwtMiddleware(handlers.TokenValidator, metrics))
	{
		if handlers.AuthHandler != nil {
			protected.GET("/auth/me", handlers.AuthHandler.Me)
		}

		if handlers.UserHandler != nil {
			protected.GET("/users/me", handlers.UserHandler.GetMe)
		}
	}
}
