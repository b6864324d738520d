package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	ginadapter "github.com/uniedit/payrecon/internal/adapter/inbound/gin"
	"github.com/uniedit/payrecon/internal/infra/config"
	"github.com/uniedit/payrecon/internal/utils/middleware"
)

// App represents the application.
type App struct {
	deps    *Dependencies
	router  *gin.Engine
	cleanup func()
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	deps, cleanup, err := InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize dependencies: %w", err)
	}

	app := &App{
		deps:    deps,
		cleanup: cleanup,
	}
	app.router = app.setupRouter()

	deps.Logger.Info("application initialized",
		zap.String("storage", cfg.Storage.Driver),
		zap.Bool("redis", deps.Redis != nil),
		zap.Bool("rate_limit", deps.RateLimiter != nil),
		zap.Bool("breaker", cfg.Breaker.Enabled),
	)
	return app, nil
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	cfg := a.deps.Config
	log := a.deps.Logger

	if cfg.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Apply global middleware
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(log))
	r.Use(middleware.Metrics(a.deps.Metrics))

	r.Use(middleware.CORS(cfg.Server.CORSOrigins))

	r.GET("/health", a.health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.deps.Registry, promhttp.HandlerOpts{})))

	api := r.Group("/api/v1",
		middleware.Auth(a.deps.TokenVerifier),
		middleware.RateLimitByUser(a.deps.RateLimiter, cfg.RateLimit.Limit, cfg.RateLimit.Window, log),
	)
	ginadapter.RegisterPaymentRoutes(api, a.deps.PaymentHandler)
	ginadapter.RegisterRefundRoutes(api, a.deps.RefundHandler)

	admin := api.Group("/admin", middleware.RequireAdmin())
	ginadapter.RegisterExchangeRateRoutes(admin, a.deps.ExchangeRateHandler)

	return r
}

// health reports liveness plus the state of the database when one is used.
func (a *App) health(c *gin.Context) {
	if a.deps.DB != nil {
		sqlDB, err := a.deps.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Dependencies returns the wired dependencies.
func (a *App) Dependencies() *Dependencies {
	return a.deps
}

// Stop releases the database, Redis and logger.
func (a *App) Stop() {
	a.deps.Logger.Info("stopping application")
	if a.cleanup != nil {
		a.cleanup()
	}
}
