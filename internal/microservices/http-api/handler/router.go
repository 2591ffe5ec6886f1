package handler

import (
	"log/slog"
	"net/http"

	"codelens/internal/metrics"
	"codelens/internal/microservices/http-api/middleware"
	"codelens/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	AuthService     service.AuthService
	ReviewService   service.ReviewService
	Logger          *slog.Logger
	CookieSecure    bool
	ReviewRateLimit float64
	ReviewRateBurst int
	Registry        *prometheus.Registry // nil disables /metrics
	HealthCheck     func() error
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(cfg.Logger))
	if cfg.Registry != nil {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Registry)))
	}

	r.GET("/healthz", func(c *gin.Context) {
		if cfg.HealthCheck != nil {
			if err := cfg.HealthCheck(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(cfg.AuthService, cfg.CookieSecure)
	reviewHandler := NewReviewHandler(cfg.ReviewService, cfg.AuthService)
	requireAuth := middleware.AuthMiddleware(cfg.AuthService)
	limiter := middleware.NewRateLimiter(cfg.ReviewRateLimit, cfg.ReviewRateBurst)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/login", authHandler.SignIn)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/reset-password", authHandler.RequestPasswordReset)
		authGroup.POST("/reset-password/update", authHandler.ConfirmPasswordReset)

		authGroup.POST("/logout", requireAuth, authHandler.SignOut)
		authGroup.GET("/me", requireAuth, authHandler.Me)
		authGroup.PATCH("/me", requireAuth, authHandler.UpdateCredentials)
	}

	api := r.Group("/api")
	{
		api.GET("/languages", Languages)
		api.POST("/reviews", middleware.OptionalAuth(cfg.AuthService), limiter.Middleware(), reviewHandler.Submit)

		protected := api.Group("", requireAuth)
		protected.GET("/reviews", reviewHandler.List)
		protected.GET("/reviews/:id", reviewHandler.Get)
		protected.GET("/dashboard/stats", reviewHandler.DashboardStats)
		protected.GET("/profile", reviewHandler.Profile)
	}

	return r
}
