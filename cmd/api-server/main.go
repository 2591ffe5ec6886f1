package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codelens/database"
	"codelens/internal/config"
	"codelens/internal/llm"
	"codelens/internal/logger"
	"codelens/internal/mailer"
	"codelens/internal/metrics"
	"codelens/internal/microservices/http-api/handler"
	"codelens/internal/microservices/http-api/repository"
	"codelens/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Connect to postgres and redis
	db, err := database.ConnectDB(cfg, appLogger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	redisClient, err := database.ConnectRedis(cfg, appLogger)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}
	defer redisClient.Close()

	// 3. Wire services
	var m mailer.Mailer = mailer.LogMailer{}
	if cfg.SMTPHost != "" {
		m = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		})
	}

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewRefreshTokenRepository(db),
		service.NewRedisSessionStore(redisClient),
		m,
		cfg,
	)

	gemini := llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout, llm.DefaultClientFactory)
	if cfg.GeminiAPIKey == "" {
		appLogger.Warn("GEMINI_API_KEY is not set, review requests will fail until it is configured")
	}
	reviewService := service.NewReviewService(gemini, repository.NewReviewRepository(db))

	var registry *prometheus.Registry
	if cfg.PrometheusEnabled {
		registry = metrics.InitRegistry()
	}

	// 4. Setup Gin
	router := handler.NewRouter(handler.RouterConfig{
		AuthService:     authService,
		ReviewService:   reviewService,
		Logger:          appLogger,
		CookieSecure:    cfg.CookieSecure,
		ReviewRateLimit: cfg.ReviewRateLimit,
		ReviewRateBurst: cfg.ReviewRateBurst,
		Registry:        registry,
		HealthCheck: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := database.Ping(ctx, db); err != nil {
				return err
			}
			return redisClient.Ping(ctx).Err()
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// review calls can take as long as the LLM timeout
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("API server listening", "addr", srv.Addr, "model", gemini.Model())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", "error", err)
	}
}
