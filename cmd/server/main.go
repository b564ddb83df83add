package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/yukikurage/meeting-action-api/internal/config"
	"github.com/yukikurage/meeting-action-api/internal/database"
	"github.com/yukikurage/meeting-action-api/internal/events"
	"github.com/yukikurage/meeting-action-api/internal/handlers"
	"github.com/yukikurage/meeting-action-api/internal/logger"
	"github.com/yukikurage/meeting-action-api/internal/metrics"
	"github.com/yukikurage/meeting-action-api/internal/middleware"
	"github.com/yukikurage/meeting-action-api/internal/repository"
	"github.com/yukikurage/meeting-action-api/internal/services"
	"go.uber.org/zap"
)

const eventStreamMaxLen = 10000

func main() {
	// Load configuration
	cfg := config.Load()

	appLogger, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()
	zap.ReplaceGlobals(appLogger)

	if cfg.IsProduction() && cfg.JWTSecret == "default-secret-key-change-me" {
		appLogger.Fatal("JWT_SECRET must be set in production")
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	created, err := database.MigrateDatabase(db)
	if err != nil {
		appLogger.Fatal("failed to run migrations", zap.Error(err))
	}
	if len(created) > 0 {
		appLogger.Info("created indexes", zap.Strings("indexes", created))
	}

	m := metrics.New(cfg.MetricsPrefix).WithRuntimeCollectors()

	// Workflow events go to a Redis stream when configured, otherwise to the log
	var publisher events.Publisher = events.NewLogPublisher(appLogger)
	if cfg.RedisEnabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			appLogger.Warn("redis is not reachable at startup", zap.Error(err))
		}
		cancel()

		publisher = events.NewRedisStreamPublisher(client, cfg.EventStream, eventStreamMaxLen)
		appLogger.Info("publishing workflow events to redis stream", zap.String("stream", cfg.EventStream))
	}
	publisher = events.NewCountingPublisher(publisher, m)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	meetingRepo := repository.NewMeetingRepository(db)
	actionRepo := repository.NewActionRepository(db)
	extensionRepo := repository.NewExtensionRepository(db)

	// Services
	tokens := services.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)
	authService := services.NewAuthService(userRepo, tokens)
	meetingService := services.NewMeetingService(meetingRepo, userRepo)
	actionService := services.NewActionService(actionRepo, meetingRepo, userRepo)
	approvalService := services.NewApprovalService(actionRepo, extensionRepo, meetingRepo, publisher, appLogger)
	extensionService := services.NewExtensionService(actionRepo, extensionRepo, cfg.AllowParallelExtensionRequests, publisher, appLogger)
	overdueService := services.NewOverdueService(actionRepo)

	router := handlers.NewRouter(handlers.RouterDeps{
		Logger:    appLogger,
		Metrics:   m,
		Tokens:    tokens,
		Meetings:  meetingRepo,
		Auth:      handlers.NewAuthHandler(authService),
		Meeting:   handlers.NewMeetingHandler(meetingService),
		Action:    handlers.NewActionHandler(actionService),
		Approval:  handlers.NewApprovalHandler(approvalService),
		Extension: handlers.NewExtensionHandler(extensionService),
		Overdue:   handlers.NewOverdueHandler(overdueService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           middleware.CORS(cfg.CORSAllowedOrigins)(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("server forced to shutdown", zap.Error(err))
	}
}
