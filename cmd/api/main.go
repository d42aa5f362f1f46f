package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/groupchat/chat-backend/internal/config"
	"github.com/groupchat/chat-backend/internal/database"
	"github.com/groupchat/chat-backend/internal/handler"
	"github.com/groupchat/chat-backend/internal/metrics"
	"github.com/groupchat/chat-backend/internal/middleware"
	"github.com/groupchat/chat-backend/internal/migration"
	"github.com/groupchat/chat-backend/internal/repository"
	"github.com/groupchat/chat-backend/internal/routes"
	"github.com/groupchat/chat-backend/internal/service"
	pkgcache "github.com/groupchat/chat-backend/pkg/cache"
	"github.com/groupchat/chat-backend/pkg/jwt"
	pkglogger "github.com/groupchat/chat-backend/pkg/logger"
	pkgredis "github.com/groupchat/chat-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// @title           Chat Backend API
// @version         1.0
// @description     Direct messaging between registered users
//
// @host            localhost:8080
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"
func main() {
	dotenvFiles := config.LoadDotEnv(".")

	// 로거 초기화
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	// 설정 로드
	configPath := config.PathForEnv(env)
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	// Database
	db, err := database.Open(&cfg.Database)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("failed to connect to database")
	}
	pkglogger.Info("Connected to %s", cfg.Database.Driver)
	if err := migration.Run(db); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("migration failed")
	}
	if cfg.IsDevelopment() {
		if err := migration.SeedDemoUsers(db); err != nil {
			pkglogger.Warn("demo seed skipped: %v", err)
		}
	}

	// Redis
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(context.Background(), pkgredis.Options{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}
	cacheService := pkgcache.NewService(redisClient)

	// JWT Manager
	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	memberRepo := repository.NewConversationMemberRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	membershipService := service.NewMembershipService(memberRepo)
	messageService := service.NewMessageService(messageRepo, userRepo, cacheService)
	discoveryService := service.NewDiscoveryService(userRepo, memberRepo)

	// Router
	gin.SetMode(cfg.Server.Mode)
	routerOpts := routes.RouterOptions{
		AllowOrigins: cfg.CORS.AllowedOrigins(),
		RateLimit: middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			SendsPerMinute:    cfg.RateLimit.SendsPerMinute,
		},
	}
	if redisClient != nil && cfg.RateLimit.Enabled {
		routerOpts.Limiter = middleware.NewRateLimiter(redisClient)
	}

	router := routes.NewRouter(routerOpts)
	routes.Setup(router, &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		User:    handler.NewUserHandler(discoveryService),
		Message: handler.NewMessageHandler(messageService),
		Member:  handler.NewMemberHandler(membershipService),
		Health:  handler.NewHealthHandler(db, cacheService),
	}, jwtManager, routerOpts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reportDBStats(ctx, db)

	// 서버 시작
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.GetLogger().Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("server.shutdown", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// reportDBStats publishes pool usage to the metrics gauge until ctx is done
func reportDBStats(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.SetDBConnectionsInUse(sqlDB.Stats().InUse)
		}
	}
}
