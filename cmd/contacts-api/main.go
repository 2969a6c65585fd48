package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Varun5711/contatos/internal/auth"
	"github.com/Varun5711/contatos/internal/config"
	"github.com/Varun5711/contatos/internal/database"
	"github.com/Varun5711/contatos/internal/handlers"
	"github.com/Varun5711/contatos/internal/logger"
	"github.com/Varun5711/contatos/internal/middleware"
	redisclient "github.com/Varun5711/contatos/internal/redis"
	"github.com/Varun5711/contatos/internal/service"
	"github.com/Varun5711/contatos/internal/storage"
)

func main() {
	log := logger.New("contacts-api")
	log.SetStdLog()
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	health := handlers.NewHealthHandler()

	var (
		contactStore storage.ContactStorage
		userStore    storage.UserStore
	)

	if cfg.Database.PrimaryDSN != "" {
		if cfg.Database.AutoMigrate {
			if err := database.RunMigrations(cfg.Database.PrimaryDSN); err != nil {
				log.Fatal("Failed to run migrations: %v", err)
			}
			log.Info("Migrations applied")
		}

		dbManager, err := database.NewDBManager(ctx, database.Config{
			PrimaryDSN:      cfg.Database.PrimaryDSN,
			ReplicaDSNs:     cfg.Database.ReplicaDSNs,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer dbManager.Close()

		log.Info("Connected to database (%d replicas)", len(cfg.Database.ReplicaDSNs))
		health.AddCheck("database", dbManager.Ping)
		health.AddStats("database", dbManager.Stats)

		contactStore = storage.NewPostgresStorage(dbManager)
		userStore = storage.NewUserStorage(dbManager)
	} else {
		log.Warn("DB_PRIMARY_DSN not set, using in-memory storage (data is lost on restart)")
		contactStore = storage.NewMemoryStorage()
		userStore = storage.NewMemoryUserStorage()
	}

	var rateLimiter *middleware.RateLimiter
	rdb, err := redisclient.NewClient(ctx, redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	switch {
	case errors.Is(err, redisclient.ErrNoAddr):
		log.Info("REDIS_ADDR not set, auth rate limiting disabled")
	case err != nil:
		log.Fatal("Failed to connect to Redis: %v", err)
	default:
		defer rdb.Close()
		log.Info("Connected to Redis at %s", cfg.Redis.Addr)
		rateLimiter = middleware.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window, cfg.Server.TrustProxyHeaders, handlers.WriteError)
		health.AddCheck("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
		health.AddStats("redis", func() map[string]interface{} {
			return redisclient.Stats(rdb)
		})
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenExpiry)

	router := handlers.NewRouter(handlers.RouterConfig{
		Contacts:          service.NewContactService(contactStore),
		Users:             service.NewUserService(userStore, jwtManager),
		RateLimiter:       rateLimiter,
		Health:            health,
		RequireAuthForAll: cfg.Auth.RequireAll,
		TrustProxyHeaders: cfg.Server.TrustProxyHeaders,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		Logger:            log.Named("http"),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down contacts api...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown: %v", err)
	}
	log.Info("Contacts api stopped")
}
