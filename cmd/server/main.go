package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nsaetang/taskcal/internal/auth"
	"github.com/nsaetang/taskcal/internal/config"
	"github.com/nsaetang/taskcal/internal/database"
	"github.com/nsaetang/taskcal/internal/events"
	"github.com/nsaetang/taskcal/internal/handlers"
	"github.com/nsaetang/taskcal/internal/logger"
	"github.com/nsaetang/taskcal/internal/middleware"
	redisclient "github.com/nsaetang/taskcal/internal/redis"
	"github.com/nsaetang/taskcal/internal/service"
	"github.com/nsaetang/taskcal/internal/storage"
)

func main() {
	log := logger.New("server")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
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

	// Redis backs rate limiting and the audit stream. Neither is required
	// for the service to function, so a missing Redis downgrades instead of
	// aborting startup.
	var audit *events.AuditProducer
	var limiter *middleware.RateLimiter

	redisClient, err := redisclient.NewRedisClient(ctx, redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, rate limiting and audit events disabled: %v", err)
	} else {
		defer redisClient.Close()
		audit = events.NewAuditProducer(redisClient.GetClient(), cfg.Redis.StreamName)
		limiter = middleware.NewRateLimiter(redisClient.GetClient(), cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	accessTokens := auth.NewJWTManager(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)
	refreshTokens := auth.NewJWTManager(cfg.Auth.RefreshSecret, cfg.Auth.RefreshTTL)

	userStorage := storage.NewUserStorage(dbManager)
	taskStorage := storage.NewTaskStorage(dbManager)

	authService := service.NewAuthService(userStorage, accessTokens, refreshTokens)
	taskService := service.NewTaskService(taskStorage)

	authHandler := handlers.NewAuthHandler(authService, audit, cfg.Server.CookieSecure)
	taskHandler := handlers.NewTaskHandler(taskService)
	authGuard := middleware.NewAuthMiddleware(accessTokens)

	limited := func(next http.HandlerFunc) http.HandlerFunc {
		if limiter == nil {
			return next
		}
		return limiter.Middleware(next)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", limited(authHandler.Register))
	mux.HandleFunc("POST /auth/login", limited(authHandler.Login))
	mux.HandleFunc("POST /auth/logout", authHandler.Logout)
	mux.HandleFunc("POST /auth/refresh", limited(authHandler.Refresh))

	mux.HandleFunc("GET /tasks", authGuard.RequireAuth(taskHandler.List))
	mux.HandleFunc("POST /tasks", authGuard.RequireAuth(taskHandler.Create))
	mux.HandleFunc("PATCH /tasks/{id}", authGuard.RequireAuth(taskHandler.UpdateStatus))
	mux.HandleFunc("PATCH /tasks/{id}/content", authGuard.RequireAuth(taskHandler.UpdateContent))
	mux.HandleFunc("DELETE /tasks/{id}", authGuard.RequireAuth(taskHandler.Delete))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbManager.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: mux,
	}

	go func() {
		log.Info("Listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown error: %v", err)
	}
	log.Info("Server stopped")
}
