package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amadcodez/vendor-ready/cart"
	"github.com/amadcodez/vendor-ready/config"
	orderControllers "github.com/amadcodez/vendor-ready/controllers/order"
	"github.com/amadcodez/vendor-ready/middleware"
	"github.com/amadcodez/vendor-ready/notify"
	"github.com/amadcodez/vendor-ready/orders"
	"github.com/amadcodez/vendor-ready/repository"
	"github.com/amadcodez/vendor-ready/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, err := openRepository(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize repository", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}

	var rdb *redis.Client
	if cfg.CartBackend == "redis" || cfg.QueueBackend == "redis" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			slog.Error("Failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
	}

	carts, err := openCartBackend(cfg, rdb)
	if err != nil {
		slog.Error("Failed to initialize cart backend", "backend", cfg.CartBackend, "error", err)
		os.Exit(1)
	}

	var queue notify.Queue = notify.NewChannelQueue(cfg.QueueSize)
	if cfg.QueueBackend == "redis" {
		queue = notify.NewRedisQueue(rdb, "")
	}

	var mailer notify.Mailer = notify.LogMailer{}
	if cfg.SMTPEnabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.EmailFrom)
	} else {
		slog.Warn("SMTP not configured. Order confirmations will only be logged.")
	}

	worker := notify.NewWorker(queue, mailer, notify.WorkerConfig{
		Workers:        cfg.NotifyWorkers,
		MaxAttempts:    cfg.NotifyAttempts,
		AttemptTimeout: cfg.NotifyTimeout,
	})
	workerDone := make(chan struct{})
	go func() {
		worker.Run(ctx)
		close(workerDone)
	}()

	hub := orderControllers.NewHub()
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				rateLimiter.Cleanup(now)
			case <-ctx.Done():
				return
			}
		}
	}()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !allowsAny(cfg.AllowOrigins),
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Repo:        repo,
		Orders:      orders.NewService(repo, queue, orders.WithPublisher(hub)),
		Carts:       carts,
		Hub:         hub,
		RateLimiter: rateLimiter,
		JWTSecret:   cfg.JWTSecret,
		TokenTTL:    cfg.TokenTTL,
		AdminAPIKey: cfg.AdminAPIKey,

		MaxOrderBytes: cfg.MaxOrderBytes,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "store_backend", cfg.Backend, "cart_backend", cfg.CartBackend, "queue_backend", cfg.QueueBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	hub.Close()

	// Stop the email workers only after in-flight requests have enqueued.
	cancel()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		slog.Warn("Notification workers did not stop in time")
	}

	if err := repo.Close(shutdownCtx); err != nil {
		slog.Error("Failed to close repository", "error", err)
	}
	if rdb != nil {
		rdb.Close()
	}
	slog.Info("Server exited gracefully.")
}

func openRepository(ctx context.Context, cfg *config.Config) (repository.Repository, error) {
	switch cfg.Backend {
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return repository.ConnectMongo(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	case "postgres":
		return repository.OpenPostgres(cfg.DatabaseURL)
	case "memory":
		slog.Warn("Using in-memory repository. Orders are lost on restart.")
		return repository.NewMemoryRepository(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func openCartBackend(cfg *config.Config, rdb *redis.Client) (cart.Backend, error) {
	switch cfg.CartBackend {
	case "redis":
		return cart.NewRedisBackend(rdb, cfg.CartTTL), nil
	case "file":
		return cart.NewFileBackend(cfg.CartDir)
	case "memory":
		return cart.NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("unknown cart backend %q", cfg.CartBackend)
}

func allowsAny(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
