package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "chatline/cmd/api/router/v1"
	"chatline/internal/auth"
	"chatline/internal/config"
	cacheAdapter "chatline/internal/infrastructure/cache/adapter"
	"chatline/internal/infrastructure/database"
	queueAdapter "chatline/internal/infrastructure/queue/adapter"
	"chatline/internal/infrastructure/realtime"
	"chatline/internal/pkg/chat/application/task"
	repoAdapter "chatline/internal/pkg/chat/persistence/repository/adapter"
	httpHandler "chatline/internal/pkg/chat/presentation/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := database.Connect(bootCtx, cfg.DatabaseURL)
	if err != nil {
		log.Error("connect database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.EnsureSchema(bootCtx, pool); err != nil {
		log.Error("apply schema", "error", err)
		os.Exit(1)
	}

	cache, err := cacheAdapter.NewRedisCache(bootCtx, cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	queueClient, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Error("create queue client", "error", err)
		os.Exit(1)
	}
	defer queueClient.Close()

	queueServer, err := queueAdapter.NewAsynqServer(cfg.RedisURL, 0, log)
	if err != nil {
		log.Error("create queue server", "error", err)
		os.Exit(1)
	}
	task.RegisterOfflineNoticeTask(queueServer, repoAdapter.NewPgNotificationRepository(pool), log)
	go func() {
		if err := queueServer.Run(ctx); err != nil {
			log.Error("queue server stopped", "error", err)
		}
	}()

	registry := realtime.NewRegistry(log)
	defer registry.Close()

	verifier := auth.NewVerifier(cfg.JWTSecret)

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, httpHandler.Deps{
		Pool:            pool,
		Cache:           cache,
		Queue:           queueClient,
		Registry:        registry,
		Verifier:        verifier,
		Log:             log,
		ProfileCacheTTL: cfg.ProfileCacheTTL,
		RequestTimeout:  cfg.RequestTimeout,
		SendTimeout:     cfg.SendTimeout,
	})

	srv := &http.Server{Addr: cfg.Addr(), Handler: r}
	go func() {
		log.Info("api listening", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", "error", err)
	}
}
