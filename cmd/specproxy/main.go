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

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/vendorhub/vendorhub/internal/app"
	"github.com/vendorhub/vendorhub/internal/platform/cache"
	"github.com/vendorhub/vendorhub/internal/specproxy"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	var redisClient *redis.Client
	if client, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis unavailable, running without spec cache", slog.Any("error", err))
	} else {
		redisClient = client
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	fallback, err := specproxy.LoadFallback()
	if err != nil {
		logger.Error("load fallback dataset", slog.Any("error", err))
		os.Exit(1)
	}

	svc := specproxy.NewService(specproxy.Config{
		UpstreamURL:     cfg.SpecUpstreamURL,
		UpstreamTimeout: cfg.SpecUpstreamTimeout,
		CacheTTL:        cfg.SpecCacheTTL,
	}, redisClient, fallback, logger)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("service close", slog.Any("error", err))
		}
	}()

	router := chi.NewRouter()
	for _, mw := range specproxy.MiddlewareStack(specproxy.MiddlewareConfig{
		Logger:         logger,
		RequestTimeout: cfg.ProxyRequestTimeout,
		Production:     cfg.IsProduction(),
	}) {
		router.Use(mw)
	}
	specproxy.NewHandler(svc).MountRoutes(router)

	server := &http.Server{
		Addr:         cfg.ProxyAddr,
		Handler:      router,
		ReadTimeout:  cfg.ProxyReadTimeout,
		WriteTimeout: cfg.ProxyWriteTimeout,
	}

	go func() {
		logger.Info("spec proxy listening", slog.String("addr", cfg.ProxyAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	logger.Info("spec proxy stopped")
}
