package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/zenithlab/zenith-bot/internal/bot"
	"github.com/zenithlab/zenith-bot/internal/catalog"
	"github.com/zenithlab/zenith-bot/internal/config"
	"github.com/zenithlab/zenith-bot/internal/conversation"
	"github.com/zenithlab/zenith-bot/internal/kakao"
	"github.com/zenithlab/zenith-bot/internal/logging"
	"github.com/zenithlab/zenith-bot/internal/middleware"
	"github.com/zenithlab/zenith-bot/internal/reply"
	"github.com/zenithlab/zenith-bot/internal/session"
	"github.com/zenithlab/zenith-bot/internal/store"
)

const janitorInterval = 30 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("zenith stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}

	db, err := store.Open(ctx, store.Options{
		Backend:       cfg.StoreBackend,
		DataDir:       cfg.DataDir,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		RedisPrefix:   cfg.RedisPrefix,
		DatabaseURL:   cfg.DatabaseURL,
	})
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer db.Close()

	router := conversation.NewRouter(cat, reply.NewBuilder(cat))
	sessionMgr := session.NewManager()
	limiter := middleware.NewKeyedLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	// Periodic cleanup of idle per-user locks and rate limiter buckets.
	go sessionMgr.RunJanitor(ctx, janitorInterval, cfg.SessionLockTTL, func(removed int) {
		dropped := limiter.Cleanup(cfg.SessionLockTTL)
		logger.Debug("janitor sweep", zap.Int("locks_removed", removed), zap.Int("limiters_removed", dropped))
	})

	botHandler := bot.NewHandler(db, router, sessionMgr, logger)
	webhookHandler := kakao.NewWebhookHandler(botHandler.HandleMessage, logger, kakao.WithLimiter(limiter))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newHTTPHandler(cfg, logger, webhookHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("zenith: listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("store", cfg.StoreBackend),
			zap.String("webhook", fmt.Sprintf("http://localhost:%s/webhook", cfg.Port)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}
	logger.Info("zenith: shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("zenith: stopped")
	return nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(path)
}
