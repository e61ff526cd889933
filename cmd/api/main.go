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

	"github.com/Pratham1708/lyftr-ai-backend/internal/cache"
	cacheredis "github.com/Pratham1708/lyftr-ai-backend/internal/cache/redis"
	"github.com/Pratham1708/lyftr-ai-backend/internal/config"
	"github.com/Pratham1708/lyftr-ai-backend/internal/db/gormdb"
	domain "github.com/Pratham1708/lyftr-ai-backend/internal/domain/message"
	"github.com/Pratham1708/lyftr-ai-backend/internal/handler"
	"github.com/Pratham1708/lyftr-ai-backend/internal/logging"
	"github.com/Pratham1708/lyftr-ai-backend/internal/metrics"
	mesgRepo "github.com/Pratham1708/lyftr-ai-backend/internal/repository/gorm/message"
	memRepo "github.com/Pratham1708/lyftr-ai-backend/internal/repository/memory/message"
	routes "github.com/Pratham1708/lyftr-ai-backend/internal/router"
	"github.com/Pratham1708/lyftr-ai-backend/internal/scheduler"
	"github.com/Pratham1708/lyftr-ai-backend/internal/server"
	"github.com/Pratham1708/lyftr-ai-backend/internal/service"
)

func main() {
	// Base context for the whole application lifetime.
	rootCtx := context.Background()

	// Load configuration from environment/.env.
	cfg := config.New()

	// Structured logger for the request path.
	appLogger, err := logging.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	// Metrics registry, injected into middleware and handlers.
	registry := metrics.NewRegistry(cfg.Metrics.Enabled)

	// Init cache. The cache is optional: without Redis the stats snapshot
	// is simply recomputed per request.
	var statsCache cache.Cache
	if cfg.Redis.Addr != "" {
		rc := cacheredis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := rc.Ping(rootCtx); err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		statsCache = rc
	} else {
		log.Println("[Main] REDIS_ADDR not set, running without stats cache.")
	}

	// Init storage.
	var repo domain.Repository
	switch cfg.DB.Driver {
	case "memory":
		repo = memRepo.NewRepository()
		log.Println("[Main] Using in-memory message store.")
	default:
		adapter, err := gormdb.New(cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("failed to connect db: %v", err)
		}
		gormRepo := mesgRepo.NewRepository(adapter)
		if err := gormRepo.Migrate(); err != nil {
			log.Fatalf("failed to migrate messages table: %v", err)
		}
		repo = gormRepo
	}

	// Service layer.
	msgSvc := service.NewMessageService(repo, statsCache, cfg.Stats.CacheTTL)

	// Background stats refresher keeps the cached snapshot warm. Only
	// useful when a cache is present.
	var refresher scheduler.RefresherService
	if statsCache != nil {
		refresher = scheduler.NewRefresherService(
			msgSvc,
			cfg.Stats.RefreshInterval,
			cfg.Stats.RefreshTimeout,
		)
	}

	if cfg.Webhook.Secret == "" {
		log.Println("[Main] WEBHOOK_SECRET is not set; all webhooks will be rejected until it is configured.")
	}

	// HTTP dependencies & server wiring.
	deps := routes.AppDeps{
		Home:    handler.NewHomeHandler(msgSvc, cfg.Webhook.Secret != "", registry),
		Webhook: handler.NewWebhookHandler(msgSvc, cfg.Webhook.Secret, appLogger, registry),
		Message: handler.NewMessageHandler(msgSvc, cfg.Pagination.DefaultLimit, cfg.Pagination.MaxLimit),
	}

	addr := fmt.Sprintf("%s:%s", cfg.API.Host, cfg.API.Port)
	srv := server.New(addr, deps, appLogger, registry)

	// Create a context that is cancelled on SIGINT/SIGTERM (Ctrl+C, docker stop etc.).
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the HTTP server in a separate goroutine so we can listen for signals.
	go func() {
		log.Printf("HTTP server listening on %s", addr)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	if refresher != nil {
		if err := refresher.Start(); err != nil {
			log.Fatalf("Stats refresher error: %v", err)
		}
		log.Println("[Main] Stats refresher started.")
	}

	// Block until we receive a shutdown signal.
	<-ctx.Done()
	log.Println("[Main] Shutdown signal received, starting graceful shutdown...")

	// Give components some time to shut down cleanly.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if refresher != nil {
		log.Println("[Main] Stopping stats refresher...")
		if err := refresher.Stop(); err != nil {
			log.Printf("[Main] Stats refresher stop failed: %v", err)
		} else {
			log.Println("[Main] Stats refresher stopped.")
		}
	}

	// Gracefully shut down the HTTP server.
	log.Println("[Main] Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Main] HTTP server graceful shutdown failed: %v", err)
	} else {
		log.Println("[Main] HTTP server stopped.")
	}

	log.Println("[Main] Shutdown complete.")
}
