package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mealmate/backend/internal/cache"
	"mealmate/backend/internal/config"
	"mealmate/backend/internal/db"
	"mealmate/backend/internal/server"
	"mealmate/backend/internal/store"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("database ping failed: %v", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			log.Fatalf("database migration failed: %v", err)
		}
	}

	completionCache, err := cache.New(cfg.RedisURL, time.Duration(cfg.AICacheTTLSeconds)*time.Second)
	if err != nil {
		log.Fatalf("redis config invalid: %v", err)
	}
	if completionCache != nil {
		if err := completionCache.Ping(ctx); err != nil {
			// The app works without the cache; every AI call just goes upstream.
			log.Printf("redis unreachable, continuing without cache: %v", err)
		}
		defer completionCache.Close()
	}

	var aiClient server.AIClient
	if strings.EqualFold(strings.TrimSpace(cfg.AIProvider), "mock") {
		aiClient = server.MockAIClient{}
	} else {
		aiClient = server.NewOpenRouterClient(cfg)
	}

	app := server.New(cfg, store.New(pool), aiClient, completionCache)
	httpServer := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("mealmate api listening on http://localhost:%s", cfg.AppPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
