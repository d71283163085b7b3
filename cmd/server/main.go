package main

import (
	"bufio"
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"focusdock/internal/auth"
	"focusdock/internal/cache"
	"focusdock/internal/config"
	"focusdock/internal/controller"
	"focusdock/internal/database"
	"focusdock/internal/queue"
	"focusdock/internal/repository"
	"focusdock/internal/routes"
	"focusdock/internal/worker"
	"focusdock/pkg/logger"
)

func main() {
	loadEnvFile(".env")

	ctx := context.Background()
	cfg := config.Get()

	// Postgres when configured, in-memory otherwise (single-process dev mode).
	var store repository.Store
	db := database.DB(ctx)
	if db != nil {
		if err := database.EnsureSchema(ctx); err != nil {
			logger.Error(ctx, "Schema migration failed", "error", err)
			os.Exit(1)
		}
		store = repository.NewPostgresStore(db, cfg.MaxTodosPerUser)
	} else {
		logger.Warn(ctx, "DATABASE_URL not set; using in-memory store")
		store = repository.NewMemoryStore(cfg.MaxTodosPerUser)
	}

	// Pre-warm Redis (optional; cache works lazily)
	useCache := cache.Client(ctx) != nil

	// Kafka is optional too: without brokers, sessions are stored inline.
	useQueue := queue.Enabled()
	if useQueue {
		queue.Producer(ctx)
		queue.EnsureTopic(ctx)
		go worker.Run(ctx, store)
	}

	authService := auth.NewService(store, cfg.JWTSecret, cfg.TokenTTL)
	router := routes.Router(routes.Deps{
		Auth:     authService,
		Todos:    controller.NewTodoController(store, useCache),
		Sessions: controller.NewSessionController(store, useQueue),
		Accounts: controller.NewAuthController(authService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info(ctx, "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "Server shutdown error", "error", err)
	}
	logger.Info(ctx, "Server stopped")
}

// loadEnvFile reads a .env file and sets env vars (only if not already set).
func loadEnvFile(path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		if strings.HasPrefix(val, `"`) && strings.HasSuffix(val, `"`) {
			val = strings.Trim(val, `"`)
		} else if strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'") {
			val = strings.Trim(val, "'")
		}
		if key != "" && os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
}
