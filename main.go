package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yt-dashboard/internal/adapter"
	"yt-dashboard/internal/auth"
	"yt-dashboard/internal/cache"
	"yt-dashboard/internal/config"
	"yt-dashboard/internal/domain"
	"yt-dashboard/internal/handler"
	"yt-dashboard/internal/logger"
	"yt-dashboard/internal/middleware"
	"yt-dashboard/internal/repository/sqlite"
	"yt-dashboard/internal/service"
	"yt-dashboard/internal/task"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (ignore error if file doesn't exist)
	_ = godotenv.Load()

	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, _ := logger.ParseLevel(cfg.LogLevel)
	appLogger := logger.New(level)
	if cfg.LogFile != "" {
		if appLogger, err = logger.NewRotating(level, cfg.LogFile); err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
	}
	logger.SetGlobalLogger(appLogger)

	// Log configuration (excluding secrets)
	cfg.LogConfiguration()

	// Initialize SQLite database with WAL mode
	db, err := sqlite.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run database migrations to ensure schema is up to date
	if err := sqlite.Migrate(db.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// View state storage: sqlite behind a bounded TTL cache
	viewStateRepo := sqlite.NewViewStateRepository(db)
	stateCache, err := cache.New[*domain.ViewState](cfg.StateCacheSize, cfg.StateCacheTTL)
	if err != nil {
		log.Fatalf("Failed to create state cache: %v", err)
	}
	store := service.NewStateStore(viewStateRepo, stateCache)

	// Backend collaborator (OAuth, YouTube Data API, summaries)
	backend := adapter.NewBackendAdapter(cfg.BackendBaseURL, cfg.BackendSessionPath, cfg.BackendTimeout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background tasks
	authWatcher := task.NewAuthWatcher(backend, store, cfg.AuthPollInterval, cfg.AuthPollTimeout)
	authWatcher.Start(ctx)

	sessionCleaner := task.NewSessionCleaner(viewStateRepo, stateCache,
		time.Duration(cfg.SessionDuration)*time.Second, time.Hour)
	sessionCleaner.Start(ctx)

	dashboardService := service.NewDashboardService(backend, store, authWatcher)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, cfg.AuthPollInterval)

	mux := http.NewServeMux()
	dashboardHandler.RegisterRoutes(mux)

	sessionManager := auth.NewSessionManager(cfg.SessionCookieName, cfg.SecureCookies, cfg.SessionDuration)
	sessions := middleware.NewSessionMiddleware(sessionManager)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)

	// Configure HTTP server with timeouts to prevent resource exhaustion
	server := &http.Server{
		Addr: ":" + cfg.ServerPort,
		Handler: middleware.Chain(mux,
			middleware.RequestID,
			middleware.Logging,
			middleware.Recovery,
			rateLimiter.Middleware,
			sessions.Session,
		),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background goroutine
	go func() {
		logger.Info("Starting server", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Gracefully shutdown server with 30-second timeout
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{"error": err.Error()})
	}

	authWatcher.Stop()
	sessionCleaner.Stop()
	cancel()

	logger.Info("Server exited", nil)
}
