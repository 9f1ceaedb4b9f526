package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bilingual-chat-demo/backend/internal/models"
	"bilingual-chat-demo/backend/pkg/config"
	"bilingual-chat-demo/backend/pkg/di"
	"bilingual-chat-demo/backend/pkg/logger"
	"bilingual-chat-demo/backend/pkg/router"
	"bilingual-chat-demo/backend/shared/observability"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg := config.New()

	// Initialize structured logger
	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application", "env", cfg.Server.Env)

	// Tracing and metrics
	stopTracing, err := observability.SetupTracing("lingua-chat-backend", log)
	if err != nil {
		log.LogError(err, "Failed to initialize tracing")
		os.Exit(1)
	}
	defer stopTracing()
	if _, err := observability.SetupPrometheusMetrics(getMetricsAddr(), log); err != nil {
		log.LogError(err, "Failed to initialize metrics")
		os.Exit(1)
	}

	// Initialize database
	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	if err := config.TestConnection(db); err != nil {
		log.LogError(err, "Database ping failed")
		os.Exit(1)
	}

	// Auto-migrate the schema
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserPreference{},
		&models.Room{},
		&models.RoomMember{},
		&models.Message{},
	); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Composite index the history query walks
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_room_created ON messages(room_id, created_at)").Error; err != nil {
		log.LogError(err, "Failed to create message index", "index", "idx_messages_room_created")
	}

	useBus := os.Getenv("REDIS_ENABLED") != "false"
	container, err := di.New(db, cfg, log, useBus)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}
	defer container.Close()

	// Live delivery: the hub routes messages to this instance's clients,
	// the bus subscription feeds it messages published by any instance
	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()
	go container.Hub.Run(runCtx)
	if container.Bus != nil {
		if err := container.Bus.Ping(runCtx); err != nil {
			log.LogError(err, "Redis unreachable, live fan-out degraded to this instance only")
		}
		go func() {
			if err := container.Bus.Subscribe(runCtx, container.Hub.DeliverRaw); err != nil && runCtx.Err() == nil {
				log.LogError(err, "Message bus subscription ended")
			}
		}()
	}

	// Initialize and setup router
	r := router.New(container)
	r.SetupRoutes()
	r.AddOpenAPIValidation(cfg.OpenAPI.SchemaPath)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	// Start the server in a goroutine
	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopRun()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited gracefully")
}

func getMetricsAddr() string {
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		return addr
	}
	return ":2112"
}
