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

	"github.com/joho/godotenv"
	"github.com/namsral/flag"

	"bingo-cards-backend/config"
	"bingo-cards-backend/internal/api"
	"bingo-cards-backend/internal/db"
	"bingo-cards-backend/internal/hub"
	"bingo-cards-backend/internal/logger"
	"bingo-cards-backend/internal/mw"
	"bingo-cards-backend/internal/store"
	"bingo-cards-backend/internal/sweeper"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading environment variables")
	}

	// Flags may also be set through the environment, e.g. CONFIG_PATH.
	var (
		configPath = flag.String("config_path", "./config/config.yaml", "Path to the YAML configuration file.")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", *configPath, err)
	}

	sugar, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer sugar.Sync()
	sugar.Infow("configuration loaded", "path", *configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database, sugar)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	watchers := hub.New(sugar.Named("hub"))

	handler := api.NewHandler(appStore, watchers, api.Options{
		Generator:      cfg.Generator,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		AllowedOrigins: cfg.Server.CORSOrigins,
		Cache:          mw.NewResponseCache(cfg.Server.CacheTTL()),
		Log:            sugar.Named("api"),
	})
	router := api.NewRouter(handler, cfg.Server, sugar.Named("http"))

	sweeperSvc := sweeper.NewService(cfg.Retention, appStore, sugar.Named("sweeper"))
	sweeperSvc.OnPurge(handler.Evict)
	go sweeperSvc.Run(ctx)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		sugar.Infow("HTTP server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("HTTP server ListenAndServe", "error", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	sugar.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		sugar.Fatalw("HTTP server Shutdown", "error", err)
	}

	sugar.Info("server gracefully stopped")
}
