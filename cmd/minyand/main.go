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

	"github.com/tushy123/minyan-now/config"
	"github.com/tushy123/minyan-now/internal/api"
	"github.com/tushy123/minyan-now/internal/db"
	"github.com/tushy123/minyan-now/internal/feed"
	"github.com/tushy123/minyan-now/internal/presence"
	"github.com/tushy123/minyan-now/internal/quorum"
	"github.com/tushy123/minyan-now/internal/reconcile"
	"github.com/tushy123/minyan-now/internal/store"
	"github.com/tushy123/minyan-now/internal/zmanim"
)

func main() {
	logger := log.New(os.Stdout, "minyand ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)
	logger.Println("data store initialized")

	// Zmanim refresh service for the configured home location.
	zmanSvc := zmanim.NewService(&cfg.Zmanim)
	go zmanSvc.Run(ctx)

	// Change feed → reconciler → quorum recount pool.
	listener := feed.NewListener(cfg.Database.DSN, cfg.Feed.Channel)
	reconciler := reconcile.New(appStore, listener)
	recountPool := quorum.NewWorkerPool(cfg.WorkerPool.Size, appStore, reconciler)
	reconciler.SetRecounter(recountPool)
	recountPool.Start(ctx)
	if cfg.Feed.Enabled {
		go listener.Run(ctx)
	}
	go reconciler.Run(ctx)

	tracker := presence.NewTracker(cfg.Presence.TTL)

	zmanAPI := zmanim.NewClient(cfg.Zmanim.URL, cfg.Zmanim.Timeout)
	router := api.NewRouter(&cfg.Server, appStore, reconciler, zmanSvc, zmanAPI, tracker)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
