package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/storeops/toast-exports/internal/api"
	"github.com/storeops/toast-exports/internal/api/handlers"
	"github.com/storeops/toast-exports/internal/archive"
	"github.com/storeops/toast-exports/internal/cache"
	"github.com/storeops/toast-exports/internal/config"
	"github.com/storeops/toast-exports/internal/refdata"
	"github.com/storeops/toast-exports/internal/repository/postgres"
	"github.com/storeops/toast-exports/internal/service"
	"github.com/storeops/toast-exports/internal/toast"
	"github.com/storeops/toast-exports/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.EnsureSchema(context.Background()); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to ensure schema")
	}
	repo := postgres.NewSummaryRepository(db)

	locations, err := config.LoadLocations(cfg.App.LocationsFile)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load locations")
	}

	var refCache *cache.RefData
	if cfg.Cache.Enabled {
		refCache, err = cache.NewRefData(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("cache unavailable, running uncached")
			refCache = nil
		}
	}

	var arc *archive.Store
	if cfg.Archive.Enabled {
		arc, err = archive.New(context.Background(), archive.Config{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to archive")
		}
	}

	client := toast.NewClient(toast.Config{
		BaseURL:           cfg.Toast.BaseURL,
		ClientID:          cfg.Toast.ClientID,
		ClientSecret:      cfg.Toast.ClientSecret,
		RequestsPerSecond: cfg.Toast.RequestsPerSecond,
	})
	resolver := refdata.NewResolver(client, refCache)
	runner := service.NewRunner(client, resolver, repo, arc, cfg.App.StoreConcurrency)

	// Initialize HTTP server
	handler := handlers.NewSummaryHandler(runner, repo, refCache, arc, locations)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
