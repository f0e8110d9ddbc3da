package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ranganmag-api/internal/api"
	"github.com/ranganmag-api/internal/blob"
	"github.com/ranganmag-api/internal/config"
	"github.com/ranganmag-api/internal/repository"
	"github.com/ranganmag-api/internal/service"
	"github.com/ranganmag-api/internal/sitegen"
	"github.com/ranganmag-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log := logger.New(config.LogConfig{Level: "info"})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info().Str("env", cfg.Environment).Str("store", cfg.Storage.Driver).Msg("Starting Ranganmag API server...")

	// Open the article store
	store, closeStore, err := repository.Open(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open article store")
	}
	defer closeStore()

	if err := store.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize article store")
	}

	// Upload directory
	files, err := blob.NewReceiver(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare upload directory")
	}

	// Initialize services
	services := service.NewServices(store, files, cfg, log)

	regen, err := newRegenerator(cfg, services, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up site regeneration")
	}
	services.Site.SetRegenerator(regen)

	// Start site regeneration worker
	services.Site.Start(context.Background())
	services.Site.Trigger("startup")

	// Initialize router
	router := api.NewRouter(services, cfg, log)
	handler, err := api.Compress(router)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up response compression")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("port", cfg.Server.Port).
			Str("uploads", cfg.Storage.UploadDir).
			Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop regeneration worker
	services.Site.Stop()

	log.Info().Msg("Server exited gracefully")
}

// newRegenerator returns the external command when one is configured and the
// in-process generator otherwise
func newRegenerator(cfg *config.Config, services *service.Services, log zerolog.Logger) (service.Regenerator, error) {
	if cfg.Site.Command != "" {
		log.Info().Str("command", cfg.Site.Command).Str("dir", cfg.Site.CommandDir).Msg("Using external site command")
		return sitegen.NewCommandRegenerator(cfg.Site.Command, cfg.Site.CommandDir, log), nil
	}

	meta, err := sitegen.LoadMeta(cfg.Site.ConfigFile)
	if err != nil {
		return nil, err
	}
	gen, err := sitegen.NewGenerator(services.Article, cfg.Site.OutputDir, meta, log)
	if err != nil {
		return nil, err
	}
	return gen, nil
}
