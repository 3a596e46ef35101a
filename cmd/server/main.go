package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"memorylocker/internal/config"
	"memorylocker/internal/domain/auth"
	"memorylocker/internal/domain/journal"
	"memorylocker/internal/domain/media"
	"memorylocker/internal/infrastructure/logger"
	"memorylocker/internal/infrastructure/observability"
	"memorylocker/internal/infrastructure/recordstore"
	"memorylocker/internal/infrastructure/storage"
	"memorylocker/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	blobs, err := newStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize storage")
	}

	backend, err := newRecordBackend(cfg, blobs, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize record store")
	}

	gate := auth.NewGate(cfg, log)
	normalizer := media.NewNormalizer(log)
	service := journal.NewService(cfg, backend, blobs, normalizer, log)

	if err := service.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("bootstrap journal")
	}

	httpServer := httpserver.New(cfg, log, service, gate, blobs)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func newStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storage.Storage, error) {
	if cfg.IsS3Storage() {
		return storage.NewS3Storage(ctx, cfg, log)
	}
	return storage.NewLocalStorage(cfg, log)
}

// newRecordBackend places the collection documents next to the media: on
// local disk for the local backend, in the blob store otherwise.
func newRecordBackend(cfg *config.Config, blobs storage.Storage, log zerolog.Logger) (recordstore.Backend, error) {
	if cfg.IsS3Storage() {
		return recordstore.NewBlobBackend(blobs, "journal", log), nil
	}
	return recordstore.NewFileBackend(cfg.DataDir, log)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
