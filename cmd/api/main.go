package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bombom/internal/adapter/repo"
	"bombom/internal/http/handlers"
	httpapi "bombom/internal/http/httpapi"
	"bombom/internal/infra"
	"bombom/internal/infra/geoip"
	"bombom/internal/orders"
	"bombom/internal/prompt"
	"bombom/internal/providers/fal"
	"bombom/internal/providers/image"
	"bombom/internal/providers/stability"
	"bombom/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		resolver = nil
	}

	var store *storage.FileStore
	if cfg.StoragePath != "" {
		if store, err = storage.NewFileStore(cfg.StoragePath); err != nil {
			logger.Fatal().Err(err).Msg("failed to init file store")
		}
	}

	generator := newGenerator(cfg, &logger)
	logger.Info().Str("provider", generator.Name()).Msg("image provider configured")

	orderRepo := repo.NewOrderRepository(dbpool)
	catalogRepo := repo.NewCatalogRepository(dbpool)

	app := &handlers.App{
		Config:    cfg,
		Logger:    logger,
		Builder:   prompt.NewBuilder(prompt.Layout{GanachePercent: cfg.GanachePercent, JamPercent: cfg.JamPercent}),
		Generator: generator,
		Relay:     orders.NewRelay(orderRepo, store),
		Orders:    orderRepo,
		Catalog:   catalogRepo,
		Store:     store,
	}

	router := httpapi.NewRouter(app, resolver)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// newGenerator selects the configured provider. LoadConfig already rejected
// unknown values, so the default branch is unreachable in practice.
func newGenerator(cfg *infra.Config, logger *infra.Logger) image.Generator {
	switch cfg.ImageProvider {
	case "fal":
		return fal.NewClient(fal.Options{
			APIKey:         cfg.FalAPIKey,
			BaseURL:        cfg.FalBaseURL,
			ModelPath:      cfg.FalModelPath,
			Logger:         logger,
			RequestTimeout: cfg.ProviderTimeout,
		})
	default:
		return stability.NewClient(stability.Options{
			APIKey:         cfg.StabilityAPIKey,
			APIHost:        cfg.StabilityAPIHost,
			EndpointPath:   cfg.StabilityEndpoint,
			Logger:         logger,
			RequestTimeout: cfg.ProviderTimeout,
		})
	}
}
