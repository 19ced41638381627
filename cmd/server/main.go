package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/astro"
	"github.com/camano/tidewatch/internal/cache"
	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/scheduler"
	"github.com/camano/tidewatch/internal/server"
	"github.com/camano/tidewatch/internal/tide"
	"github.com/camano/tidewatch/internal/weather"
	"github.com/camano/tidewatch/pkg/http/client"
)

func newTideTableCache(ctx context.Context) tide.TableCacheProvider {
	if os.Getenv("CACHE_TIDE_DYNAMO") != "true" {
		return cache.NewMockTideTableCache()
	}
	tableCache, err := cache.NewTideTableCache(ctx, config.GetCacheConfig())
	if err != nil {
		log.Warn().Err(err).Msg("DynamoDB tide cache unavailable, running without it")
		return cache.NewMockTideTableCache()
	}
	return tableCache
}

func newPhaseStore(ctx context.Context) cache.PhaseListCacheProvider {
	cacheConfig := config.GetCacheConfig()
	if cacheConfig.PhaseBucketName == "" {
		return nil
	}
	s3Client, err := cache.NewS3Client(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("S3 phase cache unavailable, running without it")
		return nil
	}
	return cache.NewS3PhaseCache(s3Client, cacheConfig.PhaseBucketName, cacheConfig.GetPhaseListTTL())
}

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	ctx := context.Background()

	tideService := tide.NewService(client.New(client.Options{
		BaseURL:    cfg.NOAABaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	}), newTideTableCache(ctx), cfg)

	astroService := astro.NewService(client.New(client.Options{
		BaseURL:    cfg.USNOBaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	}), newPhaseStore(ctx), cfg)

	weatherService := weather.NewService(client.New(client.Options{
		BaseURL:    cfg.WeatherBaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	}), cfg)

	refresher := scheduler.New(cfg, tideService, weatherService, astroService)
	if err := refresher.Start(); err != nil {
		log.Fatal().Err(err).Msg("Starting refresh scheduler")
	}
	defer refresher.Stop()

	app := server.New(cfg, tideService, astroService, weatherService)

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("location", cfg.LocationName).
			Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
}
