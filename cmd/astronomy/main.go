package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/api"
	"github.com/camano/tidewatch/internal/astro"
	"github.com/camano/tidewatch/internal/cache"
	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/pkg/http/client"
)

var (
	astroService *astro.Service
	setupOnce    sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		httpClient := client.New(client.Options{
			BaseURL:    cfg.USNOBaseURL,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})

		var phaseStore cache.PhaseListCacheProvider
		cacheConfig := config.GetCacheConfig()
		if cacheConfig.PhaseBucketName != "" {
			s3Client, err := cache.NewS3Client(context.Background())
			if err != nil {
				log.Warn().Err(err).Msg("S3 phase cache unavailable, running without it")
			} else {
				phaseStore = cache.NewS3PhaseCache(s3Client, cacheConfig.PhaseBucketName, cacheConfig.GetPhaseListTTL())
			}
		}

		astroService = astro.NewService(httpClient, phaseStore, cfg)
	})
}

func handleRequest(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Info().Msg("Handling astronomy request")

	response, err := astroService.GetAstronomyData(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error getting astronomy data")
		return api.Error("Error getting astronomy data", http.StatusInternalServerError)
	}

	return api.Success(response)
}

func main() {
	lambda.Start(handleRequest)
}
