package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/api"
	"github.com/camano/tidewatch/internal/cache"
	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/tide"
	"github.com/camano/tidewatch/pkg/http/client"
)

var (
	tideService *tide.Service
	setupOnce   sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		httpClient := client.New(client.Options{
			BaseURL:    cfg.NOAABaseURL,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})

		ctx := context.Background()
		tableCache, err := cache.NewTideTableCache(ctx, config.GetCacheConfig())
		if err != nil {
			log.Warn().Err(err).Msg("DynamoDB tide cache unavailable, running without it")
			tideService = tide.NewService(httpClient, cache.NewMockTideTableCache(), cfg)
			return
		}

		tideService = tide.NewService(httpClient, tableCache, cfg)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters
	log.Info().Msg("Handling tides request")

	if _, ok := params["current"]; ok {
		sample, err := tideService.GetCurrentWaterLevel(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Error getting current water level")
			return api.Error("Error getting current water level", http.StatusInternalServerError)
		}
		if sample == nil {
			return api.Error("No current data available", http.StatusNotFound)
		}
		return api.Success(sample)
	}

	if _, ok := params["predictions"]; ok {
		days := api.ParseDays(params, 7, 30)
		predictions, err := tideService.GetTideEvents(ctx, days)
		if err != nil {
			log.Error().Err(err).Msg("Error getting tide predictions")
			return api.Error("Error getting tide predictions", http.StatusInternalServerError)
		}
		return api.Success(predictions)
	}

	response, err := tideService.GetAllTideData(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error getting tide data")
		return api.Error("Error getting tide data", http.StatusInternalServerError)
	}

	return api.Success(response)
}

func main() {
	lambda.Start(handleRequest)
}
