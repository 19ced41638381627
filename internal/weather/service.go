package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/models"
	"github.com/camano/tidewatch/pkg/http/client"
)

const forecastPeriodCount = 5

// Service fetches weather.gov observations and forecasts for the
// configured location. The last successful payload is kept as a
// fallback for transient provider failures.
type Service struct {
	HttpClient client.Interface
	cfg        *config.Config
	nowFn      func() time.Time

	mu          sync.RWMutex
	forecastURL string
	lastGood    *models.WeatherResponse
}

func NewService(httpClient client.Interface, cfg *config.Config) *Service {
	return &Service{
		HttpClient: httpClient,
		cfg:        cfg,
		nowFn:      time.Now,
	}
}

// GetWeather returns combined current conditions and forecast. Missing
// observation fields fall back to the first forecast period, and a
// failed fetch falls back to the last successful payload.
func (s *Service) GetWeather(ctx context.Context) (*models.WeatherResponse, error) {
	response, err := s.fetchWeather(ctx)
	if err != nil {
		s.mu.RLock()
		cached := s.lastGood
		s.mu.RUnlock()
		if cached != nil {
			log.Warn().Err(err).Msg("Weather fetch failed, serving last good payload")
			return cached, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.lastGood = response
	s.mu.Unlock()

	return response, nil
}

func (s *Service) fetchWeather(ctx context.Context) (*models.WeatherResponse, error) {
	observation := s.fetchObservations(ctx)

	forecastURL, err := s.getForecastURL(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.HttpClient.Get(ctx, forecastURL)
	if err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}

	var forecast models.GovForecastResponse
	if err := json.Unmarshal(resp.Body, &forecast); err != nil {
		return nil, fmt.Errorf("decoding forecast: %w", err)
	}

	periods := forecast.Properties.Periods
	if len(periods) == 0 {
		return nil, fmt.Errorf("forecast has no periods")
	}
	first := periods[0]

	response := &models.WeatherResponse{
		ResponseType:     "weather",
		TemperatureUnit:  "F",
		DetailedForecast: first.DetailedForecast,
		Icon:             first.Icon,
		IsDaytime:        first.IsDaytime,
		StationID:        s.cfg.WeatherStation,
		LastUpdate:       s.nowFn().Format(time.RFC3339),
	}
	if len(periods) > forecastPeriodCount {
		periods = periods[:forecastPeriodCount]
	}
	response.ForecastPeriods = periods

	// Prefer station observations; fall back to the forecast period.
	if observation != nil && observation.Temperature.Value != nil {
		temp := CelsiusToFahrenheit(*observation.Temperature.Value)
		response.Temperature = &temp
	} else {
		temp := first.Temperature
		response.Temperature = &temp
	}

	if observation != nil && observation.TextDescription != "" {
		response.Conditions = observation.TextDescription
	} else {
		response.Conditions = first.ShortForecast
	}

	if observation != nil {
		response.WindSpeed = FormatWindSpeed(observation.WindSpeed.Value)
		response.WindDirection = DegreesToCompass(observation.WindDirection.Value)
		response.WindDirectionDegrees = observation.WindDirection.Value
		response.Visibility = FormatVisibility(observation.Visibility.Value)
		response.Humidity = observation.RelativeHumidity.Value
		response.Pressure = observation.BarometricPressure.Value
		if observation.Dewpoint.Value != nil {
			dewpoint := CelsiusToFahrenheit(*observation.Dewpoint.Value)
			response.Dewpoint = &dewpoint
		}
	} else {
		response.WindSpeed = first.WindSpeed
		response.WindDirection = first.WindDirection
	}

	log.Debug().
		Interface("temperature", response.Temperature).
		Str("conditions", response.Conditions).
		Msg("Weather updated")

	return response, nil
}

func (s *Service) fetchObservations(ctx context.Context) *models.GovObservationProperties {
	resp, err := s.HttpClient.Get(ctx, fmt.Sprintf("/stations/%s/observations/latest", s.cfg.WeatherStation))
	if err != nil {
		log.Warn().Err(err).Str("station", s.cfg.WeatherStation).Msg("Fetching observations failed")
		return nil
	}

	var observation models.GovObservationResponse
	if err := json.Unmarshal(resp.Body, &observation); err != nil {
		log.Warn().Err(err).Msg("Decoding observations failed")
		return nil
	}

	return &observation.Properties
}

// getForecastURL resolves and memoizes the gridpoint forecast URL for
// the configured coordinates.
func (s *Service) getForecastURL(ctx context.Context) (string, error) {
	s.mu.RLock()
	cached := s.forecastURL
	s.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}

	resp, err := s.HttpClient.Get(ctx, fmt.Sprintf("/points/%g,%g", s.cfg.Latitude, s.cfg.Longitude))
	if err != nil {
		return "", fmt.Errorf("fetching forecast URL: %w", err)
	}

	var points models.GovPointsResponse
	if err := json.Unmarshal(resp.Body, &points); err != nil {
		return "", fmt.Errorf("decoding points response: %w", err)
	}

	if points.Properties.Forecast == "" {
		return "", fmt.Errorf("points response has no forecast URL")
	}

	s.mu.Lock()
	s.forecastURL = points.Properties.Forecast
	s.mu.Unlock()

	log.Debug().Str("forecast_url", points.Properties.Forecast).Msg("Resolved forecast URL")
	return points.Properties.Forecast, nil
}
