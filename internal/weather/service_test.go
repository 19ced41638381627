package weather

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/pkg/http/client"
)

const observationBody = `{
	"properties": {
		"timestamp": "2025-06-15T18:53:00+00:00",
		"textDescription": "Partly Cloudy",
		"temperature": {"value": 20.0, "unitCode": "wmoUnit:degC"},
		"dewpoint": {"value": 10.0, "unitCode": "wmoUnit:degC"},
		"windSpeed": {"value": 5.0, "unitCode": "wmoUnit:m_s-1"},
		"windDirection": {"value": 225.0, "unitCode": "wmoUnit:degree_(angle)"},
		"visibility": {"value": 16093.4, "unitCode": "wmoUnit:m"},
		"relativeHumidity": {"value": 62.5, "unitCode": "wmoUnit:percent"},
		"barometricPressure": {"value": 101830.0, "unitCode": "wmoUnit:Pa"}
	}
}`

const pointsBody = `{
	"properties": {
		"forecast": "https://api.weather.gov/gridpoints/SEW/123,68/forecast"
	}
}`

const forecastBody = `{
	"properties": {
		"periods": [
			{"name": "Today", "temperature": 72, "temperatureUnit": "F", "windSpeed": "10 mph", "windDirection": "SW", "shortForecast": "Sunny", "detailedForecast": "Sunny, with a high near 72.", "icon": "https://api.weather.gov/icons/land/day/few", "isDaytime": true},
			{"name": "Tonight", "temperature": 55, "temperatureUnit": "F", "windSpeed": "5 mph", "windDirection": "S", "shortForecast": "Clear", "detailedForecast": "Clear overnight.", "icon": "https://api.weather.gov/icons/land/night/few", "isDaytime": false},
			{"name": "Monday", "temperature": 70, "temperatureUnit": "F"},
			{"name": "Monday Night", "temperature": 54, "temperatureUnit": "F"},
			{"name": "Tuesday", "temperature": 69, "temperatureUnit": "F"},
			{"name": "Tuesday Night", "temperature": 53, "temperatureUnit": "F"},
			{"name": "Wednesday", "temperature": 71, "temperatureUnit": "F"}
		]
	}
}`

// stubWeatherClient routes the three weather.gov endpoints to canned
// bodies, with per-route error overrides.
type stubWeatherClient struct {
	observationErr bool
	pointsErr      bool
	forecastErr    bool
	requests       []string
}

func (c *stubWeatherClient) get(_ context.Context, path string) (*client.Response, error) {
	c.requests = append(c.requests, path)
	switch {
	case strings.Contains(path, "/observations/latest"):
		if c.observationErr {
			return nil, errors.New("observations unavailable")
		}
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(observationBody)}, nil
	case strings.HasPrefix(path, "/points/"):
		if c.pointsErr {
			return nil, errors.New("points unavailable")
		}
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(pointsBody)}, nil
	default:
		if c.forecastErr {
			return nil, errors.New("forecast unavailable")
		}
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(forecastBody)}, nil
	}
}

func newWeatherService(stub *stubWeatherClient) *Service {
	return NewService(&client.Client{GetFunc: stub.get}, config.New())
}

func TestGetWeatherPrefersObservations(t *testing.T) {
	stub := &stubWeatherClient{}
	service := newWeatherService(stub)

	response, err := service.GetWeather(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "weather", response.ResponseType)

	// Observed 20C beats the forecast's 72F
	require.NotNil(t, response.Temperature)
	assert.Equal(t, 68, *response.Temperature)
	assert.Equal(t, "Partly Cloudy", response.Conditions)
	assert.Equal(t, "11 mph", response.WindSpeed)
	assert.Equal(t, "SW", response.WindDirection)
	assert.Equal(t, "10.0 mi", response.Visibility)
	require.NotNil(t, response.Dewpoint)
	assert.Equal(t, 50, *response.Dewpoint)
	require.NotNil(t, response.Humidity)
	assert.Equal(t, 62.5, *response.Humidity)

	assert.Equal(t, "Sunny, with a high near 72.", response.DetailedForecast)
	assert.True(t, response.IsDaytime)
	assert.Len(t, response.ForecastPeriods, 5)
	assert.Equal(t, "KNUW", response.StationID)
}

func TestGetWeatherFallsBackToForecastPeriod(t *testing.T) {
	stub := &stubWeatherClient{observationErr: true}
	service := newWeatherService(stub)

	response, err := service.GetWeather(context.Background())
	require.NoError(t, err)

	require.NotNil(t, response.Temperature)
	assert.Equal(t, 72, *response.Temperature)
	assert.Equal(t, "Sunny", response.Conditions)
	assert.Equal(t, "10 mph", response.WindSpeed)
	assert.Equal(t, "SW", response.WindDirection)
	assert.Nil(t, response.WindDirectionDegrees)
}

func TestGetWeatherMemoizesForecastURL(t *testing.T) {
	stub := &stubWeatherClient{}
	service := newWeatherService(stub)

	_, err := service.GetWeather(context.Background())
	require.NoError(t, err)
	_, err = service.GetWeather(context.Background())
	require.NoError(t, err)

	pointsCalls := 0
	for _, path := range stub.requests {
		if strings.HasPrefix(path, "/points/") {
			pointsCalls++
		}
	}
	assert.Equal(t, 1, pointsCalls)
}

func TestGetWeatherServesLastGoodOnFailure(t *testing.T) {
	stub := &stubWeatherClient{}
	service := newWeatherService(stub)

	first, err := service.GetWeather(context.Background())
	require.NoError(t, err)

	stub.forecastErr = true
	second, err := service.GetWeather(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetWeatherErrorWithoutFallback(t *testing.T) {
	stub := &stubWeatherClient{pointsErr: true}
	service := newWeatherService(stub)

	_, err := service.GetWeather(context.Background())
	require.Error(t, err)
}
