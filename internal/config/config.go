package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Default shore location: Maple Grove Beach, Camano Island, WA. Station
// 9447130 (Seattle) serves both predictions and observations because
// subordinate stations near the beach don't support API predictions.
const (
	DefaultLocationName       = "Maple Grove Beach, Camano Island"
	DefaultLatitude           = 48.2573
	DefaultLongitude          = -122.5167
	DefaultTimezone           = "America/Los_Angeles"
	DefaultPredictionStation  = "9447130"
	DefaultObservationStation = "9447130"
	DefaultWeatherStation     = "KNUW"
)

type Config struct {
	Environment string
	LogLevel    zerolog.Level
	HTTPTimeout time.Duration
	MaxRetries  int

	NOAABaseURL    string
	USNOBaseURL    string
	WeatherBaseURL string

	LocationName       string
	Latitude           float64
	Longitude          float64
	Timezone           string
	PredictionStation  string
	ObservationStation string
	WeatherStation     string

	// Refresh cadence for the scheduler. NOAA publishes water levels
	// every 6 minutes.
	TideRefreshInterval      time.Duration
	WeatherRefreshInterval   time.Duration
	AstronomyRefreshInterval time.Duration

	Port string
}

type Option func(*Config)

// WithEnvironment allows setting the environment
func WithEnvironment(env string) Option {
	return func(c *Config) {
		c.Environment = env
	}
}

// WithLogLevel allows setting the log level
func WithLogLevel(level string) Option {
	return func(c *Config) {
		parsedLevel, err := zerolog.ParseLevel(level)
		if err != nil {
			parsedLevel = zerolog.InfoLevel
		}
		c.LogLevel = parsedLevel
	}
}

// WithHTTPTimeout allows setting the HTTP timeout
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.HTTPTimeout = timeout
	}
}

// WithLocation allows overriding the configured shore location
func WithLocation(name string, lat, lon float64, timezone string) Option {
	return func(c *Config) {
		c.LocationName = name
		c.Latitude = lat
		c.Longitude = lon
		c.Timezone = timezone
	}
}

// WithStations allows overriding the NOAA station IDs
func WithStations(prediction, observation string) Option {
	return func(c *Config) {
		c.PredictionStation = prediction
		c.ObservationStation = observation
	}
}

// New creates a new configuration with default values
func New(opts ...Option) *Config {
	cfg := &Config{
		Environment:              "production",
		LogLevel:                 zerolog.InfoLevel,
		HTTPTimeout:              10 * time.Second,
		MaxRetries:               3,
		NOAABaseURL:              "https://api.tidesandcurrents.noaa.gov",
		USNOBaseURL:              "https://aa.usno.navy.mil/api",
		WeatherBaseURL:           "https://api.weather.gov",
		LocationName:             DefaultLocationName,
		Latitude:                 DefaultLatitude,
		Longitude:                DefaultLongitude,
		Timezone:                 DefaultTimezone,
		PredictionStation:        DefaultPredictionStation,
		ObservationStation:       DefaultObservationStation,
		WeatherStation:           DefaultWeatherStation,
		TideRefreshInterval:      6 * time.Minute,
		WeatherRefreshInterval:   10 * time.Minute,
		AstronomyRefreshInterval: 12 * time.Hour,
		Port:                     "8080",
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// InitializeLogging sets up logging based on the configuration
func (c *Config) InitializeLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(c.LogLevel)

	// Setup console logger for development environments
	if c.Environment == "local" || c.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
}

// Location resolves the configured timezone, falling back to UTC when
// the name doesn't load.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Warn().Str("timezone", c.Timezone).Msg("Unknown timezone, falling back to UTC")
		return time.UTC
	}
	return loc
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables
func LoadFromEnv() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	cfg := New(
		WithEnvironment(getEnvOrDefault("ENV", "production")),
		WithLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
		WithHTTPTimeout(getDurationEnvOrDefault("HTTP_TIMEOUT", 10*time.Second)),
		WithLocation(
			getEnvOrDefault("LOCATION_NAME", DefaultLocationName),
			getFloatEnvOrDefault("LATITUDE", DefaultLatitude),
			getFloatEnvOrDefault("LONGITUDE", DefaultLongitude),
			getEnvOrDefault("TIMEZONE", DefaultTimezone),
		),
		WithStations(
			getEnvOrDefault("NOAA_PREDICTION_STATION", DefaultPredictionStation),
			getEnvOrDefault("NOAA_OBSERVATION_STATION", DefaultObservationStation),
		),
	)
	cfg.WeatherStation = getEnvOrDefault("WEATHER_STATION", DefaultWeatherStation)
	cfg.TideRefreshInterval = getDurationEnvOrDefault("TIDE_REFRESH_INTERVAL", cfg.TideRefreshInterval)
	cfg.WeatherRefreshInterval = getDurationEnvOrDefault("WEATHER_REFRESH_INTERVAL", cfg.WeatherRefreshInterval)
	cfg.AstronomyRefreshInterval = getDurationEnvOrDefault("ASTRONOMY_REFRESH_INTERVAL", cfg.AstronomyRefreshInterval)
	cfg.Port = getEnvOrDefault("PORT", cfg.Port)

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getFloatEnvOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
