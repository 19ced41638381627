package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU Cache settings
	TideTableLRUSize       int
	TideTableLRUTTLMinutes int

	// DynamoDB Cache settings
	TideTableDynamoTTLDays int

	// S3 moon phase cache settings
	PhaseBucketName  string
	PhaseListTTLDays int

	// Batch processing settings
	BatchSize       int
	MaxBatchRetries int
}

const (
	// Default values
	defaultTideTableLRUSize    = 1000
	defaultTideTableTTLMinutes = 15
	defaultDynamoTTLDays       = 7
	defaultPhaseListTTLDays    = 30
	defaultBatchSize           = 25
	defaultMaxBatchRetries     = 3
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		TideTableLRUSize:       getEnvInt("CACHE_TIDE_LRU_SIZE", defaultTideTableLRUSize),
		TideTableLRUTTLMinutes: getEnvInt("CACHE_TIDE_LRU_TTL_MINUTES", defaultTideTableTTLMinutes),
		TideTableDynamoTTLDays: getEnvInt("CACHE_DYNAMO_TTL_DAYS", defaultDynamoTTLDays),
		PhaseBucketName:        os.Getenv("CACHE_PHASE_BUCKET"),
		PhaseListTTLDays:       getEnvInt("CACHE_PHASE_TTL_DAYS", defaultPhaseListTTLDays),
		BatchSize:              getEnvInt("CACHE_BATCH_SIZE", defaultBatchSize),
		MaxBatchRetries:        getEnvInt("CACHE_MAX_BATCH_RETRIES", defaultMaxBatchRetries),
	}

	log.Debug().
		Int("TideTableLRUSize", config.TideTableLRUSize).
		Int("TideTableLRUTTLMinutes", config.TideTableLRUTTLMinutes).
		Int("TideTableDynamoTTLDays", config.TideTableDynamoTTLDays).
		Str("PhaseBucketName", config.PhaseBucketName).
		Int("PhaseListTTLDays", config.PhaseListTTLDays).
		Int("BatchSize", config.BatchSize).
		Int("MaxBatchRetries", config.MaxBatchRetries).
		Msg("Cache configuration loaded")

	return config
}

// Helper methods for the CacheConfig struct
func (c *CacheConfig) GetTideTableLRUTTL() time.Duration {
	return time.Duration(c.TideTableLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetDynamoTTL() time.Duration {
	return time.Duration(c.TideTableDynamoTTLDays) * 24 * time.Hour
}

func (c *CacheConfig) GetPhaseListTTL() time.Duration {
	return time.Duration(c.PhaseListTTLDays) * 24 * time.Hour
}

// Helper functions to get environment variables with defaults
func getEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
		log.Warn().Str("key", key).Msg("Invalid integer value in environment variable, using default")
	}
	return defaultVal
}
