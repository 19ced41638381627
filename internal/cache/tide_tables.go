package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/models"
)

// LRUCacheEntry wraps a cached tide table with its expiry.
type LRUCacheEntry struct {
	Data      *models.TideTableRecord
	ExpiresAt time.Time
}

// TideTableCache is a two-layer cache for daily tide event tables:
// an in-process LRU in front of DynamoDB.
type TideTableCache struct {
	lru          *lru.Cache[string, *LRUCacheEntry]
	dynamoCache  *DynamoTideCache
	ttl          time.Duration
	clock        clock
	lruHits      uint64
	lruMisses    uint64
	dynamoHits   uint64
	dynamoMisses uint64
}

// NewTideTableCache creates the two-layer cache from config.
func NewTideTableCache(ctx context.Context, cfg *config.CacheConfig) (*TideTableCache, error) {
	dynamoClient, err := NewDynamoClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating DynamoDB client: %w", err)
	}

	lruCache, err := lru.New[string, *LRUCacheEntry](cfg.TideTableLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &TideTableCache{
		lru:         lruCache,
		dynamoCache: NewDynamoTideCache(dynamoClient, cfg),
		ttl:         cfg.GetTideTableLRUTTL(),
		clock:       systemClock{},
	}, nil
}

// getCacheKey generates a unique cache key for a station and date
func getCacheKey(stationID string, date time.Time) string {
	return fmt.Sprintf("%s:%s", stationID, date.Format("2006-01-02"))
}

// GetTideTable tries the LRU layer first, then DynamoDB.
func (c *TideTableCache) GetTideTable(ctx context.Context, stationID string, date time.Time) (*models.TideTableRecord, error) {
	key := getCacheKey(stationID, date)
	if entry, ok := c.lru.Get(key); ok {
		if c.clock.Now().Before(entry.ExpiresAt) {
			c.lruHits++
			return entry.Data, nil
		}
		c.lru.Remove(key)
	}
	c.lruMisses++

	record, err := c.dynamoCache.GetTideTable(ctx, stationID, date)
	if err != nil {
		return nil, fmt.Errorf("getting tide table from DynamoDB: %w", err)
	}

	if record != nil {
		c.dynamoHits++
		c.lru.Add(key, &LRUCacheEntry{
			Data:      record,
			ExpiresAt: c.clock.Now().Add(c.ttl),
		})
		return record, nil
	}
	c.dynamoMisses++

	return nil, nil
}

// SaveTideTable saves a table to both layers.
func (c *TideTableCache) SaveTideTable(ctx context.Context, record models.TideTableRecord) error {
	date, err := time.Parse("2006-01-02", record.Date)
	if err != nil {
		return fmt.Errorf("parsing date: %w", err)
	}

	key := getCacheKey(record.StationID, date)
	c.lru.Add(key, &LRUCacheEntry{
		Data:      &record,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})

	if err := c.dynamoCache.SaveTideTable(ctx, record); err != nil {
		return fmt.Errorf("saving tide table to DynamoDB: %w", err)
	}

	return nil
}

// SaveTideTablesBatch saves a set of per-day tables to both layers.
func (c *TideTableCache) SaveTideTablesBatch(ctx context.Context, records []models.TideTableRecord) error {
	for i := range records {
		date, err := time.Parse("2006-01-02", records[i].Date)
		if err != nil {
			return fmt.Errorf("parsing date: %w", err)
		}

		c.lru.Add(getCacheKey(records[i].StationID, date), &LRUCacheEntry{
			Data:      &records[i],
			ExpiresAt: c.clock.Now().Add(c.ttl),
		})
	}

	if err := c.dynamoCache.SaveTideTablesBatch(ctx, records); err != nil {
		return fmt.Errorf("batch saving tide tables to DynamoDB: %w", err)
	}

	return nil
}

// GetCacheStats returns statistics about cache hits and misses
func (c *TideTableCache) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":      c.lruHits,
		"lru_misses":    c.lruMisses,
		"dynamo_hits":   c.dynamoHits,
		"dynamo_misses": c.dynamoMisses,
	}
}

// Clear removes all entries from the LRU layer.
func (c *TideTableCache) Clear() {
	c.lru.Purge()
}
