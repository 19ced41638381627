package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/models"
)

const tideTableName = "tide-tables-cache"

// DynamoTideCache handles caching daily tide event tables in DynamoDB
type DynamoTideCache struct {
	client DynamoDBClient
	config *config.CacheConfig
	clock  clock
}

func NewDynamoTideCache(client DynamoDBClient, cacheConfig *config.CacheConfig) *DynamoTideCache {
	if cacheConfig == nil {
		cacheConfig = config.GetCacheConfig()
	}
	return &DynamoTideCache{
		client: client,
		config: cacheConfig,
		clock:  systemClock{},
	}
}

// GetTideTable retrieves a cached event table for a station and date
func (c *DynamoTideCache) GetTideTable(ctx context.Context, stationID string, date time.Time) (*models.TideTableRecord, error) {
	dateStr := date.Format("2006-01-02")

	input := &dynamodb.GetItemInput{
		TableName: aws.String(tideTableName),
		Key: map[string]types.AttributeValue{
			"stationId": &types.AttributeValueMemberS{Value: stationID},
			"date":      &types.AttributeValueMemberS{Value: dateStr},
		},
	}

	result, err := c.client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("getting tide table from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, nil
	}

	var record models.TideTableRecord
	if err := attributevalue.UnmarshalMap(result.Item, &record); err != nil {
		return nil, fmt.Errorf("unmarshaling tide table record: %w", err)
	}

	if !c.isValid(record) {
		log.Debug().
			Str("station_id", stationID).
			Str("date", dateStr).
			Msg("Cache expired")
		return nil, nil
	}

	return &record, nil
}

// SaveTideTable saves an event table to the cache
func (c *DynamoTideCache) SaveTideTable(ctx context.Context, record models.TideTableRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid tide table record: %w", err)
	}

	now := c.clock.Now().Unix()
	record.LastUpdated = now
	record.TTL = now + int64(c.config.GetDynamoTTL().Seconds())

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling tide table record: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(tideTableName),
		Item:      item,
	}

	if _, err := c.client.PutItem(ctx, input); err != nil {
		return fmt.Errorf("putting tide table in DynamoDB: %w", err)
	}

	log.Debug().
		Str("station_id", record.StationID).
		Str("date", record.Date).
		Msg("Saved tide table to cache")

	return nil
}

// SaveTideTablesBatch saves multiple tables to the cache
func (c *DynamoTideCache) SaveTideTablesBatch(ctx context.Context, records []models.TideTableRecord) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("invalid tide table record: %w", err)
		}
	}

	batchSize := c.config.BatchSize
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := records[i:end]
		var writeRequests []types.WriteRequest

		for _, record := range batch {
			now := c.clock.Now().Unix()
			record.LastUpdated = now
			record.TTL = now + int64(c.config.GetDynamoTTL().Seconds())

			item, err := attributevalue.MarshalMap(record)
			if err != nil {
				return fmt.Errorf("marshaling tide table record: %w", err)
			}

			writeRequests = append(writeRequests, types.WriteRequest{
				PutRequest: &types.PutRequest{
					Item: item,
				},
			})
		}

		var lastErr error
		for retry := 0; retry < c.config.MaxBatchRetries; retry++ {
			input := &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{
					tideTableName: writeRequests,
				},
			}

			if _, err := c.client.BatchWriteItem(ctx, input); err != nil {
				lastErr = err
				time.Sleep(time.Duration(1<<retry) * 100 * time.Millisecond)
				continue
			}
			lastErr = nil
			break
		}
		if lastErr != nil {
			return fmt.Errorf("batch writing tide tables after %d retries: %w",
				c.config.MaxBatchRetries, lastErr)
		}
	}

	return nil
}

func (c *DynamoTideCache) isValid(record models.TideTableRecord) bool {
	return c.clock.Now().Unix() < record.TTL
}
