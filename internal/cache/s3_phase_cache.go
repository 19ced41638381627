package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/models"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3PhaseCache stores a whole year's moon phase table in S3 so process
// restarts don't have to re-fetch the USNO yearly list.
type S3PhaseCache struct {
	client     S3Client
	bucketName string
	ttl        time.Duration
	clock      clock
}

// PhaseListCacheRecord is the serialized yearly table with metadata.
type PhaseListCacheRecord struct {
	Year        int                     `json:"year"`
	Phases      []models.MoonPhaseEvent `json:"phases"`
	LastUpdated int64                   `json:"lastUpdated"`
	TTL         int64                   `json:"ttl"`
}

// PhaseListCacheProvider defines the interface for yearly phase caching
type PhaseListCacheProvider interface {
	GetPhases(ctx context.Context, year int) ([]models.MoonPhaseEvent, error)
	SavePhases(ctx context.Context, year int, phases []models.MoonPhaseEvent) error
}

func NewS3PhaseCache(client S3Client, bucketName string, ttl time.Duration) *S3PhaseCache {
	return &S3PhaseCache{
		client:     client,
		bucketName: bucketName,
		ttl:        ttl,
		clock:      systemClock{},
	}
}

func phaseCacheKey(year int) string {
	return fmt.Sprintf("moon-phases-%d.json", year)
}

// GetPhases retrieves the cached yearly table if present and unexpired.
func (c *S3PhaseCache) GetPhases(ctx context.Context, year int) ([]models.MoonPhaseEvent, error) {
	if c.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(phaseCacheKey(year)),
	})
	if err != nil {
		// Absent object is a miss, not an error
		return nil, nil
	}
	defer func(body io.ReadCloser) {
		if closeErr := body.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record PhaseListCacheRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding phase cache record: %w", err)
	}

	if c.clock.Now().Unix() > record.TTL {
		log.Debug().Int("year", year).Msg("Moon phase cache expired")
		return nil, nil
	}

	return record.Phases, nil
}

// SavePhases writes the yearly table to S3.
func (c *S3PhaseCache) SavePhases(ctx context.Context, year int, phases []models.MoonPhaseEvent) error {
	if c.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	now := c.clock.Now().Unix()
	record := PhaseListCacheRecord{
		Year:        year,
		Phases:      phases,
		LastUpdated: now,
		TTL:         now + int64(c.ttl.Seconds()),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding phase cache record: %w", err)
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucketName),
		Key:    aws.String(phaseCacheKey(year)),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("saving to S3: %w", err)
	}

	log.Debug().Int("year", year).Int("phase_count", len(phases)).Msg("Saved moon phase list to S3 cache")
	return nil
}
