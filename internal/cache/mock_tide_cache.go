package cache

import (
	"context"
	"time"

	"github.com/camano/tidewatch/internal/models"
)

// MockTideTableCache is a no-op table cache, used in tests and when
// DynamoDB is not configured.
type MockTideTableCache struct{}

func NewMockTideTableCache() *MockTideTableCache {
	return &MockTideTableCache{}
}

func (m *MockTideTableCache) GetTideTable(_ context.Context, _ string, _ time.Time) (*models.TideTableRecord, error) {
	return nil, nil
}

func (m *MockTideTableCache) SaveTideTable(_ context.Context, _ models.TideTableRecord) error {
	return nil
}

func (m *MockTideTableCache) SaveTideTablesBatch(_ context.Context, _ []models.TideTableRecord) error {
	return nil
}

func (m *MockTideTableCache) GetCacheStats() map[string]uint64 {
	return map[string]uint64{}
}

func (m *MockTideTableCache) Clear() {}
