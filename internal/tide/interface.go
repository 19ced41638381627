package tide

import (
	"context"
	"time"

	"github.com/camano/tidewatch/internal/models"
)

// TideService is the read surface the HTTP layer consumes.
type TideService interface {
	GetAllTideData(ctx context.Context) (*models.ExtendedTideResponse, error)
	GetCurrentWaterLevel(ctx context.Context) (*models.WaterLevelSample, error)
	GetTideEvents(ctx context.Context, days int) ([]models.TideEvent, error)
}

// TableCacheProvider is the slice of the tide table cache the service
// needs.
type TableCacheProvider interface {
	GetTideTable(ctx context.Context, stationID string, date time.Time) (*models.TideTableRecord, error)
	SaveTideTable(ctx context.Context, record models.TideTableRecord) error
	SaveTideTablesBatch(ctx context.Context, records []models.TideTableRecord) error
	GetCacheStats() map[string]uint64
	Clear()
}
