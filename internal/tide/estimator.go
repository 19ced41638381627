package tide

import (
	"math"
	"time"

	"github.com/camano/tidewatch/internal/models"
)

// Height changes smaller than this are treated as flat water and the
// observed sample is ignored when blending progress.
const minHeightRange = 0.1

// EstimateCycle derives the as-of-now tide direction and fractional
// progress through the current cycle from a chronologically sorted event
// sequence spanning now, optionally refined by the latest observed water
// level. Missing bracketing events degrade to an Unknown status rather
// than an error.
func EstimateCycle(events []models.TideEvent, sample *models.WaterLevelSample, now time.Time) models.TideStatus {
	nowMillis := now.UnixMilli()

	var prev, next *models.TideEvent
	for i := range events {
		if events[i].Timestamp <= nowMillis {
			prev = &events[i]
		} else {
			next = &events[i]
			break
		}
	}

	if prev == nil || next == nil {
		return models.TideStatus{
			Direction:      models.TideDirectionUnknown,
			Percentage:     0.5,
			IsRising:       true,
			HasPredictions: false,
		}
	}

	isRising := next.Type == models.TideTypeHigh

	totalDuration := next.Timestamp - prev.Timestamp
	percentage := 0.5
	if totalDuration > 0 {
		percentage = float64(nowMillis-prev.Timestamp) / float64(totalDuration)
	}

	// Refine with the observed level when the cycle has real range. The
	// blend is a plain average of time and height progress, kept as-is
	// from the original heuristic.
	if sample != nil {
		heightRange := next.Height - prev.Height
		if math.Abs(heightRange) > minHeightRange {
			heightPercentage := (sample.Height - prev.Height) / heightRange
			percentage = (percentage + heightPercentage) / 2
		}
	}

	percentage = math.Max(0.0, math.Min(1.0, percentage))

	direction := models.TideDirectionFalling
	if isRising {
		direction = models.TideDirectionRising
	}

	return models.TideStatus{
		Direction:      direction,
		Percentage:     percentage,
		IsRising:       isRising,
		HasPredictions: true,
		Prev:           prev,
		Next:           next,
	}
}
