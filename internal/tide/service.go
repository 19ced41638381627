package tide

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/cache"
	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/models"
	"github.com/camano/tidewatch/pkg/http/client"
)

// NOAA query constants. Subordinate stations near the configured beach
// don't support API predictions, so one reference station serves both
// products.
const (
	datum           = "MLLW"
	units           = "english"
	applicationName = "TideWatch"

	// Window fetched around now: one day back for bracketing, a week
	// forward for the forecast strip.
	windowDaysBack    = 1
	windowDaysForward = 7
)

type Service struct {
	HttpClient client.Interface
	Tables     TableCacheProvider
	Levels     *cache.DayCache[*models.WaterLevelSample]
	cfg        *config.Config
	location   *time.Location
	nowFn      func() time.Time
}

func NewService(httpClient client.Interface, tables TableCacheProvider, cfg *config.Config) *Service {
	return &Service{
		HttpClient: httpClient,
		Tables:     tables,
		Levels:     cache.NewDayCache[*models.WaterLevelSample](),
		cfg:        cfg,
		location:   cfg.Location(),
		nowFn:      time.Now,
	}
}

// GetTideEvents returns the hi/lo event table spanning now, from one day
// back through `days` days forward. The full window is fetched and
// cached as one table per calendar day; callers get the slice trimmed
// to their range.
func (s *Service) GetTideEvents(ctx context.Context, days int) ([]models.TideEvent, error) {
	now := s.nowFn().In(s.location)
	if days <= 0 || days > windowDaysForward {
		days = windowDaysForward
	}

	if events, ok := s.cachedWindow(ctx, now, days); ok {
		return s.trimWindow(events, now, days), nil
	}

	events, err := s.fetchTideEvents(ctx, now)
	if err != nil {
		return nil, err
	}

	s.saveWindow(ctx, events)

	return s.trimWindow(events, now, days), nil
}

// cachedWindow assembles the requested window from per-day cached
// tables. Any missing or unreadable day forces a full refetch.
func (s *Service) cachedWindow(ctx context.Context, now time.Time, days int) ([]models.TideEvent, bool) {
	if s.Tables == nil {
		return nil, false
	}

	var events []models.TideEvent
	for offset := -windowDaysBack; offset <= days; offset++ {
		day := now.AddDate(0, 0, offset)
		record, err := s.Tables.GetTideTable(ctx, s.cfg.PredictionStation, day)
		if err != nil {
			log.Warn().Err(err).Msg("Tide table cache lookup failed")
			return nil, false
		}
		if record == nil {
			return nil, false
		}
		events = append(events, record.Events...)
	}
	return events, true
}

// saveWindow splits the fetched window into per-day tables and writes
// them through in one batch.
func (s *Service) saveWindow(ctx context.Context, events []models.TideEvent) {
	if s.Tables == nil || len(events) == 0 {
		return
	}

	byDate := make(map[string][]models.TideEvent)
	var dates []string
	for _, event := range events {
		date := time.UnixMilli(event.Timestamp).In(s.location).Format("2006-01-02")
		if _, ok := byDate[date]; !ok {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], event)
	}

	records := make([]models.TideTableRecord, 0, len(dates))
	for _, date := range dates {
		records = append(records, models.TideTableRecord{
			StationID: s.cfg.PredictionStation,
			Date:      date,
			Events:    byDate[date],
		})
	}

	var err error
	if len(records) == 1 {
		err = s.Tables.SaveTideTable(ctx, records[0])
	} else {
		err = s.Tables.SaveTideTablesBatch(ctx, records)
	}
	if err != nil {
		log.Warn().Err(err).Msg("Saving tide tables to cache failed")
	}
}

func (s *Service) trimWindow(events []models.TideEvent, now time.Time, days int) []models.TideEvent {
	cutoff := now.AddDate(0, 0, days).UnixMilli()

	var trimmed []models.TideEvent
	for _, event := range events {
		if event.Timestamp <= cutoff {
			trimmed = append(trimmed, event)
		}
	}
	return trimmed
}

func (s *Service) fetchTideEvents(ctx context.Context, now time.Time) ([]models.TideEvent, error) {
	beginDate := now.AddDate(0, 0, -windowDaysBack).Format("20060102")
	endDate := now.AddDate(0, 0, windowDaysForward).Format("20060102")

	resp, err := s.HttpClient.Get(ctx, fmt.Sprintf("/api/prod/datagetter"+
		"?station=%s&begin_date=%s&end_date=%s&product=predictions&datum=%s"+
		"&units=%s&time_zone=lst_ldt&interval=hilo&format=json&application=%s",
		s.cfg.PredictionStation, beginDate, endDate, datum, units, applicationName))
	if err != nil {
		return nil, NewNoaaAPIError("fetching predictions", err)
	}

	log.Debug().
		Str("station", s.cfg.PredictionStation).
		Str("begin_date", beginDate).
		Str("end_date", endDate).
		Msg("Fetched hi/lo predictions from NOAA")

	var noaaResp models.NoaaPredictionsResponse
	if err := json.Unmarshal(resp.Body, &noaaResp); err != nil {
		return nil, NewNoaaAPIError("decoding predictions response", err)
	}

	events := make([]models.TideEvent, len(noaaResp.Predictions))
	for i, p := range noaaResp.Predictions {
		timestamp, localTime, err := parseNoaaTime(p.Time, s.location)
		if err != nil {
			return nil, err
		}

		height, err := strconv.ParseFloat(p.Height, 64)
		if err != nil {
			return nil, NewNoaaAPIError(fmt.Sprintf("parsing height %s", p.Height), err)
		}

		tideType := models.TideTypeLow
		if p.Type != nil && *p.Type == "H" {
			tideType = models.TideTypeHigh
		}

		events[i] = models.TideEvent{
			Timestamp: timestamp,
			LocalTime: localTime.Format("2006-01-02T15:04:05"),
			Time12Hr:  format12Hr(localTime),
			Height:    roundHeight(height),
			Type:      tideType,
		}
	}

	return events, nil
}

// GetCurrentWaterLevel fetches the latest observation from the last 30
// minutes. On fetch failure the same-day cached sample is returned so a
// transient provider outage doesn't blank the display.
func (s *Service) GetCurrentWaterLevel(ctx context.Context) (*models.WaterLevelSample, error) {
	nowGMT := s.nowFn().UTC()
	beginDate := nowGMT.Add(-30 * time.Minute).Format("20060102 15:04")
	endDate := nowGMT.Format("20060102 15:04")

	resp, err := s.HttpClient.Get(ctx, fmt.Sprintf("/api/prod/datagetter"+
		"?station=%s&begin_date=%s&end_date=%s&product=water_level&datum=%s"+
		"&units=%s&time_zone=gmt&format=json&application=%s",
		s.cfg.ObservationStation, beginDate, endDate, datum, units, applicationName))
	if err != nil {
		log.Warn().Err(err).Msg("Fetching current water level failed")
		if cached, ok := s.Levels.Get(s.nowFn().In(s.location)); ok {
			return cached, nil
		}
		return nil, NewNoaaAPIError("fetching water level", err)
	}

	var noaaResp models.NoaaWaterLevelResponse
	if err := json.Unmarshal(resp.Body, &noaaResp); err != nil {
		return nil, NewNoaaAPIError("decoding water level response", err)
	}

	if len(noaaResp.Data) == 0 {
		log.Warn().Msg("No current water level data available")
		return nil, nil
	}

	latest := noaaResp.Data[len(noaaResp.Data)-1]

	gmtTime, err := time.ParseInLocation("2006-01-02 15:04", latest.Time, time.UTC)
	if err != nil {
		return nil, NewNoaaAPIError(fmt.Sprintf("parsing time %s", latest.Time), err)
	}
	localTime := gmtTime.In(s.location)

	height, err := strconv.ParseFloat(latest.Height, 64)
	if err != nil {
		return nil, NewNoaaAPIError(fmt.Sprintf("parsing height %s", latest.Height), err)
	}

	sample := &models.WaterLevelSample{
		Timestamp: localTime.UnixMilli(),
		LocalTime: localTime.Format("2006-01-02 15:04"),
		Height:    roundHeight(height),
		Station:   s.cfg.ObservationStation,
	}
	s.Levels.Put(localTime, sample)

	log.Debug().
		Float64("height", sample.Height).
		Str("time", sample.LocalTime).
		Msg("Current water level updated")

	return sample, nil
}

// NextTides returns the first upcoming high and low events after now.
// Either may be nil when the window runs out before one occurs.
func (s *Service) NextTides(events []models.TideEvent) (nextHigh, nextLow *models.TideEvent) {
	nowMillis := s.nowFn().In(s.location).UnixMilli()

	for i := range events {
		if events[i].Timestamp <= nowMillis {
			continue
		}
		switch events[i].Type {
		case models.TideTypeHigh:
			if nextHigh == nil {
				nextHigh = &events[i]
			}
		case models.TideTypeLow:
			if nextLow == nil {
				nextLow = &events[i]
			}
		}
		if nextHigh != nil && nextLow != nil {
			break
		}
	}
	return nextHigh, nextLow
}

// TodaysTides returns all events within the current local calendar day.
func (s *Service) TodaysTides(events []models.TideEvent) []models.TideEvent {
	now := s.nowFn().In(s.location)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var todays []models.TideEvent
	for _, event := range events {
		if event.Timestamp >= dayStart.UnixMilli() && event.Timestamp < dayEnd.UnixMilli() {
			todays = append(todays, event)
		}
	}
	return todays
}

// CalculateTideStatus runs the cycle estimator over the current window
// and the latest observation. Missing upstream data degrades to the
// Unknown status instead of an error.
func (s *Service) CalculateTideStatus(ctx context.Context) models.TideStatus {
	events, err := s.GetTideEvents(ctx, windowDaysForward)
	if err != nil {
		log.Warn().Err(err).Msg("No predictions available for tide status")
		return EstimateCycle(nil, nil, s.nowFn().In(s.location))
	}

	sample, err := s.GetCurrentWaterLevel(ctx)
	if err != nil {
		sample = nil
	}

	return EstimateCycle(events, sample, s.nowFn().In(s.location))
}

// GetAllTideData assembles the full tide payload: current level,
// predictions, next/today's tides and the derived status.
func (s *Service) GetAllTideData(ctx context.Context) (*models.ExtendedTideResponse, error) {
	now := s.nowFn().In(s.location)

	events, err := s.GetTideEvents(ctx, windowDaysForward)
	if err != nil {
		return nil, fmt.Errorf("getting tide events: %w", err)
	}

	sample, err := s.GetCurrentWaterLevel(ctx)
	if err != nil {
		// Status falls back to time-only progress without a sample
		sample = nil
	}

	nextHigh, nextLow := s.NextTides(events)
	status := EstimateCycle(events, sample, now)

	_, offsetSeconds := now.Zone()

	return &models.ExtendedTideResponse{
		ResponseType:          "tide",
		Timestamp:             now.UnixMilli(),
		LocalTime:             now.Format("2006-01-02T15:04:05"),
		WaterLevel:            sample,
		Events:                events,
		TodaysEvents:          s.TodaysTides(events),
		NextHigh:              nextHigh,
		NextLow:               nextLow,
		Status:                status,
		PredictionStation:     s.cfg.PredictionStation,
		ObservationStation:    s.cfg.ObservationStation,
		TimeZoneOffsetSeconds: offsetSeconds,
	}, nil
}

func parseNoaaTime(timeStr string, location *time.Location) (int64, time.Time, error) {
	// NOAA lst_ldt time format is "2006-01-02 15:04" in station local time
	t, err := time.ParseInLocation("2006-01-02 15:04", timeStr, location)
	if err != nil {
		return 0, time.Time{}, NewNoaaAPIError(fmt.Sprintf("parsing time %s", timeStr), err)
	}
	return t.UnixMilli(), t, nil
}

func format12Hr(t time.Time) string {
	return t.Format("3:04 PM")
}

func roundHeight(height float64) float64 {
	return math.Round(height*100) / 100
}
