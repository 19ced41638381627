package astro

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/cache"
	"github.com/camano/tidewatch/internal/models"
)

// RawDayTimes is one day's rise-set table as fetched, times already in
// 12-hour local form. An empty string means the provider reported no
// such event for that day.
type RawDayTimes struct {
	Sunrise   string
	Sunset    string
	SolarNoon string
	Moonrise  string
	Moonset   string
}

// FetchDayFunc returns the raw rise-set table for an arbitrary date.
type FetchDayFunc func(ctx context.Context, date time.Time) (*RawDayTimes, error)

// RiseSetResolver fills missing moonrise/moonset entries from the
// adjacent day. The moon's rise/set cadence drifts about 50 minutes per
// day and can skip a civil day entirely, so a missing moonrise means the
// moon rose before local midnight and is still up; a missing moonset
// means it sets tomorrow.
type RiseSetResolver struct {
	fetch FetchDayFunc
	cache *cache.DayCache[*models.RiseSetRecord]
}

func NewRiseSetResolver(fetch FetchDayFunc) *RiseSetResolver {
	return &RiseSetResolver{
		fetch: fetch,
		cache: cache.NewDayCache[*models.RiseSetRecord](),
	}
}

// Resolve returns the rise-set record for now's calendar day, borrowing
// moonrise from yesterday and moonset from tomorrow when today's table
// omits them. Exactly one lookup is made in each direction. The resolved
// record is cached for the day.
func (r *RiseSetResolver) Resolve(ctx context.Context, now time.Time) (*models.RiseSetRecord, error) {
	if record, ok := r.cache.Get(now); ok {
		log.Debug().Msg("Using cached rise/set data")
		return record, nil
	}

	today, err := r.fetch(ctx, now)
	if err != nil {
		return nil, err
	}

	moonrise := today.Moonrise
	if moonrise == "" {
		yesterday, err := r.fetch(ctx, now.AddDate(0, 0, -1))
		if err != nil {
			log.Warn().Err(err).Msg("Fetching previous day rise/set failed")
		} else if yesterday.Moonrise != "" {
			moonrise = "-1 " + yesterday.Moonrise
		}
	}

	moonset := today.Moonset
	if moonset == "" {
		tomorrow, err := r.fetch(ctx, now.AddDate(0, 0, 1))
		if err != nil {
			log.Warn().Err(err).Msg("Fetching next day rise/set failed")
		} else if tomorrow.Moonset != "" {
			moonset = "+1 " + tomorrow.Moonset
		}
	}

	if moonrise == "" {
		moonrise = models.MoonTimeNone
	}
	if moonset == "" {
		moonset = models.MoonTimeNone
	}

	_, offsetSeconds := now.Zone()

	record := &models.RiseSetRecord{
		Date:                now.Format("2006-01-02"),
		Sunrise:             orUnknown(today.Sunrise),
		Sunset:              orUnknown(today.Sunset),
		SolarNoon:           orUnknown(today.SolarNoon),
		Moonrise:            moonrise,
		Moonset:             moonset,
		TimeZoneOffsetHours: offsetSeconds / 3600,
	}

	r.cache.Put(now, record)
	return record, nil
}

func orUnknown(value string) string {
	if value == "" {
		return models.TimeUnknown
	}
	return value
}
