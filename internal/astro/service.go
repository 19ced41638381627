package astro

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/cache"
	"github.com/camano/tidewatch/internal/config"
	"github.com/camano/tidewatch/internal/models"
	"github.com/camano/tidewatch/pkg/http/client"
)

// USNO phenomenon names in the rstt/oneday tables.
const (
	phenRise    = "Rise"
	phenSet     = "Set"
	phenTransit = "Upper Transit"
)

// Service fetches USNO rise-set tables and yearly moon phase lists and
// serves the resolved/interpolated astronomy state.
type Service struct {
	HttpClient client.Interface
	PhaseStore cache.PhaseListCacheProvider
	cfg        *config.Config
	location   *time.Location
	riseSet    *RiseSetResolver
	phases     *MoonPhaseInterpolator
	nowFn      func() time.Time
}

// NewService builds the astronomy service. phaseStore may be nil; the
// yearly list is then fetched from USNO whenever the month cache rolls.
func NewService(httpClient client.Interface, phaseStore cache.PhaseListCacheProvider, cfg *config.Config) *Service {
	s := &Service{
		HttpClient: httpClient,
		PhaseStore: phaseStore,
		cfg:        cfg,
		location:   cfg.Location(),
		nowFn:      time.Now,
	}
	s.riseSet = NewRiseSetResolver(s.fetchDayTimes)
	s.phases = NewMoonPhaseInterpolator(s.fetchYearPhases)
	return s
}

// GetAstronomyData returns the combined rise-set and moon phase payload.
func (s *Service) GetAstronomyData(ctx context.Context) (*models.AstronomyResponse, error) {
	now := s.nowFn().In(s.location)

	riseSet, err := s.riseSet.Resolve(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("resolving rise/set times: %w", err)
	}

	phase := s.phases.Current(ctx, now)

	log.Debug().
		Str("sunrise", riseSet.Sunrise).
		Str("sunset", riseSet.Sunset).
		Str("moon_phase", phase.PhaseName).
		Msg("Astronomy updated")

	return &models.AstronomyResponse{
		ResponseType:     "astronomy",
		Date:             riseSet.Date,
		Sunrise:          riseSet.Sunrise,
		Sunset:           riseSet.Sunset,
		SolarNoon:        riseSet.SolarNoon,
		Moonrise:         riseSet.Moonrise,
		Moonset:          riseSet.Moonset,
		MoonPhase:        phase.PhaseName,
		MoonIllumination: phase.Illumination,
		MoonEmoji:        phase.Emoji,
		Phase:            phase,
		LastUpdate:       now.Format(time.RFC3339),
	}, nil
}

// RiseSet exposes the resolved record alone.
func (s *Service) RiseSet(ctx context.Context) (*models.RiseSetRecord, error) {
	return s.riseSet.Resolve(ctx, s.nowFn().In(s.location))
}

// MoonPhase exposes the interpolated phase alone.
func (s *Service) MoonPhase(ctx context.Context) models.MoonPhaseResult {
	return s.phases.Current(ctx, s.nowFn().In(s.location))
}

func (s *Service) tzOffsetHours(now time.Time) int {
	_, offsetSeconds := now.Zone()
	return offsetSeconds / 3600
}

func (s *Service) fetchDayTimes(ctx context.Context, date time.Time) (*RawDayTimes, error) {
	now := s.nowFn().In(s.location)

	resp, err := s.HttpClient.Get(ctx, fmt.Sprintf("/rstt/oneday?date=%s&coords=%g,%g&tz=%d",
		date.Format("2006-01-02"), s.cfg.Latitude, s.cfg.Longitude, s.tzOffsetHours(now)))
	if err != nil {
		return nil, fmt.Errorf("fetching rise/set data: %w", err)
	}

	var usnoResp models.UsnoDayResponse
	if err := json.Unmarshal(resp.Body, &usnoResp); err != nil {
		return nil, fmt.Errorf("decoding rise/set response: %w", err)
	}

	if usnoResp.Properties == nil {
		return nil, fmt.Errorf("rise/set response missing properties for %s", date.Format("2006-01-02"))
	}

	data := usnoResp.Properties.Data
	return &RawDayTimes{
		Sunrise:   convertTo12Hr(findPhenomenon(data.SunData, phenRise)),
		Sunset:    convertTo12Hr(findPhenomenon(data.SunData, phenSet)),
		SolarNoon: convertTo12Hr(findPhenomenon(data.SunData, phenTransit)),
		Moonrise:  convertTo12Hr(findPhenomenon(data.MoonData, phenRise)),
		Moonset:   convertTo12Hr(findPhenomenon(data.MoonData, phenSet)),
	}, nil
}

func (s *Service) fetchYearPhases(ctx context.Context, year int) ([]models.MoonPhaseEvent, error) {
	if s.PhaseStore != nil {
		cached, err := s.PhaseStore.GetPhases(ctx, year)
		if err != nil {
			log.Warn().Err(err).Int("year", year).Msg("Phase store lookup failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	now := s.nowFn().In(s.location)

	log.Debug().Int("year", year).Int("tz_offset", s.tzOffsetHours(now)).Msg("Fetching moon phases")

	resp, err := s.HttpClient.Get(ctx, fmt.Sprintf("/moon/phases/year?year=%d&tz=%d",
		year, s.tzOffsetHours(now)))
	if err != nil {
		return nil, fmt.Errorf("fetching moon phases: %w", err)
	}

	var usnoResp models.UsnoPhasesResponse
	if err := json.Unmarshal(resp.Body, &usnoResp); err != nil {
		return nil, fmt.Errorf("decoding moon phases response: %w", err)
	}

	phases := make([]models.MoonPhaseEvent, 0, len(usnoResp.PhaseData))
	for _, p := range usnoResp.PhaseData {
		phases = append(phases, models.MoonPhaseEvent{
			Phase: models.MoonPhase(p.Phase),
			Date:  fmt.Sprintf("%04d-%02d-%02d", year, p.Month, p.Day),
			Time:  p.Time,
		})
	}

	if s.PhaseStore != nil {
		if err := s.PhaseStore.SavePhases(ctx, year, phases); err != nil {
			log.Warn().Err(err).Int("year", year).Msg("Saving phases to store failed")
		}
	}

	return phases, nil
}

// findPhenomenon finds a specific phenomenon (Rise, Set, ...) in a USNO
// phenomenon list; empty when absent.
func findPhenomenon(list []models.UsnoPhenomenon, phen string) string {
	for _, item := range list {
		if item.Phen == phen {
			return item.Time
		}
	}
	return ""
}

// convertTo12Hr converts a 24-hour "HH:MM" time to 12-hour form with
// AM/PM. Empty and sentinel values pass through untouched.
func convertTo12Hr(timeStr string) string {
	if timeStr == "" || timeStr == models.TimeUnknown {
		return timeStr
	}

	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		return timeStr
	}
	return t.Format("3:04 PM")
}
