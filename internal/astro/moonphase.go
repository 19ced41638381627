package astro

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/camano/tidewatch/internal/cache"
	"github.com/camano/tidewatch/internal/models"
)

// Emoji reported when no phase data is available at all.
const emojiUnknown = "\U0001F314"

// FetchYearFunc returns the full quarter-phase list for a year.
type FetchYearFunc func(ctx context.Context, year int) ([]models.MoonPhaseEvent, error)

// MoonPhaseInterpolator derives the current named phase and illumination
// from the sparse quarter-phase table. Quarter events are held in a
// month-keyed cache; a year is fetched whenever the current month is
// absent.
type MoonPhaseInterpolator struct {
	fetch  FetchYearFunc
	months *cache.MonthCache[[]models.MoonPhaseEvent]
}

func NewMoonPhaseInterpolator(fetch FetchYearFunc) *MoonPhaseInterpolator {
	return &MoonPhaseInterpolator{
		fetch:  fetch,
		months: cache.NewMonthCache[[]models.MoonPhaseEvent](),
	}
}

// Current returns the phase state for now. Data gaps degrade to
// {"Unknown", 50} rather than an error.
func (m *MoonPhaseInterpolator) Current(ctx context.Context, now time.Time) models.MoonPhaseResult {
	if !m.months.HasCurrentMonth(now) {
		m.refreshYear(ctx, now.Year())
	}

	phases, _ := m.months.Get(cache.MonthKey(now))
	today := now.Format("2006-01-02")

	var recent, next *models.MoonPhaseEvent
	for i := range phases {
		if phases[i].Date <= today {
			recent = &phases[i]
		} else if next == nil {
			next = &phases[i]
			break
		}
	}

	// No quarter event yet this month: the most recent one is the last
	// event of the previous month.
	if recent == nil {
		prevMonth := cache.MonthKey(now.AddDate(0, 0, -now.Day()))
		if prevPhases, ok := m.months.Get(prevMonth); ok && len(prevPhases) > 0 {
			recent = &prevPhases[len(prevPhases)-1]
		}
	}

	if recent == nil {
		return models.MoonPhaseResult{
			PhaseName:    "Unknown",
			Illumination: 50,
			Emoji:        emojiUnknown,
		}
	}

	name, emoji, illumination := detailedPhase(recent, next, today)

	result := models.MoonPhaseResult{
		PhaseName:     name,
		Illumination:  illumination,
		Emoji:         emoji,
		LastPhaseDate: recent.Date,
	}
	if next != nil {
		result.NextPhase = &next.Phase
		result.NextPhaseDate = next.Date
	}
	return result
}

func (m *MoonPhaseInterpolator) refreshYear(ctx context.Context, year int) {
	phases, err := m.fetch(ctx, year)
	if err != nil {
		log.Warn().Err(err).Int("year", year).Msg("Fetching moon phases failed")
		return
	}

	byMonth := make(map[string][]models.MoonPhaseEvent)
	for _, phase := range phases {
		date, err := time.Parse("2006-01-02", phase.Date)
		if err != nil {
			log.Warn().Str("date", phase.Date).Msg("Skipping phase with unparseable date")
			continue
		}
		key := cache.MonthKey(date)
		byMonth[key] = append(byMonth[key], phase)
	}

	for key, monthPhases := range byMonth {
		m.months.Put(key, monthPhases)
	}

	log.Debug().Int("year", year).Int("phase_count", len(phases)).Msg("Cached moon phases")
}

// detailedPhase maps the (recent, next) quarter pair to the current
// phase name, emoji and illumination. Between quarters the phase takes
// the intermediate name and the illumination tracks whole-day progress;
// with no next event the canonical quarter values are reported.
func detailedPhase(recent, next *models.MoonPhaseEvent, today string) (string, string, int) {
	if next == nil {
		return canonicalPhase(recent.Phase)
	}

	progress := phaseProgress(recent.Date, next.Date, today)

	switch {
	case recent.Phase == models.MoonPhaseNew && next.Phase == models.MoonPhaseFirstQuarter:
		return "Waxing Crescent", models.MoonEmojis["Waxing Crescent"], int(progress * 50)
	case recent.Phase == models.MoonPhaseFirstQuarter && next.Phase == models.MoonPhaseFull:
		return "Waxing Gibbous", models.MoonEmojis["Waxing Gibbous"], 50 + int(progress*50)
	case recent.Phase == models.MoonPhaseFull && next.Phase == models.MoonPhaseLastQuarter:
		return "Waning Gibbous", models.MoonEmojis["Waning Gibbous"], 100 - int(progress*50)
	case recent.Phase == models.MoonPhaseLastQuarter && next.Phase == models.MoonPhaseNew:
		return "Waning Crescent", models.MoonEmojis["Waning Crescent"], 50 - int(progress*50)
	default:
		return canonicalPhase(recent.Phase)
	}
}

func canonicalPhase(phase models.MoonPhase) (string, string, int) {
	name := string(phase)

	emoji, ok := models.MoonEmojis[name]
	if !ok {
		emoji = models.MoonEmojiDefault
	}

	illumination, ok := models.PhaseIllumination[phase]
	if !ok {
		illumination = 50
	}

	return name, emoji, illumination
}

// phaseProgress is the whole-day fraction elapsed between two quarter
// dates; zero when the dates collapse or fail to parse.
func phaseProgress(recentDate, nextDate, today string) float64 {
	recent, err1 := time.Parse("2006-01-02", recentDate)
	next, err2 := time.Parse("2006-01-02", nextDate)
	current, err3 := time.Parse("2006-01-02", today)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0
	}

	totalDays := int(next.Sub(recent).Hours() / 24)
	if totalDays <= 0 {
		return 0
	}

	daysSince := int(current.Sub(recent).Hours() / 24)
	return float64(daysSince) / float64(totalDays)
}
