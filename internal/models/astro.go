package models

// MoonPhase is one of the four named reference quarter phases as USNO
// reports them.
type MoonPhase string

const (
	MoonPhaseNew          MoonPhase = "New Moon"
	MoonPhaseFirstQuarter MoonPhase = "First Quarter"
	MoonPhaseFull         MoonPhase = "Full Moon"
	MoonPhaseLastQuarter  MoonPhase = "Last Quarter"
)

// PhaseIllumination maps each quarter phase to its canonical
// illumination percentage.
var PhaseIllumination = map[MoonPhase]int{
	MoonPhaseNew:          0,
	MoonPhaseFirstQuarter: 50,
	MoonPhaseFull:         100,
	MoonPhaseLastQuarter:  50,
}

// MoonEmojis maps phase names, including the intermediate ones, to their
// display emoji.
var MoonEmojis = map[string]string{
	"New Moon":        "\U0001F311",
	"First Quarter":   "\U0001F313",
	"Full Moon":       "\U0001F315",
	"Last Quarter":    "\U0001F317",
	"Waxing Crescent": "\U0001F312",
	"Waxing Gibbous":  "\U0001F314",
	"Waning Gibbous":  "\U0001F316",
	"Waning Crescent": "\U0001F318",
}

// MoonEmojiDefault is used when a phase name has no mapping.
const MoonEmojiDefault = "\U0001F319"

// MoonPhaseEvent is one dated quarter phase from the yearly USNO table.
// Events for a year are partitioned by month; within a month they are
// sorted ascending by date.
type MoonPhaseEvent struct {
	Phase MoonPhase `json:"phase" dynamodbav:"phase"`
	Date  string    `json:"date" dynamodbav:"date"` // YYYY-MM-DD
	Time  string    `json:"time" dynamodbav:"time"` // HH:MM, display only
}

// MoonPhaseResult is the derived as-of-now phase state.
type MoonPhaseResult struct {
	PhaseName     string     `json:"phaseName"`
	Illumination  int        `json:"illumination"`
	Emoji         string     `json:"emoji"`
	LastPhaseDate string     `json:"lastPhaseDate,omitempty"`
	NextPhase     *MoonPhase `json:"nextPhase,omitempty"`
	NextPhaseDate string     `json:"nextPhaseDate,omitempty"`
}

// Rise/set sentinels. TimeUnknown marks a sun field the provider did not
// report; MoonTimeNone marks a moon field that stayed empty even after
// the adjacent-day check.
const (
	TimeUnknown  = "--:--"
	MoonTimeNone = "None"
)

// RiseSetRecord holds one day's resolved rise and set times, already
// converted to 12-hour local strings. Moonrise may carry a "-1 " prefix
// (rose yesterday, still up) and moonset a "+1 " prefix (sets tomorrow).
type RiseSetRecord struct {
	Date                string `json:"date"` // YYYY-MM-DD
	Sunrise             string `json:"sunrise"`
	Sunset              string `json:"sunset"`
	SolarNoon           string `json:"solarNoon"`
	Moonrise            string `json:"moonrise"`
	Moonset             string `json:"moonset"`
	TimeZoneOffsetHours int    `json:"timezoneOffsetHours"`
}

// AstronomyResponse is the full astronomy payload served by the API.
type AstronomyResponse struct {
	ResponseType     string          `json:"responseType"`
	Date             string          `json:"date"`
	Sunrise          string          `json:"sunrise"`
	Sunset           string          `json:"sunset"`
	SolarNoon        string          `json:"solarNoon"`
	Moonrise         string          `json:"moonrise"`
	Moonset          string          `json:"moonset"`
	MoonPhase        string          `json:"moonPhase"`
	MoonIllumination int             `json:"moonIllumination"`
	MoonEmoji        string          `json:"moonEmoji"`
	Phase            MoonPhaseResult `json:"phase"`
	LastUpdate       string          `json:"lastUpdate"`
}

// USNO raw response types.

// UsnoPhenomenon is one rise/set/transit entry from the rstt/oneday
// endpoint. Phen is "Rise", "Set" or "Upper Transit".
type UsnoPhenomenon struct {
	Phen string `json:"phen"`
	Time string `json:"time"`
}

type UsnoDayData struct {
	SunData  []UsnoPhenomenon `json:"sundata"`
	MoonData []UsnoPhenomenon `json:"moondata"`
}

type UsnoDayResponse struct {
	Properties *struct {
		Data UsnoDayData `json:"data"`
	} `json:"properties"`
}

// UsnoPhase is one entry of the moon/phases/year endpoint.
type UsnoPhase struct {
	Phase string `json:"phase"`
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Day   int    `json:"day"`
	Time  string `json:"time"`
}

type UsnoPhasesResponse struct {
	PhaseData []UsnoPhase `json:"phasedata"`
}
