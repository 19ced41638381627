package models

// TideType classifies a predicted tide extreme.
type TideType string

const (
	TideTypeHigh TideType = "HIGH"
	TideTypeLow  TideType = "LOW"
)

// TideDirection describes which way the water is moving right now.
type TideDirection string

const (
	TideDirectionRising  TideDirection = "RISING"
	TideDirectionFalling TideDirection = "FALLING"
	TideDirectionUnknown TideDirection = "UNKNOWN"
)

// TideEvent is a single predicted high or low water extreme, heights in
// feet above MLLW. Event sequences are sorted ascending by timestamp and
// never mutated in place; a refresh replaces the whole slice.
type TideEvent struct {
	Timestamp int64    `json:"timestamp" dynamodbav:"timestamp"`
	LocalTime string   `json:"localTime" dynamodbav:"localTime"`
	Time12Hr  string   `json:"time12hr" dynamodbav:"time12hr"`
	Height    float64  `json:"height" dynamodbav:"height"`
	Type      TideType `json:"type" dynamodbav:"type"`
}

func (e TideEvent) GetTimestamp() int64 {
	return e.Timestamp
}

// WaterLevelSample is the most recent observed water level from the
// observation station. At most one is held at a time.
type WaterLevelSample struct {
	Timestamp int64   `json:"timestamp"`
	LocalTime string  `json:"localTime"`
	Height    float64 `json:"height"`
	Station   string  `json:"station"`
}

// TideStatus is the derived as-of-now cycle state. Prev and Next carry
// the bracketing events for caller inspection; both are nil when
// HasPredictions is false.
type TideStatus struct {
	Direction      TideDirection `json:"direction"`
	Percentage     float64       `json:"percentage"`
	IsRising       bool          `json:"isRising"`
	HasPredictions bool          `json:"hasPredictions"`
	Prev           *TideEvent    `json:"prevTide,omitempty"`
	Next           *TideEvent    `json:"nextTide,omitempty"`
}

// ExtendedTideResponse is the full tide payload served by the API.
type ExtendedTideResponse struct {
	ResponseType          string            `json:"responseType"`
	Timestamp             int64             `json:"timestamp"`
	LocalTime             string            `json:"localTime"`
	WaterLevel            *WaterLevelSample `json:"waterLevel"`
	Events                []TideEvent       `json:"predictions"`
	TodaysEvents          []TideEvent       `json:"todaysTides"`
	NextHigh              *TideEvent        `json:"nextHigh"`
	NextLow               *TideEvent        `json:"nextLow"`
	Status                TideStatus        `json:"status"`
	PredictionStation     string            `json:"predictionStation"`
	ObservationStation    string            `json:"observationStation"`
	TimeZoneOffsetSeconds int               `json:"timeZoneOffsetSeconds"`
}

// NoaaPrediction represents one entry of the raw NOAA predictions response
type NoaaPrediction struct {
	Time   string  `json:"t"`              // Time of prediction
	Height string  `json:"v"`              // Predicted water level
	Type   *string `json:"type,omitempty"` // H for high, L for low
}

type NoaaPredictionsResponse struct {
	Predictions []NoaaPrediction `json:"predictions"`
}

// NoaaWaterLevel represents one observed water level reading.
type NoaaWaterLevel struct {
	Time   string `json:"t"`
	Height string `json:"v"`
}

type NoaaWaterLevelResponse struct {
	Data []NoaaWaterLevel `json:"data"`
}
