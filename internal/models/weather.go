package models

// GovMeasurement is weather.gov's unit-tagged value envelope. Value is
// nil when the station didn't report the quantity.
type GovMeasurement struct {
	Value    *float64 `json:"value"`
	UnitCode string   `json:"unitCode"`
}

// GovObservationProperties is the subset of the latest-observation
// payload the service uses.
type GovObservationProperties struct {
	Timestamp          string         `json:"timestamp"`
	TextDescription    string         `json:"textDescription"`
	Temperature        GovMeasurement `json:"temperature"`
	Dewpoint           GovMeasurement `json:"dewpoint"`
	WindSpeed          GovMeasurement `json:"windSpeed"`
	WindDirection      GovMeasurement `json:"windDirection"`
	Visibility         GovMeasurement `json:"visibility"`
	RelativeHumidity   GovMeasurement `json:"relativeHumidity"`
	BarometricPressure GovMeasurement `json:"barometricPressure"`
}

type GovObservationResponse struct {
	Properties GovObservationProperties `json:"properties"`
}

// GovForecastPeriod is one entry of the gridpoint forecast.
type GovForecastPeriod struct {
	Name             string `json:"name"`
	Temperature      int    `json:"temperature"`
	TemperatureUnit  string `json:"temperatureUnit"`
	WindSpeed        string `json:"windSpeed"`
	WindDirection    string `json:"windDirection"`
	ShortForecast    string `json:"shortForecast"`
	DetailedForecast string `json:"detailedForecast"`
	Icon             string `json:"icon"`
	IsDaytime        bool   `json:"isDaytime"`
}

type GovForecastResponse struct {
	Properties struct {
		Periods []GovForecastPeriod `json:"periods"`
	} `json:"properties"`
}

type GovPointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

// WeatherResponse is the combined current-conditions and forecast
// payload served by the API.
type WeatherResponse struct {
	ResponseType         string              `json:"responseType"`
	Temperature          *int                `json:"temperature"`
	TemperatureUnit      string              `json:"temperatureUnit"`
	Conditions           string              `json:"conditions"`
	WindSpeed            string              `json:"windSpeed"`
	WindDirection        string              `json:"windDirection"`
	WindDirectionDegrees *float64            `json:"windDirectionDegrees"`
	Visibility           string              `json:"visibility"`
	Humidity             *float64            `json:"humidity"`
	Pressure             *float64            `json:"pressure"`
	Dewpoint             *int                `json:"dewpoint"`
	DetailedForecast     string              `json:"detailedForecast"`
	Icon                 string              `json:"icon"`
	IsDaytime            bool                `json:"isDaytime"`
	ForecastPeriods      []GovForecastPeriod `json:"forecastPeriods"`
	StationID            string              `json:"stationId"`
	LastUpdate           string              `json:"lastUpdate"`
}
