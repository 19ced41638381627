package weather

import (
	"fmt"
	"math"
)

// Unit conversion constants for weather.gov SI observations.
const (
	metersToMiles    = 1609.34
	msToMph          = 2.237
	compassPoints    = 16
	degreesPerPoint  = 360.0 / compassPoints
	unitNotAvailable = "N/A"
)

var compassDirections = [compassPoints]string{
	"N", "NNE", "NE", "ENE",
	"E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW",
	"W", "WNW", "NW", "NNW",
}

// CelsiusToFahrenheit converts and rounds to the nearest whole degree.
func CelsiusToFahrenheit(celsius float64) int {
	return int(math.Round(celsius*9/5 + 32))
}

// FormatWindSpeed converts meters per second to a whole-mph string.
func FormatWindSpeed(metersPerSecond *float64) string {
	if metersPerSecond == nil {
		return unitNotAvailable
	}
	return fmt.Sprintf("%d mph", int(math.Round(*metersPerSecond*msToMph)))
}

// FormatVisibility converts meters to a one-decimal miles string.
func FormatVisibility(meters *float64) string {
	if meters == nil {
		return unitNotAvailable
	}
	return fmt.Sprintf("%.1f mi", math.Round(*meters/metersToMiles*10)/10)
}

// DegreesToCompass converts a wind bearing to one of the 16 compass
// points.
func DegreesToCompass(degrees *float64) string {
	if degrees == nil {
		return unitNotAvailable
	}
	index := int(math.Round(*degrees/degreesPerPoint)) % compassPoints
	if index < 0 {
		index += compassPoints
	}
	return compassDirections[index]
}
