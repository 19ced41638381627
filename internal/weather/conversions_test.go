package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func floatPtr(v float64) *float64 { return &v }

func TestCelsiusToFahrenheit(t *testing.T) {
	tests := []struct {
		celsius float64
		want    int
	}{
		{0, 32},
		{100, 212},
		{-40, -40},
		{20, 68},
		{20.3, 69},
		{-6.7, 20},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CelsiusToFahrenheit(tt.celsius))
	}
}

func TestFormatWindSpeed(t *testing.T) {
	assert.Equal(t, "N/A", FormatWindSpeed(nil))
	assert.Equal(t, "0 mph", FormatWindSpeed(floatPtr(0)))
	assert.Equal(t, "11 mph", FormatWindSpeed(floatPtr(5.0)))
	assert.Equal(t, "22 mph", FormatWindSpeed(floatPtr(10.0)))
}

func TestFormatVisibility(t *testing.T) {
	assert.Equal(t, "N/A", FormatVisibility(nil))
	assert.Equal(t, "10.0 mi", FormatVisibility(floatPtr(16093.4)))
	assert.Equal(t, "1.0 mi", FormatVisibility(floatPtr(1609.34)))
	assert.Equal(t, "0.5 mi", FormatVisibility(floatPtr(804.67)))
}

func TestDegreesToCompass(t *testing.T) {
	tests := []struct {
		degrees float64
		want    string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{360, "N"},
		{11, "N"},
		{12, "NNE"},
		{348, "NNW"},
		{349, "N"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DegreesToCompass(&tt.degrees))
	}

	assert.Equal(t, "N/A", DegreesToCompass(nil))
}
