package models

import (
	"fmt"
	"time"
)

// TideTableRecord is a cached hi/lo event table for a station and date.
type TideTableRecord struct {
	StationID   string      `dynamodbav:"stationId" json:"stationId"`
	Date        string      `dynamodbav:"date" json:"date"` // YYYY-MM-DD
	Events      []TideEvent `dynamodbav:"events" json:"events"`
	LastUpdated int64       `dynamodbav:"lastUpdated" json:"lastUpdated"`
	TTL         int64       `dynamodbav:"ttl" json:"ttl"`
}

// Validate checks if a TideTableRecord's fields are valid
func (r *TideTableRecord) Validate() error {
	if r.StationID == "" {
		return fmt.Errorf("station ID is required")
	}

	if r.Date == "" {
		return fmt.Errorf("date is required")
	}

	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("invalid date format: %s", r.Date)
	}

	for i, event := range r.Events {
		if err := event.Validate(); err != nil {
			return fmt.Errorf("invalid event at index %d: %w", i, err)
		}
	}

	return nil
}

// Validate checks that a TideEvent carries a usable timestamp and type.
func (e *TideEvent) Validate() error {
	if e.Timestamp <= 0 {
		return fmt.Errorf("timestamp must be positive")
	}

	switch e.Type {
	case TideTypeHigh, TideTypeLow:
	default:
		return fmt.Errorf("invalid tide type: %s", e.Type)
	}

	return nil
}
